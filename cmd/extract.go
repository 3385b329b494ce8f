package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/arena-tracklist-ocr/internal/config"
	"github.com/shouni/arena-tracklist-ocr/internal/pipeline"
	"github.com/shouni/arena-tracklist-ocr/pkg/ocr/tesseract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "チャンネルの画像からテキストを抽出し、JSONファイルに保存します",
	Long:  `チャンネルのコンテンツ一覧を取得し、画像エントリを1件ずつダウンロードしてOCRを実行します。個々の画像の失敗は記録され、処理は継続されます。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		log := GetLogger()
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		// 1. 依存性の初期化
		cfg := config.Load()
		engine := tesseract.New(cfg.OCR.Language, cfg.OCR.PageSegMode)
		runner, err := pipeline.New(cfg, engine, cmd.OutOrStdout(), log)
		if err != nil {
			return fmt.Errorf("パイプラインの初期化エラー: %w", err)
		}

		// 2. メインロジックの実行
		start := time.Now()
		rep, err := runner.Run(ctx)
		if err != nil {
			log.Error("パイプラインが中断されました", zap.Error(err))
			return fmt.Errorf("抽出パイプラインの実行エラー: %w", err)
		}

		// 3. 結果の出力
		succeeded, failed := rep.Counts()
		log.Info("パイプラインが完了しました",
			zap.Int("succeeded", succeeded),
			zap.Int("failed", failed),
			zap.Duration("elapsed", time.Since(start)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "結果を %s に保存しました\n", cfg.Output.Path)
		return nil
	},
}
