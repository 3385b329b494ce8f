package cmd

import (
	"fmt"

	"github.com/google/uuid"
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/arena-tracklist-ocr/pkg/logger"
)

// --- グローバル定数 ---

const appName = "arena-ocr"

// --- グローバル変数 ---

var globalLogger *zap.Logger // PersistentPreRunE で初期化される診断ロガー

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、ルートコマンドの説明を設定します。
// 取得先や出力先は固定値のため、アプリケーション固有のフラグは追加しません。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.Short = "Are.na チャンネルの画像からトラックリストをOCRで抽出するツール"
	rootCmd.Long = `固定の Are.na チャンネルから画像エントリを取得し、Tesseract でテキストを抽出して
コンソールと extracted_tracklists.json に出力します。`
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	l, err := logger.New(clibase.Flags.Verbose)
	if err != nil {
		return fmt.Errorf("ロガーの初期化エラー: %w", err)
	}
	globalLogger = l.With(zap.String("run_id", uuid.NewString()))
	globalLogger.Debug("ロガーを初期化しました", zap.Bool("verbose", clibase.Flags.Verbose))
	return nil
}

// GetLogger は、初期化されたロガーを返します。未初期化の場合は何も出力しないロガーを返します。
func GetLogger() *zap.Logger {
	if globalLogger == nil {
		return logger.NewNop()
	}
	return globalLogger
}

// --- エントリポイント ---

// Execute は、clibase を使用してルートコマンドを構築し実行します。
// エラー時の os.Exit(1) は clibase.Execute の中で処理されます。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		extractCmd,
	)
}
