package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/shouni/arena-tracklist-ocr/internal/config"
	"github.com/shouni/arena-tracklist-ocr/pkg/arena"
	"github.com/shouni/arena-tracklist-ocr/pkg/extract"
	"github.com/shouni/arena-tracklist-ocr/pkg/filter"
	"github.com/shouni/arena-tracklist-ocr/pkg/httpclient"
	"github.com/shouni/arena-tracklist-ocr/pkg/ocr"
	"github.com/shouni/arena-tracklist-ocr/pkg/report"
	"github.com/shouni/arena-tracklist-ocr/pkg/types"
)

// ContentFetcher は、チャンネルのコンテンツ一覧を取得する機能です。*arena.Client が満たします。
type ContentFetcher interface {
	FetchContents(ctx context.Context) ([]types.ContentEntry, error)
}

// ImageExtractor は、1つの画像タスクを処理する機能です。*extract.Extractor が満たします。
type ImageExtractor interface {
	Extract(ctx context.Context, task types.ImageTask) types.ExtractionResult
}

// Runner は、取得 → 抽出対象の選別 → OCR → 集計 の処理パイプラインを逐次実行します。
type Runner struct {
	fetcher    ContentFetcher
	extractor  ImageExtractor
	outputPath string
	out        io.Writer
	logger     *zap.Logger
}

// NewRunner は Runner を初期化します。out はコンソール出力先 (nil の場合は標準出力) です。
func NewRunner(fetcher ContentFetcher, extractor ImageExtractor, outputPath string, out io.Writer, logger *zap.Logger) (*Runner, error) {
	if fetcher == nil || extractor == nil {
		return nil, fmt.Errorf("pipeline.NewRunner: fetcher と extractor は必須です")
	}
	if outputPath == "" {
		return nil, fmt.Errorf("pipeline.NewRunner: 出力パスが空です")
	}
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		fetcher:    fetcher,
		extractor:  extractor,
		outputPath: outputPath,
		out:        out,
		logger:     logger,
	}, nil
}

// New は、設定値から実際の依存関係 (HTTPクライアント、チャンネルクライアント、Extractor) を組み立てます。
// OCRエンジンは呼び出し元から注入します。
func New(cfg *config.Config, engine ocr.Engine, out io.Writer, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. チャンネル取得用のHTTPクライアント
	channelHTTP := httpclient.New(
		httpclient.WithUserAgent(cfg.Channel.UserAgent),
		httpclient.WithMaxBodySize(cfg.Channel.MaxBodyBytes),
	)
	fetcher, err := arena.NewClient(channelHTTP, cfg.Channel.Endpoint, logger)
	if err != nil {
		return nil, fmt.Errorf("チャンネルクライアントの初期化エラー: %w", err)
	}

	// 2. 画像ダウンロード用のHTTPクライアントと Extractor
	imageHTTP := httpclient.New(
		httpclient.WithUserAgent(cfg.Channel.UserAgent),
		httpclient.WithMaxBodySize(cfg.OCR.MaxImageBytes),
	)
	extractor, err := extract.NewExtractor(imageHTTP, engine,
		extract.WithMinImageBytes(cfg.OCR.MinImageBytes),
		extract.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	return NewRunner(fetcher, extractor, cfg.Output.Path, out, logger)
}

// Run はパイプラインを1回実行し、蓄積された結果を返します。
// チャンネルの取得に失敗した場合は、出力ファイルを書き込まずにエラーを返します。
// 個々の画像の失敗は結果として記録され、処理は継続されます。
func (r *Runner) Run(ctx context.Context) (*report.Reporter, error) {
	// 1. チャンネルの取得 (失敗は致命的)
	entries, err := r.fetcher.FetchContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("チャンネルデータの取得エラー: %w", err)
	}

	// 2. 画像エントリの選別
	tasks := filter.Select(entries)
	r.logger.Info("画像エントリを選別しました",
		zap.Int("entries", len(entries)),
		zap.Int("images", len(tasks)),
	)

	// 3. 1件ずつ逐次処理し、到着順に集計
	rep := report.NewReporter(r.out, len(tasks))
	for _, task := range tasks {
		rep.Add(r.extractor.Extract(ctx, task))
	}
	rep.Summary()

	// 4. 結果ファイルへの一括書き込み
	if err := rep.WriteJSON(r.outputPath); err != nil {
		return rep, err
	}
	succeeded, failed := rep.Counts()
	r.logger.Info("結果を保存しました",
		zap.String("path", r.outputPath),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)
	return rep, nil
}
