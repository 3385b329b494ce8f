package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/shouni/arena-tracklist-ocr/pkg/ocr"
	"github.com/shouni/arena-tracklist-ocr/pkg/types"
)

const (
	// DefaultMinImageBytes 未満のダウンロード結果は画像とみなしません。
	DefaultMinImageBytes = 100

	tempFilePattern = "arena-ocr-*.img"
)

// ErrNoText は、OCRは成功したが認識されたテキストが空であったことを示します。
var ErrNoText = errors.New("テキストが認識されませんでした")

// Extractor は、Downloader と OCR エンジンを使って1画像ずつテキスト抽出を行います。
type Extractor struct {
	downloader    Downloader
	engine        ocr.Engine
	preprocess    PreprocessFunc
	minImageBytes int64
	tempDir       string
	logger        *zap.Logger
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithPreprocess は、OCR前に適用する画像の前処理を設定します。nil で無効化します。
func WithPreprocess(fn PreprocessFunc) Option {
	return func(e *Extractor) { e.preprocess = fn }
}

// WithMinImageBytes は、画像として受け付ける最小バイト数を設定します。
func WithMinImageBytes(n int64) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.minImageBytes = n
		}
	}
}

// WithTempDir は一時ファイルを作成するディレクトリを設定します。空の場合は os.TempDir() です。
func WithTempDir(dir string) Option {
	return func(e *Extractor) { e.tempDir = dir }
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(downloader Downloader, engine ocr.Engine, options ...Option) (*Extractor, error) {
	if downloader == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Downloader cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Engine cannot be nil")
	}
	e := &Extractor{
		downloader:    downloader,
		engine:        engine,
		preprocess:    ocr.PreprocessFile,
		minImageBytes: DefaultMinImageBytes,
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// Extract は1つの ImageTask を処理し、結果を返します。
// ダウンロードやOCRの失敗はエラーとして返さず、結果の Err に記録します。
func (e *Extractor) Extract(ctx context.Context, task types.ImageTask) types.ExtractionResult {
	result := types.ExtractionResult{
		Identifier: task.Identifier,
		Index:      task.Index,
		URL:        task.URL,
	}

	text, err := e.extractText(ctx, task.URL)
	if err != nil {
		e.logger.Warn("画像の処理に失敗しました",
			zap.String("identifier", task.Identifier),
			zap.String("url", task.URL),
			zap.Error(err),
		)
		result.Err = err
		return result
	}

	e.logger.Debug("OCRに成功しました",
		zap.String("identifier", task.Identifier),
		zap.Int("chars", len(text)),
	)
	result.Text = text
	return result
}

// extractText は、一時ファイルへのダウンロード、前処理、OCRを順に行います。
// 一時ファイルはどの経路で終了しても削除されます。
func (e *Extractor) extractText(ctx context.Context, url string) (string, error) {
	// 1. スコープ付き一時ファイルの確保
	f, err := os.CreateTemp(e.tempDir, tempFilePattern)
	if err != nil {
		return "", &ItemDownloadError{URL: url, Cause: fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)}
	}
	path := f.Name()
	defer e.removeTemp(path)

	// 2. ダウンロード
	e.logger.Debug("画像をダウンロードします", zap.String("url", url), zap.String("temp", path))
	n, dlErr := e.downloader.Download(ctx, url, f)
	closeErr := f.Close()
	if dlErr != nil {
		return "", &ItemDownloadError{URL: url, Cause: dlErr}
	}
	if closeErr != nil {
		return "", &ItemDownloadError{URL: url, Cause: fmt.Errorf("一時ファイルのクローズに失敗しました: %w", closeErr)}
	}
	if n < e.minImageBytes {
		return "", &ItemDownloadError{URL: url, Cause: fmt.Errorf("ダウンロードしたファイルが小さすぎます (%dバイト)", n)}
	}

	// 3. 前処理 (失敗しても元のバイト列のままOCRへ渡す)
	if e.preprocess != nil {
		format, err := e.preprocess(path)
		if err != nil {
			e.logger.Debug("前処理をスキップしました", zap.String("url", url), zap.Error(err))
		} else {
			e.logger.Debug("前処理が完了しました", zap.String("url", url), zap.String("format", format))
		}
	}

	// 4. OCR
	raw, err := e.engine.Recognize(ctx, path)
	if err != nil {
		return "", &ItemOCRError{URL: url, Cause: err}
	}
	text := ocr.Normalize(raw)
	if text == "" {
		return "", &ItemOCRError{URL: url, Cause: ErrNoText}
	}
	return text, nil
}

func (e *Extractor) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn("一時ファイルの削除に失敗しました", zap.String("path", path), zap.Error(err))
	}
}
