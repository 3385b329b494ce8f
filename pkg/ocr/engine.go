package ocr

import (
	"context"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Engine は、画像ファイルからテキストを認識するOCRエンジンのインターフェースを定義します。
// Extractor はこの抽象に依存し、エンジンの導入・設定は外部の責務とします。
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// EngineFunc は、関数を Engine として扱うためのアダプターです。
type EngineFunc func(ctx context.Context, imagePath string) (string, error)

// Recognize は Engine インターフェースを満たします。
func (f EngineFunc) Recognize(ctx context.Context, imagePath string) (string, error) {
	return f(ctx, imagePath)
}
