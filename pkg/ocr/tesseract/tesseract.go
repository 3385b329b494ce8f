package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

const (
	DefaultLanguage = "eng"
	// DefaultPageSegMode は、画像を単一の均一なテキストブロックとして扱います。
	DefaultPageSegMode = int(gosseract.PSM_SINGLE_BLOCK)
)

// Engine は、gosseract クライアントを使用して ocr.Engine を実装します。
type Engine struct {
	language      string
	pageSegMode   int
	clientFactory func() *gosseract.Client
}

// New は Tesseract を使用するOCRエンジンを生成します。
// language が空の場合は英語、pageSegMode が0以下の場合は DefaultPageSegMode を使用します。
func New(language string, pageSegMode int) *Engine {
	if language == "" {
		language = DefaultLanguage
	}
	if pageSegMode <= 0 {
		pageSegMode = DefaultPageSegMode
	}
	return &Engine{
		language:      language,
		pageSegMode:   pageSegMode,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize は、imagePath の画像からテキストを認識します。
// 呼び出しごとにクライアントを生成し、結果にかかわらず必ず解放します。
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(e.pageSegMode)); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
