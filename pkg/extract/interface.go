package extract

import (
	"context"
	"io"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Downloader は、URLのコンテンツを w へ書き込む機能のインターフェースを定義します。
// *httpclient.Client がこれを満たします。
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// PreprocessFunc は、保存済みの画像ファイルをOCR向けにその場で加工する関数です。
type PreprocessFunc func(path string) (format string, err error)
