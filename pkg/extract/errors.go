package extract

import "fmt"

// ItemDownloadError は、1つの画像の取得に失敗したことを示します。バッチは継続されます。
type ItemDownloadError struct {
	URL   string
	Cause error
}

func (e *ItemDownloadError) Error() string {
	return fmt.Sprintf("画像のダウンロードに失敗しました (URL: %s): %v", e.URL, e.Cause)
}

func (e *ItemDownloadError) Unwrap() error { return e.Cause }

// ItemOCRError は、1つの画像のOCRが失敗したか、テキストが得られなかったことを示します。
type ItemOCRError struct {
	URL   string
	Cause error
}

func (e *ItemOCRError) Error() string {
	return fmt.Sprintf("OCRに失敗しました (URL: %s): %v", e.URL, e.Cause)
}

func (e *ItemOCRError) Unwrap() error { return e.Cause }
