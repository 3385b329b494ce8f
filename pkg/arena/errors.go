package arena

import "fmt"

// FetchError は、チャンネルAPIへのリクエストがネットワークエラーまたは2xx以外で失敗したことを示します。
// 実行全体にとって致命的です。
type FetchError struct {
	URL        string
	StatusCode int // ネットワークエラーの場合は 0
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("チャンネルの取得に失敗しました (URL: %s, ステータス: %d): %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("チャンネルの取得に失敗しました (URL: %s): %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// MalformedResponseError は、レスポンスが期待する形状 (トップレベルの contents 配列) を持たないことを示します。
type MalformedResponseError struct {
	Reason string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("チャンネルのレスポンスが不正です: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("チャンネルのレスポンスが不正です: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }
