package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const (
	// HTTPクライアント関連の定数
	DefaultMaxBodySize = int64(10 * 1024 * 1024) // 10MB: レスポンスボディの最大読み込みサイズ
	DefaultUserAgent   = "Arena Tracklist Extractor 1.0"

	maxErrorBodySize = 1024 // StatusError に保持するボディの最大長
)

// ErrBodyTooLarge は、レスポンスボディが設定された最大サイズを超えたことを示します。
var ErrBodyTooLarge = errors.New("レスポンスボディが最大サイズを超えました")

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースを定義します。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError は、2xx 以外のステータスコードを示すカスタムエラー型です。
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("HTTPステータスコードエラー: %d (URL: %s), ボディなし", e.StatusCode, e.URL)
	}
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxErrorBodySize {
		body = body[:maxErrorBodySize] + "..."
	}
	return fmt.Sprintf("HTTPステータスコードエラー: %d (URL: %s), ボディ: %s", e.StatusCode, e.URL, body)
}

// StatusCodeOf は、エラーチェーンに StatusError が含まれていればそのステータスコードを返します。
func StatusCodeOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// Client は、単発のHTTP GETとステータス判定を管理します。リトライは行いません。
type Client struct {
	httpClient  Doer
	userAgent   string
	maxBodySize int64
}

// Option は Client の設定を行うための関数型です。
type Option func(*Client)

// WithHTTPClient はカスタムの Doer を設定します。
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithUserAgent は送信する User-Agent を設定します。
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize はレスポンスボディの最大読み込みサイズを設定します。
func WithMaxBodySize(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxBodySize = limit
		}
	}
}

// New は、新しい Client を生成します。
// タイムアウトはトランスポートのデフォルトに従います。
func New(options ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// FetchBytes は URL からコンテンツを取得し、最大サイズに制限した生のバイト配列として返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 上限+1バイトまで読み、切り詰めではなく超過として検出する
	body, err := httpkit.HandleLimitedResponse(resp, c.maxBodySize+1)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w (%dバイト, URL: %s)", ErrBodyTooLarge, c.maxBodySize, url)
	}
	return body, nil
}

// Download は URL のレスポンスボディを w に書き込み、書き込んだバイト数を返します。
// ボディ全体をメモリに保持せず、最大サイズを超えた時点でエラーを返します。
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.get(ctx, url, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return n, fmt.Errorf("レスポンスボディの書き込みに失敗しました: %w", err)
	}
	if n > c.maxBodySize {
		return n, fmt.Errorf("%w (%dバイト, URL: %s)", ErrBodyTooLarge, c.maxBodySize, url)
	}
	return n, nil
}

// get は実際の一度のHTTP GETリクエストを実行し、2xx のレスポンスのみを返します。
// 呼び出し元が resp.Body.Close() を実行する必要があります。
func (c *Client) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}

	if err := checkResponse(url, resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// checkResponse は2xx以外のステータスコードを StatusError に変換します。
// この関数はレスポンスボディを読み込みますが、閉じる責務は持ちません。
func checkResponse(url string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize+1))
	return &StatusError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}
