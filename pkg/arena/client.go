package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/shouni/arena-tracklist-ocr/pkg/httpclient"
	"github.com/shouni/arena-tracklist-ocr/pkg/types"
)

// Fetcher は、URLから生のバイト配列を取得する機能のインターフェースを定義します。
// *httpclient.Client がこれを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Client は、固定されたチャンネルエンドポイントからコンテンツ一覧を取得します。
type Client struct {
	fetcher  Fetcher
	endpoint string
	schema   *jsonschema.Schema
	logger   *zap.Logger
}

// channelResponse は、レスポンスのうちパイプラインが必要とする部分だけを表します。
// 要素ごとに解析するため、contents は生のJSONのまま保持します。
type channelResponse struct {
	Contents []json.RawMessage `json:"contents"`
}

// NewClient は、新しい Client のインスタンスを生成します。
func NewClient(fetcher Fetcher, endpoint string, logger *zap.Logger) (*Client, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("arena.NewClient: Fetcher cannot be nil")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("arena.NewClient: endpoint cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileContentsSchema()
	if err != nil {
		return nil, fmt.Errorf("レスポンススキーマのコンパイルに失敗しました: %w", err)
	}
	return &Client{
		fetcher:  fetcher,
		endpoint: endpoint,
		schema:   schema,
		logger:   logger,
	}, nil
}

// Endpoint は取得先のURLを返します。
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchContents は、チャンネルのコンテンツ一覧をレスポンスの順序のまま返します。
// ページネーションは追跡せず、最初のページのみを対象とします。
func (c *Client) FetchContents(ctx context.Context) ([]types.ContentEntry, error) {
	c.logger.Info("チャンネルデータを取得します", zap.String("url", c.endpoint))

	// 1. 単発のGET (通信の責務)
	body, err := c.fetcher.FetchBytes(ctx, c.endpoint)
	if err != nil {
		status, _ := httpclient.StatusCodeOf(err)
		return nil, &FetchError{URL: c.endpoint, StatusCode: status, Cause: err}
	}

	// 2. 形状の検証
	if err := validateShape(c.schema, body); err != nil {
		return nil, err
	}

	// 3. 型付きエントリへの変換
	var resp channelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Reason: "contents を解析できません", Cause: err}
	}

	entries := make([]types.ContentEntry, len(resp.Contents))
	skipped := 0
	for i, raw := range resp.Contents {
		entry, err := decodeEntry(raw)
		if err != nil {
			// 位置を保つため、ゼロ値のエントリを残します (フィルタで除外されます)
			skipped++
			c.logger.Warn("解析できないエントリをスキップします",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		entries[i] = entry
	}

	c.logger.Info("チャンネルのコンテンツを取得しました",
		zap.Int("count", len(entries)),
		zap.Int("skipped", skipped),
	)
	return entries, nil
}

// decodeEntry は、contents の1要素を ContentEntry に変換します。
// オブジェクトでない要素や、フィールドの型が異なる要素はエラーになります。
func decodeEntry(raw json.RawMessage) (types.ContentEntry, error) {
	var entry types.ContentEntry
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entry, fmt.Errorf("エントリがオブジェクトではありません: %.32s", trimmed)
	}
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return types.ContentEntry{}, err
	}
	return entry, nil
}
