package types

import (
	"bytes"
	"encoding/json"
)

// ----------------------------------------------------------------------
// チャンネルAPIのレスポンスモデル
// ----------------------------------------------------------------------

// ImageVersion は、画像の1つの解像度バリアント（original, large など）を表します。
type ImageVersion struct {
	URL string `json:"url"`
}

// ImageRepresentations は、解像度名からバリアントへのマッピングです。
// 宣言順には依存せず、選択順序は filter パッケージの優先リストで決定されます。
type ImageRepresentations map[string]ImageVersion

// UnmarshalJSON は、image オブジェクトのうち {"url": ...} 形式のフィールドだけを取り込みます。
// filename や content_type などの文字列フィールドは無視します。
// image がオブジェクトでない場合 (null, 文字列, 配列など) はエラーにせず nil とします。
func (r *ImageRepresentations) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*r = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		*r = nil
		return nil
	}

	reps := make(ImageRepresentations, len(raw))
	for name, msg := range raw {
		var v ImageVersion
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		if v.URL == "" {
			continue
		}
		reps[name] = v
	}
	*r = reps
	return nil
}

// ContentEntry は、チャンネルAPIから取得した1件のコンテンツです。
// 取得後は不変として扱います。解析できなかった要素はゼロ値のまま位置だけを保持します。
type ContentEntry struct {
	ID             int64                `json:"id"`
	Kind           string               `json:"kind"`
	Class          string               `json:"class"`
	Title          string               `json:"title"`
	GeneratedTitle string               `json:"generated_title"`
	Image          ImageRepresentations `json:"image"`
}

// KindTag は、エントリの種別タグを返します。kind が無い場合は class を使用します。
func (e ContentEntry) KindTag() string {
	if e.Kind != "" {
		return e.Kind
	}
	return e.Class
}

// ----------------------------------------------------------------------
// パイプラインの中間・出力モデル
// ----------------------------------------------------------------------

// ImageTask は、1つのエントリから導出されたOCR対象です。URLは常に1つだけです。
type ImageTask struct {
	Identifier string // タイトル、または "Image N"
	Index      int    // チャンネル内での位置 (0始まり)
	URL        string // 解決済みのダウンロードURL
}

// ExtractionResult は、1つの ImageTask を処理した結果、またはその処理中に発生したエラーを保持します。
// Err が設定されている場合、その項目は失敗として扱われます。
type ExtractionResult struct {
	Identifier string
	Index      int
	URL        string
	Text       string // 認識されたテキスト
	Err        error  // 処理中に発生したエラー
}

// Failed は、この結果がエラーを表すかどうかを返します。
func (r ExtractionResult) Failed() bool {
	return r.Err != nil
}
