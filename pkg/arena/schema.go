package arena

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const contentsSchemaURL = "contents.schema.json"

// contentsSchema は、チャンネルレスポンスの最小限の形状を定義します。
// 各要素は検証せず、トップレベルの contents が配列であることだけを要求します。
// 要素単位の不正は FetchContents 側でスキップされます。
var contentsSchema = map[string]any{
	"type":     "object",
	"required": []string{"contents"},
	"properties": map[string]any{
		"contents": map[string]any{"type": "array"},
	},
}

func compileContentsSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(contentsSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(contentsSchemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(contentsSchemaURL)
}

// validateShape は、body がJSONとして解析でき、スキーマを満たすことを検証します。
func validateShape(schema *jsonschema.Schema, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return &MalformedResponseError{Reason: "JSONとして解析できません", Cause: err}
	}
	if err := schema.Validate(v); err != nil {
		return &MalformedResponseError{Reason: shapeFailureReason(v), Cause: err}
	}
	return nil
}

// shapeFailureReason は、スキーマ検証に失敗した値について、何が不足しているかを返します。
func shapeFailureReason(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return "トップレベルがオブジェクトではありません"
	}
	contents, ok := obj["contents"]
	if !ok {
		return "contents フィールドがありません"
	}
	if contents == nil {
		return "contents が null です"
	}
	return "contents が配列ではありません"
}
