package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shouni/arena-tracklist-ocr/pkg/types"
)

// Record は、出力JSONファイルの1要素です。
// 成功時は text、失敗時は error のいずれか一方を持ちます。
type Record struct {
	Identifier string `json:"identifier"`
	Index      int    `json:"index"`
	URL        string `json:"url"`
	Text       string `json:"text,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewRecord は、ExtractionResult を出力用の Record に変換します。
func NewRecord(res types.ExtractionResult) Record {
	rec := Record{
		Identifier: res.Identifier,
		Index:      res.Index,
		URL:        res.URL,
	}
	if res.Failed() {
		rec.Error = res.Err.Error()
	} else {
		rec.Text = res.Text
	}
	return rec
}

// Reporter は、抽出結果を処理順に蓄積し、到着ごとにコンソールへ出力します。
// 単一のゴルーチンからのみ使用されることを前提とします。
type Reporter struct {
	out     io.Writer
	total   int
	results []types.ExtractionResult
}

// NewReporter は Reporter を初期化します。total は進捗表示用の予定件数です。
func NewReporter(out io.Writer, total int) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{
		out:     out,
		total:   total,
		results: make([]types.ExtractionResult, 0, total),
	}
}

// Add は結果を追加し、直ちに人間向けの表示を出力します。
func (r *Reporter) Add(res types.ExtractionResult) {
	r.results = append(r.results, res)
	pos := len(r.results)

	if res.Failed() {
		fmt.Fprintf(r.out, "❌ [%d/%d] %s\n", pos, r.total, res.Identifier)
		fmt.Fprintf(r.out, "     URL: %s\n", res.URL)
		fmt.Fprintf(r.out, "     エラー: %v\n", res.Err)
		return
	}

	fmt.Fprintf(r.out, "✅ [%d/%d] %s\n", pos, r.total, res.Identifier)
	fmt.Fprintf(r.out, "     URL: %s\n", res.URL)
	fmt.Fprintln(r.out, "--- 抽出されたテキスト ---")
	fmt.Fprintln(r.out, res.Text)
	fmt.Fprintln(r.out, strings.Repeat("-", 26))
}

// Results は、蓄積された ResultSet を処理順に返します。
func (r *Reporter) Results() []types.ExtractionResult {
	return r.results
}

// Counts は成功件数と失敗件数を返します。
func (r *Reporter) Counts() (succeeded, failed int) {
	for _, res := range r.results {
		if res.Failed() {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// Summary は処理件数の集計を出力します。
func (r *Reporter) Summary() {
	succeeded, failed := r.Counts()
	fmt.Fprintln(r.out, "-------------------------------")
	fmt.Fprintf(r.out, "完了: 処理 %d 件 (成功 %d 件, 失敗 %d 件)\n", len(r.results), succeeded, failed)
}

// Records は、ResultSet を出力用の Record 列に変換します。空の場合も nil ではなく空スライスを返します。
func (r *Reporter) Records() []Record {
	records := make([]Record, 0, len(r.results))
	for _, res := range r.results {
		records = append(records, NewRecord(res))
	}
	return records
}

// WriteJSON は、ResultSet 全体をJSON配列として path に書き込みます。既存のファイルは上書きされます。
func (r *Reporter) WriteJSON(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Records()); err != nil {
		return fmt.Errorf("結果のJSONエンコードに失敗しました: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("結果ファイル (%s) の書き込みに失敗しました: %w", path, err)
	}
	return nil
}
