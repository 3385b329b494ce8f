package filter

import (
	"fmt"
	"strings"

	"github.com/shouni/arena-tracklist-ocr/pkg/types"
)

// ImageKind は、画像エントリを示す種別タグです。大文字小文字は区別しません。
const ImageKind = "Image"

// ResolutionPriority は、URL選択に使用する解像度名の優先順位です (高解像度が先)。
// 未知の解像度名は、それが唯一のバリアントである場合にのみ使用されます。
var ResolutionPriority = []string{"original", "large", "display", "square", "thumb"}

// Select は、エントリ列から画像タスクを入力順のまま抽出します。
// URLを解決できないエントリは、エラーにせず読み飛ばします。
func Select(entries []types.ContentEntry) []types.ImageTask {
	tasks := make([]types.ImageTask, 0, len(entries))
	for i, entry := range entries {
		if task, ok := Resolve(i, entry); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// Resolve は、1件のエントリを0件または1件の ImageTask に変換します。
// index はチャンネル内での位置 (0始まり) です。
func Resolve(index int, entry types.ContentEntry) (types.ImageTask, bool) {
	if !strings.EqualFold(entry.KindTag(), ImageKind) {
		return types.ImageTask{}, false
	}

	url, ok := resolveURL(entry.Image)
	if !ok {
		return types.ImageTask{}, false
	}

	return types.ImageTask{
		Identifier: identifier(index, entry),
		Index:      index,
		URL:        url,
	}, true
}

// resolveURL は、優先リストの順に最初の空でないURLを返します。
func resolveURL(reps types.ImageRepresentations) (string, bool) {
	for _, name := range ResolutionPriority {
		if v, ok := reps[name]; ok && strings.TrimSpace(v.URL) != "" {
			return v.URL, true
		}
	}

	// 優先リストに無い解像度名は、唯一のバリアントである場合のみ採用する
	if len(reps) == 1 {
		for _, v := range reps {
			if strings.TrimSpace(v.URL) != "" {
				return v.URL, true
			}
		}
	}
	return "", false
}

// identifier は、タイトル、生成タイトル、"Image N" の順でエントリの識別子を決定します。
func identifier(index int, entry types.ContentEntry) string {
	if title := strings.TrimSpace(entry.Title); title != "" {
		return title
	}
	if title := strings.TrimSpace(entry.GeneratedTitle); title != "" {
		return title
	}
	return fmt.Sprintf("Image %d", index+1)
}
