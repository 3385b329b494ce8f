package ocr

import (
	"regexp"
	"strings"

	textUtils "github.com/shouni/go-utils/text"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Normalize は、OCR出力の空白を整えます。
// 行構造はそのまま残し、各行の空白を詰め、3行以上の空行を1行の空行にまとめます。
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = textUtils.NormalizeText(lines[i])
	}
	s = strings.Join(lines, "\n")

	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
