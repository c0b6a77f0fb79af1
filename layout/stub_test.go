package layout

import (
	"strings"
	"unicode/utf8"
)

// stubTypesetter 是测试用的等宽排版：每个字符宽 fontSize*0.5，按空格贪心折行。
// 避免引入 renderer 造成循环依赖。
type stubTypesetter struct{}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error) {
	charW := fontSize * 0.5
	maxChars := int(width / charW)
	if maxChars < 1 {
		maxChars = 1
	}
	var out []TextLine
	for _, para := range strings.Split(content, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, TextLine{Content: "", Height: fontSize})
			continue
		}
		cur := ""
		for _, w := range words {
			cand := w
			if cur != "" {
				cand = cur + " " + w
			}
			if utf8.RuneCountInString(cand) > maxChars && cur != "" {
				out = append(out, TextLine{Content: cur, Width: float64(utf8.RuneCountInString(cur)) * charW, Height: fontSize})
				cur = w
				continue
			}
			cur = cand
		}
		out = append(out, TextLine{Content: cur, Width: float64(utf8.RuneCountInString(cur)) * charW, Height: fontSize})
	}
	return out, nil
}

func newTestMetrics() *TextMetrics {
	return NewTextMetrics(&stubTypesetter{}, DefaultResources())
}

var testA4 = PageSize{Name: "A4", Width: 210, Height: 297}
