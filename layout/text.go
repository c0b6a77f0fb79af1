package layout

import (
	"fmt"
	"math"
	"strings"
)

// TextStyle 描述一次排版使用的字体、字号（mm）、颜色与对齐方式。
type TextStyle struct {
	Font     string
	FontSize float64
	Color    Color
	Align    string
}

// TextMetrics 计算文本在给定宽度内折行后的高度。
// 测量与 Compose 共用同一组折行结果，渲染器直接绘制这些行，保证量出来的高度就是画出来的高度。
type TextMetrics struct {
	ts  Typesetter
	res ResourceSet
}

// NewTextMetrics 使用排版后端与字体资源创建 TextMetrics。
func NewTextMetrics(ts Typesetter, res ResourceSet) *TextMetrics {
	return &TextMetrics{ts: ts, res: res}
}

// Measure 使用给定排版后端测量 text 的折行高度，不依赖资源表。
func Measure(ts Typesetter, text string, maxWidth float64, font FontResource, fontSize float64) (float64, error) {
	lineHeight := LineHeight(fontSize)
	lines, err := layoutLines(text, maxWidth, font, fontSize, lineHeight, ts, "anywhere")
	if err != nil {
		return 0, err
	}
	fillLeading(lines, fontSize, lineHeight)
	return linesHeight(lines), nil
}

// Measure 返回 text 在 maxWidth 内折行后的总高度（mm）。空文本按一行计算。
func (m *TextMetrics) Measure(text string, maxWidth float64, style TextStyle) (float64, error) {
	tb, err := m.Compose(text, 0, 0, maxWidth, style)
	if err != nil {
		return 0, err
	}
	return tb.Height, nil
}

// Compose 排版文本并返回定位在 (x, y) 的 TextBox。
func (m *TextMetrics) Compose(text string, x, y, width float64, style TextStyle) (TextBox, error) {
	fontName := style.Font
	if fontName == "" {
		fontName = FontBody
	}
	fontSize := style.FontSize
	if fontSize <= 0 { // default 12pt in mm
		fontSize = Pt(12)
	}
	lineHeight := LineHeight(fontSize)

	fontRes, err := resolveFontResource(fontName, m.res)
	if err != nil {
		return TextBox{}, err
	}
	lines, err := layoutLines(text, width, fontRes, fontSize, lineHeight, m.ts, "anywhere")
	if err != nil {
		return TextBox{}, fmt.Errorf("排版文本失败: %w", err)
	}

	fillLeading(lines, fontSize, lineHeight)

	return TextBox{
		Content:    text,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: lineHeight,
		Font:       fontName,
		FontSize:   fontSize,
		Color:      style.Color,
		Lines:      lines,
		Height:     linesHeight(lines),
		Align:      normalizeAlign(style.Align),
		Wrap:       "anywhere",
	}, nil
}

// fillLeading 回填缺省的行高与行距，首行不留行距。
func fillLeading(lines []TextLine, fontSize, lineHeight float64) {
	defaultLeading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = defaultLeading
		}
	}
}

func linesHeight(lines []TextLine) float64 {
	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	return total
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return "center"
	case "right", "end":
		return "right"
	default:
		return ""
	}
}

func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if font, ok := res.Fonts[FontBody]; ok {
		return font, nil
	}
	for _, font := range res.Fonts {
		return font, nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

func layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, ts Typesetter, wrap string) ([]TextLine, error) {
	if ts == nil {
		parts := strings.Split(content, "\n")
		out := make([]TextLine, 0, len(parts))
		leading := math.Max(lineHeight-fontSize, 0)
		for _, l := range parts {
			out = append(out, TextLine{Content: l, Width: width, Height: fontSize, GapBefore: leading})
		}
		out[0].GapBefore = 0
		return out, nil
	}
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: fontSize}}
	}
	lines[0].GapBefore = 0
	return lines, nil
}
