package layout

import (
	"context"
	"math"
	"strings"
	"testing"
)

// TestTextBoxTotalHeightInvariant 断言：TextBox.Height == Σ(line.Height + line.GapBefore)，且与 Measure 一致。
func TestTextBoxTotalHeightInvariant(t *testing.T) {
	m := newTestMetrics()
	text := strings.Repeat("alpha beta gamma ", 20)
	style := TextStyle{FontSize: Pt(10)}
	tb, err := m.Compose(text, 0, 0, 60, style)
	if err != nil {
		t.Fatal(err)
	}
	sum := 0.0
	for _, ln := range tb.Lines {
		sum += ln.Height + ln.GapBefore
	}
	if math.Abs(sum-tb.Height) > 1e-9 {
		t.Fatalf("高度不一致: sum=%g height=%g", sum, tb.Height)
	}
	h, err := m.Measure(text, 60, style)
	if err != nil {
		t.Fatal(err)
	}
	if h != tb.Height {
		t.Fatalf("Measure 与 Compose 不一致: %g vs %g", h, tb.Height)
	}
	font := DefaultResources().Fonts[FontBody]
	h2, err := Measure(&stubTypesetter{}, text, 60, font, Pt(10))
	if err != nil {
		t.Fatal(err)
	}
	if h2 != h {
		t.Fatalf("包级 Measure 与 TextMetrics.Measure 不一致: %g vs %g", h2, h)
	}
}

func TestMeasureEmptyIsOneLine(t *testing.T) {
	m := newTestMetrics()
	h, err := m.Measure("", 50, TextStyle{FontSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	if h != 4 {
		t.Fatalf("空文本应按一行计算, got %g", h)
	}
}

func TestRowHeightMonotonicity(t *testing.T) {
	cl := NewCellLayout(newTestMetrics())
	long := strings.Repeat("word ", 60)
	cases := [][]Cell{
		{{Text: "a", Width: 40}, {Text: "b", Width: 40}},
		{{Text: long, Width: 40, PadX: 2, PadY: 3}, {Text: "short", Width: 60, PadY: 3}},
		{{Text: "", Width: 30, MinHeight: 12}, {Text: long + long, Width: 100, PadY: 1, Bold: true}},
	}
	m := newTestMetrics()
	for i, cells := range cases {
		row, err := cl.LayoutRow(cells)
		if err != nil {
			t.Fatal(err)
		}
		for j, c := range cells {
			minH := c.MinHeight
			if minH == 0 {
				minH = DefaultCellMinHeight
			}
			text := c.Text
			if text == "" {
				text = "-"
			}
			font := FontBody
			if c.Bold {
				font = FontBold
			}
			measured, err := m.Measure(text, c.Width-2*c.PadX, TextStyle{Font: font, FontSize: c.FontSize})
			if err != nil {
				t.Fatal(err)
			}
			if row.Height < minH {
				t.Fatalf("case %d: 行高 %g 小于最小高度 %g", i, row.Height, minH)
			}
			if row.Height+1e-9 < measured+2*c.PadY {
				t.Fatalf("case %d cell %d: 行高 %g 小于内容高度 %g", i, j, row.Height, measured+2*c.PadY)
			}
			if row.CellHeights[j] > row.Height {
				t.Fatalf("case %d: 单元格高度超过行高", i)
			}
		}
	}
}

func TestRowPlaceSharesHeight(t *testing.T) {
	cl := NewCellLayout(newTestMetrics())
	row, err := cl.LayoutRow([]Cell{
		{Text: "Name", Width: 30},
		{Text: strings.Repeat("long value ", 30), Width: 50},
	})
	if err != nil {
		t.Fatal(err)
	}
	pf := NewPageFlow(context.Background(), testA4, UniformMargin(10))
	row.Place(pf, 10, 10)
	p := pf.Pages()[0]
	if len(p.Rects) != 2 || len(p.Texts) != 2 {
		t.Fatalf("期望 2 个矩形与 2 个文本, got %d/%d", len(p.Rects), len(p.Texts))
	}
	for _, r := range p.Rects {
		if r.Height != row.Height {
			t.Fatalf("单元格高度应一致: %g vs %g", r.Height, row.Height)
		}
	}
	if p.Rects[1].X != 40 || p.Texts[0].Content != "Name" {
		t.Fatalf("单元格位置错误: %+v", p.Rects[1])
	}
	if p.Texts[0].Y != 10 {
		t.Fatalf("文本未按行偏移: %g", p.Texts[0].Y)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#0f8fb2")
	if err != nil || c != (Color{R: 15, G: 143, B: 178}) {
		t.Fatalf("解析错误: %+v %v", c, err)
	}
	if c, _ := ParseColor("#fff"); c != (Color{255, 255, 255}) {
		t.Fatalf("短格式解析错误: %+v", c)
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("非法颜色应报错")
	}
}
