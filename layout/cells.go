package layout

import "math"

// DefaultCellMinHeight 是单元格的默认最小高度（22pt）。
var DefaultCellMinHeight = Pt(22)

// Cell 是表格或明细网格中的一个单元格，尺寸单位均为 mm。
type Cell struct {
	Text      string
	Width     float64
	MinHeight float64 // 0 表示使用 DefaultCellMinHeight
	PadX      float64
	PadY      float64
	Bold      bool
	FontSize  float64
	Align     string
	Fill      *Color
	Stroke    Color
	TextColor Color
}

// RowLayout 是一行单元格的排版结果。Boxes 的坐标相对行左上角。
type RowLayout struct {
	Height      float64
	CellHeights []float64
	Boxes       []TextBox
	cells       []Cell
}

// CellLayout 计算一行单元格的高度：行高取所有单元格 max(最小高度, 内容高度+上下内边距)。
type CellLayout struct {
	metrics *TextMetrics
}

func NewCellLayout(metrics *TextMetrics) *CellLayout {
	return &CellLayout{metrics: metrics}
}

// LayoutRow 排版一行单元格，所有单元格共享同一行高。
func (cl *CellLayout) LayoutRow(cells []Cell) (RowLayout, error) {
	row := RowLayout{
		CellHeights: make([]float64, len(cells)),
		Boxes:       make([]TextBox, len(cells)),
		cells:       cells,
	}
	x := 0.0
	for i, c := range cells {
		text := c.Text
		if text == "" {
			text = "-"
		}
		font := FontBody
		if c.Bold {
			font = FontBold
		}
		innerW := math.Max(c.Width-2*c.PadX, 1)
		tb, err := cl.metrics.Compose(text, x+c.PadX, c.PadY, innerW, TextStyle{
			Font:     font,
			FontSize: c.FontSize,
			Color:    c.TextColor,
			Align:    c.Align,
		})
		if err != nil {
			return RowLayout{}, err
		}
		minH := c.MinHeight
		if minH <= 0 {
			minH = DefaultCellMinHeight
		}
		h := math.Max(minH, tb.Height+2*c.PadY)
		row.CellHeights[i] = h
		row.Boxes[i] = tb
		if h > row.Height {
			row.Height = h
		}
		x += c.Width
	}
	return row, nil
}

// Place 把一行绘制到 flow 的当前页，(x, y) 为行左上角。
func (r RowLayout) Place(pf *PageFlow, x, y float64) {
	cx := x
	for i, c := range r.cells {
		pf.DrawRect(Rect{
			X:           cx,
			Y:           y,
			Width:       c.Width,
			Height:      r.Height,
			StrokeColor: c.Stroke,
			StrokeWidth: cellStrokeWidth,
			FillColor:   c.Fill,
		})
		tb := r.Boxes[i]
		tb.X += x
		tb.Y += y
		pf.DrawText(tb)
		cx += c.Width
	}
}

// 0.6pt
var cellStrokeWidth = Pt(0.6)
