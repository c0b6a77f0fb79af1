package layout

import (
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// TruncationMarker 追加在被截断的正文之后。
const TruncationMarker = "\n\n[Content truncated for PDF layout]"

// DefaultParagraphLimit 是正文块的默认字符上限。
const DefaultParagraphLimit = 1400

var (
	bandHeight     = Pt(22)
	paraAllowance  = Pt(60)
	paraMinHeight  = Pt(34)
	paraPadX       = Pt(7)
	paraPadY       = Pt(6)
	paraGap        = Pt(10)
	paraSpacing    = Pt(4)
	tableRowHeight = Pt(24)
	sectionGap     = Pt(10)
)

// BandStyle 控制标题带的外观。
type BandStyle struct {
	Fill      Color
	Stroke    Color
	TextColor Color
	FontSize  float64
}

// DefaultBandStyle 是灰底深色字的分节标题带。
var DefaultBandStyle = BandStyle{
	Fill:      MustColor("#e5e7eb"),
	Stroke:    MustColor("#94a3b8"),
	TextColor: MustColor("#334155"),
	FontSize:  Pt(10.5),
}

var (
	headerFill   = MustColor("#e2e8f0")
	headerStroke = MustColor("#cbd5e1")
	headerText   = MustColor("#0f172a")
	rowStroke    = MustColor("#e5e7eb")
	bodyText     = MustColor("#1f2937")
	paraStroke   = MustColor("#cbd5e1")
)

// Column 是表格列定义，Width 为 mm。
type Column struct {
	Label string
	Width float64
}

// Table 描述一个带标题的网格表格。Rows 为空时绘制 Empty 作为唯一一行占位。
// Empty 的值少于列数时，最后一个值横跨剩余列。
type Table struct {
	Title     string
	Allowance float64 // 标题带之后至少预留的高度，0 表示表头加首行
	Columns   []Column
	Rows      [][]string
	Empty     []string
}

// SectionRenderer 在 PageFlow 上绘制标题带、正文块与表格。
type SectionRenderer struct {
	flow    *PageFlow
	metrics *TextMetrics
	cells   *CellLayout
	log     *zap.Logger

	// ParagraphLimit 为正文最大字符数（按 rune 计），<=0 表示不截断。
	ParagraphLimit int
}

// NewSectionRenderer 创建绘制器；log 为 nil 时不输出日志。
func NewSectionRenderer(flow *PageFlow, metrics *TextMetrics, log *zap.Logger) *SectionRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SectionRenderer{
		flow:           flow,
		metrics:        metrics,
		cells:          NewCellLayout(metrics),
		log:            log,
		ParagraphLimit: DefaultParagraphLimit,
	}
}

func (s *SectionRenderer) Flow() *PageFlow { return s.flow }

func (s *SectionRenderer) Cells() *CellLayout { return s.cells }

// Gap 插入节与节之间的留白。
func (s *SectionRenderer) Gap(h float64) { s.flow.Skip(h) }

// Band 绘制默认样式的标题带，先确保标题带加 allowance 的空间，避免标题孤悬页底。
func (s *SectionRenderer) Band(title string, allowance float64) error {
	return s.StyledBand(title, allowance, DefaultBandStyle)
}

// StyledBand 与 Band 相同，但使用指定样式。
func (s *SectionRenderer) StyledBand(title string, allowance float64, style BandStyle) error {
	y, err := s.flow.EnsureSpace(bandHeight + math.Max(allowance, 0))
	if err != nil {
		return err
	}
	width := s.flow.ContentWidth()
	x := s.flow.Left()
	s.flow.DrawRect(Rect{
		X: x, Y: y, Width: width, Height: bandHeight,
		StrokeColor: style.Stroke,
		StrokeWidth: cellStrokeWidth,
		FillColor:   style.Fill.Ptr(),
	})
	tb, err := s.metrics.Compose(title, x+Pt(6), y, width-Pt(12), TextStyle{
		Font:     FontBold,
		FontSize: style.FontSize,
		Color:    style.TextColor,
		Align:    "center",
	})
	if err != nil {
		return err
	}
	tb.Y = y + math.Max((bandHeight-tb.Height)/2, 0)
	s.flow.DrawText(tb)
	s.flow.Advance(bandHeight)
	return nil
}

// Row 绘制一行明细网格，行前先确保空间。
func (s *SectionRenderer) Row(cells []Cell) error {
	row, err := s.cells.LayoutRow(cells)
	if err != nil {
		return err
	}
	return s.placeRow(row)
}

// Grid 依次绘制多行明细网格。title 非空时先绘制标题带。
func (s *SectionRenderer) Grid(title string, rows [][]Cell) error {
	layouts := make([]RowLayout, 0, len(rows))
	for _, cells := range rows {
		row, err := s.cells.LayoutRow(cells)
		if err != nil {
			return err
		}
		layouts = append(layouts, row)
	}
	if title != "" {
		first := 0.0
		if len(layouts) > 0 {
			first = layouts[0].Height
		}
		if err := s.Band(title, first); err != nil {
			return err
		}
	}
	for _, row := range layouts {
		if err := s.placeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *SectionRenderer) placeRow(row RowLayout) error {
	y, err := s.flow.EnsureSpace(row.Height)
	if err != nil {
		return err
	}
	row.Place(s.flow, s.flow.Left(), y)
	s.flow.Advance(row.Height)
	return nil
}

// Paragraph 绘制标题带和一个正文框。body 为空时显示 "-"，超长时截断并记录日志。
func (s *SectionRenderer) Paragraph(title, body string) error {
	if strings.TrimSpace(body) == "" {
		body = "-"
	}
	text, cut := Truncate(body, s.ParagraphLimit)
	if cut {
		s.log.Warn("正文超过长度上限，已截断",
			zap.String("section", title),
			zap.Int("runes", len([]rune(body))),
			zap.Int("limit", s.ParagraphLimit))
	}

	x := s.flow.Left()
	width := s.flow.ContentWidth()
	tb, err := s.metrics.Compose(text, x+paraPadX, 0, width-2*paraPadX, TextStyle{
		Font:     FontBody,
		FontSize: Pt(9.5),
		Color:    bodyText,
	})
	if err != nil {
		return err
	}
	boxH := math.Max(paraMinHeight, tb.Height+2*paraPadY)

	// 能整页容纳时标题带与正文框一起换页，否则至少保证标题带后有最小预留
	allowance := paraAllowance - bandHeight
	if bandHeight+paraSpacing+boxH+paraGap <= s.pageRoom() {
		allowance = paraSpacing + boxH + paraGap
	}
	if err := s.Band(title, allowance); err != nil {
		return err
	}
	s.flow.Skip(paraSpacing)

	if boxH+paraGap <= s.pageRoom() {
		y, err := s.flow.EnsureSpace(boxH + paraGap)
		if err != nil {
			return err
		}
		s.drawParagraphBox(tb, x, y, width, boxH)
		s.flow.Advance(boxH + paraGap)
		return nil
	}
	return s.splitParagraph(tb, x, width)
}

// splitParagraph 在行边界处把超过整页高度的正文拆到多页。
func (s *SectionRenderer) splitParagraph(tb TextBox, x, width float64) error {
	lines := tb.Lines
	for len(lines) > 0 {
		y, err := s.flow.EnsureSpace(paraMinHeight + paraGap)
		if err != nil {
			return err
		}
		avail := s.flow.Bottom() - y - 2*paraPadY - paraGap
		n, h := takeLines(lines, avail)
		chunk := tb
		chunk.Lines = append([]TextLine(nil), lines[:n]...)
		chunk.Lines[0].GapBefore = 0
		chunk.Height = h
		chunk.Content = joinLines(chunk.Lines)
		boxH := math.Max(paraMinHeight, h+2*paraPadY)
		s.drawParagraphBox(chunk, x, y, width, boxH)
		s.flow.Advance(boxH + paraGap)
		lines = lines[n:]
	}
	return nil
}

func (s *SectionRenderer) drawParagraphBox(tb TextBox, x, y, width, boxH float64) {
	s.flow.DrawRect(Rect{
		X: x, Y: y, Width: width, Height: boxH,
		StrokeColor: paraStroke,
		StrokeWidth: cellStrokeWidth,
	})
	tb.Y = y + paraPadY
	s.flow.DrawText(tb)
}

// takeLines 返回能放进 avail 高度的行数（至少一行）及其总高度。
func takeLines(lines []TextLine, avail float64) (int, float64) {
	n, h := 0, 0.0
	for n < len(lines) {
		gap := lines[n].GapBefore
		if n == 0 {
			gap = 0
		}
		next := h + gap + lines[n].Height
		if n > 0 && next > avail {
			break
		}
		h = next
		n++
	}
	return n, h
}

func joinLines(lines []TextLine) string {
	parts := make([]string, len(lines))
	for i, ln := range lines {
		parts[i] = ln.Content
	}
	return strings.Join(parts, "\n")
}

func (s *SectionRenderer) pageRoom() float64 {
	return s.flow.Bottom() - s.flow.Top()
}

// Table 绘制标题带、表头与数据行。数据行换页时在新页重复表头。
func (s *SectionRenderer) Table(t Table) error {
	headerRow, err := s.cells.LayoutRow(headerCells(t.Columns))
	if err != nil {
		return err
	}

	rows := t.Rows
	sentinel := len(rows) == 0
	if sentinel {
		rows = [][]string{t.Empty}
	}
	layouts := make([]RowLayout, 0, len(rows))
	for _, values := range rows {
		var cells []Cell
		if sentinel {
			cells = s.spanCells(t.Columns, values)
		} else {
			cells = s.dataCells(t.Columns, values)
		}
		row, err := s.cells.LayoutRow(cells)
		if err != nil {
			return err
		}
		layouts = append(layouts, row)
	}

	allowance := t.Allowance
	if allowance <= 0 {
		allowance = headerRow.Height + layouts[0].Height
	}
	if err := s.Band(t.Title, allowance); err != nil {
		return err
	}
	if err := s.placeRow(headerRow); err != nil {
		return err
	}
	for _, row := range layouts {
		if err := s.ensureRowSpace(headerRow, row); err != nil {
			return err
		}
		row.Place(s.flow, s.flow.Left(), s.flow.Cursor())
		s.flow.Advance(row.Height)
	}
	s.flow.Skip(sectionGap)
	return nil
}

// ensureRowSpace 保证当前页放得下 row。换页时为表头与该行一起预留空间并在新页顶部重复表头；
// 表头加该行超过整页高度时不重复表头，该行直接放在新页顶部。
func (s *SectionRenderer) ensureRowSpace(header, row RowLayout) error {
	if s.flow.Fits(row.Height) {
		_, err := s.flow.EnsureSpace(row.Height)
		return err
	}
	withHeader := header.Height+row.Height <= s.pageRoom()
	needed := row.Height
	if withHeader {
		needed += header.Height
	}
	page := s.flow.PageIndex()
	y, err := s.flow.EnsureSpace(needed)
	if err != nil {
		return err
	}
	if withHeader && s.flow.PageIndex() != page {
		header.Place(s.flow, s.flow.Left(), y)
		s.flow.Advance(header.Height)
	}
	return nil
}

func headerCells(cols []Column) []Cell {
	cells := make([]Cell, len(cols))
	for i, col := range cols {
		cells[i] = Cell{
			Text:      col.Label,
			Width:     col.Width,
			MinHeight: tableRowHeight,
			PadX:      Pt(8),
			PadY:      Pt(7),
			Bold:      true,
			FontSize:  Pt(10),
			Fill:      headerFill.Ptr(),
			Stroke:    headerStroke,
			TextColor: headerText,
		}
	}
	return cells
}

func (s *SectionRenderer) dataCells(cols []Column, values []string) []Cell {
	cells := make([]Cell, len(cols))
	for i, col := range cols {
		v := ""
		if i < len(values) {
			v = strings.TrimSpace(values[i])
		}
		cells[i] = dataCell(v, col.Width)
	}
	return cells
}

// spanCells 为占位行生成单元格：最后一个值横跨剩余所有列。
func (s *SectionRenderer) spanCells(cols []Column, values []string) []Cell {
	if len(values) == 0 {
		values = []string{"-"}
	}
	if len(values) >= len(cols) {
		return s.dataCells(cols, values)
	}
	cells := make([]Cell, 0, len(values))
	for i, v := range values {
		w := cols[i].Width
		if i == len(values)-1 {
			for _, rest := range cols[i+1:] {
				w += rest.Width
			}
		}
		cells = append(cells, dataCell(v, w))
	}
	return cells
}

func dataCell(text string, width float64) Cell {
	return Cell{
		Text:      text,
		Width:     width,
		MinHeight: tableRowHeight,
		PadX:      Pt(8),
		PadY:      Pt(6),
		FontSize:  Pt(10),
		Stroke:    rowStroke,
		TextColor: bodyText,
	}
}

// Truncate 按 rune 截断 text；超过 limit 时去掉尾部空白并追加截断标记。
func Truncate(text string, limit int) (string, bool) {
	if limit <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	cut := strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
	return cut + TruncationMarker, true
}
