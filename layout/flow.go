package layout

import "context"

// PageFlow 持有一次文档构建的纵向游标与分页边界。
// 所有绘制单元（一行表格、一个标题带、一段正文）在落笔前都要先调用 EnsureSpace，
// 单元不会被拆到两页。PageFlow 不是并发安全的，每次构建独占一个实例。
type PageFlow struct {
	ctx    context.Context
	size   PageSize
	margin Margin

	pages   []*Page
	cursorY float64
	hooks   []func(index int, p *Page)
}

// NewPageFlow 创建只有一页的 PageFlow，游标位于内容区顶部。
func NewPageFlow(ctx context.Context, size PageSize, margin Margin) *PageFlow {
	if ctx == nil {
		ctx = context.Background()
	}
	pf := &PageFlow{ctx: ctx, size: size, margin: margin}
	pf.addPage()
	return pf
}

// OnNewPage 注册新页回调：立即作用于已有页面，之后每次分页都会调用。
func (pf *PageFlow) OnNewPage(fn func(index int, p *Page)) {
	if fn == nil {
		return
	}
	for i, p := range pf.pages {
		fn(i, p)
	}
	pf.hooks = append(pf.hooks, fn)
}

func (pf *PageFlow) addPage() {
	p := &Page{Width: pf.size.Width, Height: pf.size.Height, Margin: pf.margin}
	pf.pages = append(pf.pages, p)
	pf.cursorY = pf.Top()
	idx := len(pf.pages) - 1
	for _, fn := range pf.hooks {
		fn(idx, p)
	}
}

// EnsureSpace 保证当前页还能容纳 needed 高度，否则换页；返回落笔的游标位置。
// 当前页尚无内容时不会换页，超过整页高度的单元直接放在新页顶部。
func (pf *PageFlow) EnsureSpace(needed float64) (float64, error) {
	if err := pf.ctx.Err(); err != nil {
		return pf.cursorY, err
	}
	if pf.cursorY+needed <= pf.Bottom() {
		return pf.cursorY, nil
	}
	if pf.cursorY <= pf.Top() {
		return pf.cursorY, nil
	}
	pf.addPage()
	return pf.cursorY, nil
}

// Fits 判断 needed 在当前页剩余空间内是否放得下（不换页）。
func (pf *PageFlow) Fits(needed float64) bool {
	return pf.cursorY+needed <= pf.Bottom()
}

// Advance 在绘制完一个单元后下移游标。
func (pf *PageFlow) Advance(h float64) {
	if h > 0 {
		pf.cursorY += h
	}
}

// Skip 插入纵向间距；位于页顶时忽略，且从不触发换页。
func (pf *PageFlow) Skip(gap float64) {
	if gap <= 0 || pf.cursorY <= pf.Top() {
		return
	}
	pf.cursorY += gap
	if pf.cursorY > pf.Bottom() {
		pf.cursorY = pf.Bottom()
	}
}

func (pf *PageFlow) Cursor() float64 { return pf.cursorY }

func (pf *PageFlow) Top() float64 { return pf.margin.Top }

func (pf *PageFlow) Bottom() float64 { return pf.size.Height - pf.margin.Bottom }

func (pf *PageFlow) Left() float64 { return pf.margin.Left }

func (pf *PageFlow) ContentWidth() float64 {
	return pf.size.Width - pf.margin.Left - pf.margin.Right
}

// PageIndex 返回当前页序号（从 0 开始）。
func (pf *PageFlow) PageIndex() int { return len(pf.pages) - 1 }

// PageCount 返回已生成的页数。
func (pf *PageFlow) PageCount() int { return len(pf.pages) }

// DrawRect 向当前页追加矩形。
func (pf *PageFlow) DrawRect(r Rect) {
	p := pf.pages[len(pf.pages)-1]
	p.Rects = append(p.Rects, r)
}

// DrawText 向当前页追加文本块。
func (pf *PageFlow) DrawText(tb TextBox) {
	p := pf.pages[len(pf.pages)-1]
	p.Texts = append(p.Texts, tb)
}

// Pages 返回所有页面的副本。
func (pf *PageFlow) Pages() []Page {
	out := make([]Page, len(pf.pages))
	for i, p := range pf.pages {
		out[i] = *p
	}
	return out
}
