package layout

import (
	"context"
	"errors"
	"testing"
)

func TestEnsureSpaceBreaksBeforeOverflow(t *testing.T) {
	pf := NewPageFlow(context.Background(), testA4, UniformMargin(20))
	unit := 50.0
	for i := 0; i < 12; i++ {
		before := pf.PageIndex()
		y, err := pf.EnsureSpace(unit)
		if err != nil {
			t.Fatalf("EnsureSpace 失败: %v", err)
		}
		if y+unit > pf.Bottom() {
			t.Fatalf("第 %d 个单元越过页底: y=%g bottom=%g", i, y, pf.Bottom())
		}
		if pf.PageIndex() != before && y != pf.Top() {
			t.Fatalf("换页后游标应重置到顶部, got %g", y)
		}
		pf.Advance(unit)
	}
	// 257mm 内容区每页放 5 个 50mm 单元
	if got := pf.PageCount(); got != 3 {
		t.Fatalf("期望 3 页, 实际 %d", got)
	}
}

func TestEnsureSpaceOversizeUnitNoBlankPage(t *testing.T) {
	pf := NewPageFlow(context.Background(), testA4, UniformMargin(20))
	y, err := pf.EnsureSpace(400)
	if err != nil {
		t.Fatal(err)
	}
	if pf.PageCount() != 1 || y != pf.Top() {
		t.Fatalf("空白页上的超高单元不应换页: pages=%d y=%g", pf.PageCount(), y)
	}
	pf.Advance(400)
	if _, err := pf.EnsureSpace(10); err != nil {
		t.Fatal(err)
	}
	if pf.PageCount() != 2 {
		t.Fatalf("超高单元之后应换页, pages=%d", pf.PageCount())
	}
}

func TestOnNewPageAppliesToEveryPage(t *testing.T) {
	pf := NewPageFlow(context.Background(), testA4, UniformMargin(20))
	pf.OnNewPage(func(index int, p *Page) {
		p.Watermark = &Watermark{Text: "X", CX: p.Width / 2, CY: p.Height / 2}
	})
	for i := 0; i < 4; i++ {
		if _, err := pf.EnsureSpace(200); err != nil {
			t.Fatal(err)
		}
		pf.DrawText(TextBox{Content: "a"})
		pf.Advance(200)
	}
	pages := pf.Pages()
	if len(pages) != 4 {
		t.Fatalf("期望 4 页, 实际 %d", len(pages))
	}
	for i, p := range pages {
		if p.Watermark == nil || p.Watermark.Text != "X" {
			t.Fatalf("第 %d 页缺少水印", i+1)
		}
	}
}

func TestSkipAtTopIsIgnored(t *testing.T) {
	pf := NewPageFlow(context.Background(), testA4, UniformMargin(20))
	pf.Skip(5)
	if pf.Cursor() != pf.Top() {
		t.Fatalf("页顶的间距应被忽略, cursor=%g", pf.Cursor())
	}
	pf.Advance(10)
	pf.Skip(5)
	if pf.Cursor() != pf.Top()+15 {
		t.Fatalf("间距未生效, cursor=%g", pf.Cursor())
	}
	pf.Skip(1000)
	if pf.Cursor() != pf.Bottom() || pf.PageCount() != 1 {
		t.Fatalf("Skip 不应换页且不越过页底")
	}
}

func TestEnsureSpaceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pf := NewPageFlow(ctx, testA4, UniformMargin(20))
	cancel()
	if _, err := pf.EnsureSpace(10); !errors.Is(err, context.Canceled) {
		t.Fatalf("取消后应返回 context.Canceled, got %v", err)
	}
}
