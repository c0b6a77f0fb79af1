package report

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ByLCY/momreport/layout"
	"github.com/ByLCY/momreport/meeting"
)

// stubTypesetter 等宽排版：每个字符宽 fontSize*0.5，按空格贪心折行。
type stubTypesetter struct{}

func (s *stubTypesetter) LayoutLines(content string, width float64, font layout.FontResource, fontSize float64, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	charW := fontSize * 0.5
	maxChars := int(width / charW)
	if maxChars < 1 {
		maxChars = 1
	}
	var out []layout.TextLine
	for _, para := range strings.Split(content, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, layout.TextLine{Height: fontSize})
			continue
		}
		cur := ""
		for _, w := range words {
			cand := w
			if cur != "" {
				cand = cur + " " + w
			}
			if utf8.RuneCountInString(cand) > maxChars && cur != "" {
				out = append(out, layout.TextLine{Content: cur, Width: float64(utf8.RuneCountInString(cur)) * charW, Height: fontSize})
				cur = w
				continue
			}
			cur = cand
		}
		out = append(out, layout.TextLine{Content: cur, Width: float64(utf8.RuneCountInString(cur)) * charW, Height: fontSize})
	}
	return out, nil
}

var (
	fixedNow   = time.Date(2026, 2, 20, 9, 30, 15, 0, time.UTC)
	testMaya   = meeting.User{ID: "u-creator-0001", Name: "Maya Chen", Email: "maya@acme.test", Role: "HEAD"}
	meetingDay = time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)
)

func newTestComposer() *Composer {
	return NewComposer(DefaultConfig(), &stubTypesetter{}, nil).WithClock(func() time.Time { return fixedNow })
}

// boardReview 是私密会议、无关系参会人、笔记中列出名单的典型输入。
func boardReview() meeting.Input {
	return meeting.Input{
		Meeting: meeting.Meeting{
			ID:          "3f2a9c1e-7b44-4a5e-9a11-0c0ffee00001",
			Title:       "Board Review",
			Description: "Quarterly board review",
			Visibility:  meeting.VisibilityPrivate,
			DateTime:    meetingDay,
			Notes:       "Participants: Jane Doe (ADMIN), John Smith\nDiscussed the budget.",
			Creator:     testMaya,
			Organization: meeting.Organization{
				Name:     "Acme",
				Category: "Finance",
				Members: []meeting.User{
					{ID: "u-john", Name: "John Smith", Email: "john@acme.test", Role: "MEMBER"},
				},
			},
		},
		Minutes: &meeting.Minutes{
			ID:  "a1b2c3d4-0000-4000-8000-000000000001",
			MOM: "The board reviewed the quarterly budget.",
			ActionItems: []any{
				map[string]any{"task": "Prepare budget", "owner": "John Smith", "dueDate": "2026-03-01"},
				"Follow up with legal",
			},
			Tags:      []string{"Finance", "Legal"},
			UpdatedAt: meetingDay.Add(2 * time.Hour),
		},
	}
}

// pageTexts 返回每页所有文本内容。
func pageTexts(p layout.Page) []string {
	out := make([]string, len(p.Texts))
	for i, tb := range p.Texts {
		out[i] = tb.Content
	}
	return out
}

func allTexts(res *layout.Result) []string {
	var out []string
	for _, p := range res.Pages {
		out = append(out, pageTexts(p)...)
	}
	return out
}

func indexOf(texts []string, s string) int {
	for i, t := range texts {
		if t == s {
			return i
		}
	}
	return -1
}

func mustContain(t *testing.T, texts []string, s string) int {
	t.Helper()
	i := indexOf(texts, s)
	if i < 0 {
		t.Fatalf("输出中缺少 %q", s)
	}
	return i
}

// assertWithinMargins 检查每页所有元素都在上下边距之内。
func assertWithinMargins(t *testing.T, res *layout.Result) {
	t.Helper()
	const eps = 1e-6
	for i, p := range res.Pages {
		top, bottom := p.Margin.Top, p.Height-p.Margin.Bottom
		for _, r := range p.Rects {
			if r.Y < top-eps || r.Y+r.Height > bottom+eps {
				t.Fatalf("第 %d 页矩形越界: y=%g h=%g", i+1, r.Y, r.Height)
			}
		}
		for _, tb := range p.Texts {
			if tb.Y < top-eps || tb.Y+tb.Height > bottom+eps {
				t.Fatalf("第 %d 页文本越界: %q y=%g h=%g", i+1, tb.Content, tb.Y, tb.Height)
			}
		}
	}
}
