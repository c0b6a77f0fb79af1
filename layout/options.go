package layout

import "github.com/ByLCY/momreport/fonts"

// 布局中使用的字体名称。
const (
	FontBody = "Body"
	FontBold = "Bold"
)

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为毫米（mm）。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// DefaultResources 返回正文与粗体两种内置字体。
func DefaultResources() ResourceSet {
	return ResourceSet{
		Fonts: map[string]FontResource{
			FontBody: {Name: FontBody, Src: fonts.Regular, Family: FontBody},
			FontBold: {Name: FontBold, Src: fonts.Bold, Style: "bold", Family: FontBold},
		},
	}
}
