package renderer

import (
	"context"
	"io"

	"github.com/ByLCY/momreport/layout"
)

// Renderer 将布局结果写成最终文件（例如 PDF）。
// 出错时 w 中可能已有部分数据，由调用方丢弃。ctx 取消后不再继续绘制。
type Renderer interface {
	Render(ctx context.Context, result *layout.Result, w io.Writer) error
}
