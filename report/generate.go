package report

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/ByLCY/momreport/meeting"
	"github.com/ByLCY/momreport/renderer"
)

// Sink 保存渲染结果。write 把 PDF 写入给定的 writer；write 或保存失败时，
// Sink 必须丢弃已写入的部分数据。返回值是结果的位置（路径或对象地址）。
type Sink interface {
	Store(ctx context.Context, name string, write func(io.Writer) error) (string, error)
}

// Output 是一次完整生成的结果。
type Output struct {
	*Document
	Location string
}

// Generator 串联排版、渲染与保存。
type Generator struct {
	Composer *Composer
	Renderer renderer.Renderer
	Sink     Sink
	Log      *zap.Logger
}

// Generate 排版、渲染并保存一份报告。NotGenerated 与 Forbidden 原样返回，
// 渲染或保存阶段的错误（包括取消）统一归为 RenderFailed。
func (g *Generator) Generate(ctx context.Context, in meeting.Input, who *meeting.Requester) (*Output, error) {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	doc, err := g.Composer.Compose(ctx, in, who)
	if err != nil {
		return nil, err
	}
	loc, err := g.Sink.Store(ctx, doc.Filename, func(w io.Writer) error {
		return g.Renderer.Render(ctx, doc.Result, w)
	})
	if err != nil {
		var coded *Error
		if errors.As(err, &coded) {
			return nil, err
		}
		return nil, wrapError(CodeRenderFailed, err, "生成 %s 失败", doc.Filename)
	}
	log.Info("报告已生成",
		zap.String("meeting_id", in.Meeting.ID),
		zap.String("file", doc.Filename),
		zap.String("location", loc),
		zap.Int("pages", doc.PageCount))
	return &Output{Document: doc, Location: loc}, nil
}
