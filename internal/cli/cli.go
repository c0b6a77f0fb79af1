package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/momreport/config"
	"github.com/ByLCY/momreport/layout"
	"github.com/ByLCY/momreport/meeting"
	canvasrenderer "github.com/ByLCY/momreport/renderer/canvas"
	"github.com/ByLCY/momreport/report"
	"github.com/ByLCY/momreport/sink"
)

// app 保存一次命令执行共享的配置与组件。
type app struct {
	cfg *config.Config
	log *zap.Logger
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func appFromContext(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}
	return &app{cfg: &config.Config{}, log: zap.NewNop()}
}

// outputOpts 是 render 与 batch 共用的输出参数，非空时覆盖配置。
type outputOpts struct {
	outDir   string
	pageSize string
	timezone string
	debugDir string
}

// generator 按配置组装排版、渲染与保存。
func (a *app) generator(ctx context.Context, opts outputOpts) (*report.Generator, error) {
	cfg := *a.cfg
	if opts.pageSize != "" {
		cfg.PageSize = opts.pageSize
	}
	if opts.timezone != "" {
		cfg.Timezone = opts.timezone
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	rc, err := cfg.Report()
	if err != nil {
		return nil, err
	}

	var s report.Sink
	if cfg.UsesObjectStorage() && opts.outDir == "" {
		s, err = sink.NewMinIO(ctx, sink.MinIOConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			Prefix:          cfg.Storage.Prefix,
			UseSSL:          cfg.Storage.UseSSL,
			MaxElapsed:      cfg.Storage.MaxElapsed,
		}, a.log)
	} else {
		s, err = sink.NewDir(cfg.OutputDir, a.log)
	}
	if err != nil {
		return nil, err
	}

	r := canvasrenderer.NewRenderer()
	return &report.Generator{
		Composer: report.NewComposer(rc, r, a.log),
		Renderer: r,
		Sink:     s,
		Log:      a.log,
	}, nil
}

// readInput 读取并校验一份会议 JSON。
func readInput(path string) (*meeting.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	in, err := meeting.Decode(data)
	if err != nil {
		return nil, report.InvalidInput(fmt.Errorf("%s: %w", path, err))
	}
	return in, nil
}

// writeDebug 把布局结果写成 <dir>/<name>.json。
func writeDebug(dir, name string, res *layout.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	path := filepath.Join(dir, name+".json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	defer f.Close()
	if err := layout.WriteDebugJSON(res, f); err != nil {
		return fmt.Errorf("写入调试 JSON 失败: %w", err)
	}
	return nil
}
