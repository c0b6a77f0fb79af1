package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Dir 把报告写入本地目录。先写临时文件，成功后改名，失败时删除临时文件。
type Dir struct {
	Root string
	Log  *zap.Logger
}

// NewDir 创建目录 sink，目录不存在时自动创建。
func NewDir(root string, log *zap.Logger) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dir{Root: root, Log: log}, nil
}

func (d *Dir) Store(ctx context.Context, name string, write func(io.Writer) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := filepath.Join(d.Root, filepath.Base(name))
	tmp, err := os.CreateTemp(d.Root, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	discard := func() {
		tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
			d.Log.Warn("删除临时文件失败", zap.String("path", tmp.Name()), zap.Error(rmErr))
		}
	}

	if err := write(tmp); err != nil {
		discard()
		return "", err
	}
	if err := ctx.Err(); err != nil {
		discard()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		discard()
		return "", fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		discard()
		return "", fmt.Errorf("保存 %s 失败: %w", target, err)
	}
	d.Log.Debug("报告已写入", zap.String("path", target))
	return target, nil
}
