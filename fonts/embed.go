package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体的引用名，可直接写入 layout.FontResource.Src。
const (
	Regular = "embed:Go-Regular.ttf"
	Bold    = "embed:Go-Bold.ttf"
)

var builtin = map[string][]byte{
	"Go-Regular.ttf": goregular.TTF,
	"Go-Bold.ttf":    gobold.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Bold.ttf" 或直接 "Go-Bold.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}
