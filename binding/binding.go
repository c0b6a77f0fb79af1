package binding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template 是预先切分好的文本模板，由字面量与 ${path|默认值} 占位符组成。
// Template 只读，可在多个 goroutine 间共享。
type Template struct {
	src   string
	parts []part
}

type part struct {
	literal string
	ph      *placeholder
}

// placeholder 是一个占位符；steps 为空表示路径无法解析，原样输出。
type placeholder struct {
	raw    string
	path   string
	steps  []step
	def    string
	hasDef bool
}

// step 是路径中的一段：按键取值或按下标取值。
type step struct {
	key   string
	index int
	isIdx bool
}

// Parse 切分模板。路径语法：a.b[0].c，下标必须是非负整数。
func Parse(text string) *Template {
	t := &Template{src: text}
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			t.parts = append(t.parts, part{literal: text[last:loc[0]]})
		}
		t.parts = append(t.parts, part{ph: newPlaceholder(text[loc[0]:loc[1]], text[loc[2]:loc[3]])})
		last = loc[1]
	}
	if last < len(text) {
		t.parts = append(t.parts, part{literal: text[last:]})
	}
	return t
}

func (t *Template) String() string { return t.src }

// Execute 用 data 填充模板。路径不存在、值为 nil 或空串且有默认值时使用默认值；
// 路径不存在且没有默认值时保留原占位符。
func (t *Template) Execute(data any) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.ph == nil {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(p.ph.render(data))
	}
	return b.String()
}

// Missing 返回无法解析且没有默认值的路径。
func (t *Template) Missing(data any) []string {
	var out []string
	for _, p := range t.parts {
		if p.ph == nil || p.ph.hasDef {
			continue
		}
		if _, ok := p.ph.lookup(data); !ok {
			out = append(out, p.ph.path)
		}
	}
	return out
}

// Interpolate 解析并执行一次模板。
func Interpolate(text string, data any) string { return Parse(text).Execute(data) }

// Missing 解析模板并返回缺失的路径。
func Missing(text string, data any) []string { return Parse(text).Missing(data) }

// Fields 把结构体按 JSON 字段名转换为 map，供模板按 camelCase 路径取值。
func Fields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("模板数据序列化失败: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("模板数据必须是对象: %w", err)
	}
	return out, nil
}

func newPlaceholder(raw, expr string) *placeholder {
	ph := &placeholder{raw: raw}
	if i := strings.IndexByte(expr, '|'); i >= 0 {
		ph.def = strings.TrimSpace(expr[i+1:])
		ph.hasDef = true
		expr = expr[:i]
	}
	ph.path = strings.TrimSpace(expr)
	ph.steps = parsePath(ph.path)
	return ph
}

func (ph *placeholder) render(data any) string {
	val, ok := ph.lookup(data)
	if ok && val != nil {
		if s := fmt.Sprint(val); s != "" || !ph.hasDef {
			return s
		}
	}
	if ph.hasDef {
		return ph.def
	}
	return ph.raw
}

func (ph *placeholder) lookup(data any) (any, bool) {
	if data == nil || len(ph.steps) == 0 {
		return nil, false
	}
	cur := data
	for _, s := range ph.steps {
		var ok bool
		if s.isIdx {
			cur, ok = index(cur, s.index)
		} else {
			cur, ok = field(cur, s.key)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// parsePath 把 a.b[0] 拆成 [key a, key b, index 0]；语法错误时返回 nil。
func parsePath(path string) []step {
	if path == "" {
		return nil
	}
	var steps []step
	for _, seg := range strings.Split(path, ".") {
		key, rest, _ := strings.Cut(seg, "[")
		if key != "" {
			steps = append(steps, step{key: key})
		} else if rest == "" {
			return nil
		}
		if rest == "" {
			continue
		}
		for _, raw := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return nil
			}
			steps = append(steps, step{index: n, isIdx: true})
		}
	}
	return steps
}

func field(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[string]string:
		val, ok := m[key]
		return val, ok
	}
	return nil, false
}

func index(v any, i int) (any, bool) {
	switch s := v.(type) {
	case []any:
		if i < len(s) {
			return s[i], true
		}
	case []string:
		if i < len(s) {
			return s[i], true
		}
	}
	return nil, false
}
