package meeting

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	DefaultOwner = "Unassigned"
	DefaultDue   = "-"
	emptyTask    = "-"
)

// ActionItem 是规范化后的待办，三个字段都不为空。
type ActionItem struct {
	Task  string `json:"task"`
	Owner string `json:"owner"`
	Due   string `json:"due"`
}

// 字段探测顺序，取第一个非空值。
var (
	taskKeys  = []string{"task", "action", "title"}
	ownerKeys = []string{"assignee", "owner", "assignedTo", "responsible"}
	dueKeys   = []string{"dueDate", "due", "deadline"}
)

// NormalizeActionItem 把字符串、对象或已规范化的待办统一成 ActionItem。
// 无法识别的形态退化为默认值，不会报错。对结果再次调用结果不变。
func NormalizeActionItem(raw any) ActionItem {
	switch v := raw.(type) {
	case string:
		return canonical(v, "", "")
	case ActionItem:
		return canonical(v.Task, v.Owner, v.Due)
	case *ActionItem:
		if v == nil {
			return canonical("", "", "")
		}
		return canonical(v.Task, v.Owner, v.Due)
	case map[string]any:
		return canonical(probe(v, taskKeys), probe(v, ownerKeys), probe(v, dueKeys))
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return NormalizeActionItem(m)
	default:
		return canonical("", "", "")
	}
}

// NormalizeActionItems 规范化整个列表，并丢弃没有任务内容的条目。
func NormalizeActionItems(raw []any) []ActionItem {
	out := make([]ActionItem, 0, len(raw))
	for _, r := range raw {
		item := NormalizeActionItem(r)
		if item.Task == emptyTask {
			continue
		}
		out = append(out, item)
	}
	return out
}

func canonical(task, owner, due string) ActionItem {
	return ActionItem{
		Task:  orDefault(task, emptyTask),
		Owner: orDefault(owner, DefaultOwner),
		Due:   orDefault(due, DefaultDue),
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func probe(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s := scalarString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// scalarString 只接受标量；对象、数组与 nil 视为缺失。
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
