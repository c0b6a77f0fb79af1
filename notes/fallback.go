package notes

import (
	"fmt"
	"regexp"
	"strings"
)

// DraftAction 是从笔记 "Action Items:" 段落解析出的一条待办，缺失的字段为空串。
type DraftAction struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// Draft 是不依赖 AI 服务、直接由笔记推导出的纪要草稿。
type Draft struct {
	MOM               string        `json:"mom"`
	Decisions         []string      `json:"decisions"`
	ActionItems       []DraftAction `json:"actionItems"`
	Tags              []string      `json:"tags"`
	IsSensitive       bool          `json:"isSensitive"`
	SensitivityReason string        `json:"sensitivityReason,omitempty"`
}

// SensitiveReason 是关键词命中时记录的敏感原因。
const SensitiveReason = "Detected sensitive keywords"

var (
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
	bulletPrefix = regexp.MustCompile(`^-+\s*`)
	ownerPrefix  = regexp.MustCompile(`(?i)^Owner:\s*`)
	duePrefix    = regexp.MustCompile(`(?i)^Due:\s*`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
	sensitiveRe  = regexp.MustCompile(`(?i)salary|confidential|legal|termination|pricing|strategy|contract|compliance`)
)

type tagRule struct {
	tag string
	re  *regexp.Regexp
}

// 短词（ai/hr/api）按词边界匹配，避免 "email"、"chair" 之类误判。
var tagRules = []tagRule{
	{"Engineering", regexp.MustCompile(`(?i)backend|\bapis?\b|integration|server|endpoint`)},
	{"AI", regexp.MustCompile(`(?i)\bai\b|openai|\bllms?\b|\bmodels?\b`)},
	{"Finance", regexp.MustCompile(`(?i)pricing|budget|invoice|payment|finance`)},
	{"HR", regexp.MustCompile(`(?i)\bhr\b|hiring|employee|salary|payroll`)},
	{"Legal", regexp.MustCompile(`(?i)legal|contract|compliance`)},
	{"Strategy", regexp.MustCompile(`(?i)strategy|confidential|roadmap`)},
}

// FallbackMinutes 由标题、议程与笔记生成纪要草稿，结果只取决于输入。
func FallbackMinutes(title, agenda, notes string) Draft {
	decisions := ExtractDecisions(notes)
	actions := ExtractActionItems(notes)
	sensitive := sensitiveRe.MatchString(notes)

	d := Draft{
		Decisions:   decisions,
		ActionItems: actions,
		Tags:        AutoTags(notes),
		IsSensitive: sensitive,
	}
	if sensitive {
		d.SensitivityReason = SensitiveReason
	}
	d.MOM = renderMOM(title, agenda, StripSections(notes), decisions, actions)
	return d
}

// ExtractDecisions 返回 "Decisions:" 段落中以 "-" 开头的条目。
func ExtractDecisions(notes string) []string {
	body, ok := sectionBody(notes, "Decisions")
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, line := range bulletLines(body) {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ExtractActionItems 解析 "- Task | Owner: X | Due: Y" 形式的待办行。
func ExtractActionItems(notes string) []DraftAction {
	body, ok := sectionBody(notes, "Action Items")
	if !ok {
		return []DraftAction{}
	}
	out := []DraftAction{}
	for _, line := range bulletLines(body) {
		parts := strings.Split(line, "|")
		a := DraftAction{Task: strings.TrimSpace(parts[0])}
		for _, p := range parts[1:] {
			p = strings.TrimSpace(p)
			switch {
			case ownerPrefix.MatchString(p) && a.Assignee == "":
				a.Assignee = strings.TrimSpace(ownerPrefix.ReplaceAllString(p, ""))
			case duePrefix.MatchString(p) && a.DueDate == "":
				a.DueDate = strings.TrimSpace(duePrefix.ReplaceAllString(p, ""))
			}
		}
		out = append(out, a)
	}
	return out
}

// StripSections 去掉 Decisions / Action Items 段落，剩余内容作为讨论要点。
func StripSections(notes string) string {
	out := notes
	for _, label := range []string{"Decisions", "Action Items"} {
		for {
			start, end, ok := sectionSpan(out, label)
			if !ok {
				break
			}
			out = out[:start] + out[end:]
		}
	}
	out = manyNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// AutoTags 按关键词类别给笔记打标签，顺序固定。
func AutoTags(text string) []string {
	tags := []string{}
	for _, r := range tagRules {
		if r.re.MatchString(text) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}

func headerRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:\s*`)
}

// sectionBody 返回 label 段落标题之后、下一个空行之前的内容。
func sectionBody(notes, label string) (string, bool) {
	loc := headerRe(label).FindStringIndex(notes)
	if loc == nil {
		return "", false
	}
	rest := notes[loc[1]:]
	if end := blankLineRe.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest, true
}

// sectionSpan 返回整个段落（含前导换行与标题）的字节区间，不包含结尾的空行。
func sectionSpan(notes, label string) (int, int, bool) {
	loc := headerRe(label).FindStringIndex(notes)
	if loc == nil {
		return 0, 0, false
	}
	start := loc[0]
	for start > 0 && (notes[start-1] == ' ' || notes[start-1] == '\t') {
		start--
	}
	if start > 0 && notes[start-1] == '\n' {
		start--
	}
	end := len(notes)
	if m := blankLineRe.FindStringIndex(notes[loc[1]:]); m != nil {
		end = loc[1] + m[0]
	}
	return start, end, true
}

func bulletLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		out = append(out, strings.TrimSpace(bulletPrefix.ReplaceAllString(line, "")))
	}
	return out
}

func renderMOM(title, agenda, discussion string, decisions []string, actions []DraftAction) string {
	if agenda == "" {
		agenda = "-"
	}
	var b strings.Builder
	b.WriteString("Minutes of Meeting (Smart Fallback)\n\n")
	fmt.Fprintf(&b, "Title: %s\nAgenda: %s\n\n", title, agenda)
	fmt.Fprintf(&b, "Key Discussion:\n%s\n\n", discussion)

	b.WriteString("Decisions:\n")
	if len(decisions) == 0 {
		b.WriteString("- None detected\n")
	}
	for _, d := range decisions {
		fmt.Fprintf(&b, "- %s\n", d)
	}

	b.WriteString("\nAction Items:\n")
	if len(actions) == 0 {
		b.WriteString("- None detected\n")
	}
	for _, a := range actions {
		owner, due := a.Assignee, a.DueDate
		if owner == "" {
			owner = "Unassigned"
		}
		if due == "" {
			due = "N/A"
		}
		fmt.Fprintf(&b, "- %s | Owner: %s | Due: %s\n", a.Task, owner, due)
	}
	return b.String()
}
