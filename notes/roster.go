package notes

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Attendee 是从自由文本中解析出的参会人，Role 取自名字后的括号。
type Attendee struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

var (
	rosterLineRe = regexp.MustCompile(`(?i)(?:Participants|Attendees)\s*:\s*(.+)`)
	trailingRole = regexp.MustCompile(`\(([^)]+)\)\s*$`)

	rosterLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Punct", Pattern: `[(),]`},
		{Name: "Word", Pattern: `[^\s(),]+`},
	})

	rosterParser = participle.MustBuild[rosterLine](
		participle.Lexer(rosterLexer),
		participle.Elide("Whitespace"),
	)
)

// rosterLine 是 "Jane Doe (ADMIN), John Smith" 形式的名单。
type rosterLine struct {
	Entries []*rosterEntry `parser:"@@ ( ',' @@ )* ','?"`
}

type rosterEntry struct {
	Pos  lexer.Position `parser:""`
	Name []string       `parser:"@Word+"`
	Role []string       `parser:"( '(' @Word* ')' )?"`
}

// FindRosterLine 返回文本中第一行 "Participants:" / "Attendees:" 冒号后的内容。
func FindRosterLine(text string) (string, bool) {
	m := rosterLineRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	line := strings.TrimSpace(m[1])
	return line, line != ""
}

// ExtractAttendees 解析文本中的参会人名单，没有名单时返回 nil。
// 语法解析失败（如括号不成对）时退回按逗号切分的宽松解析。
func ExtractAttendees(text string) []Attendee {
	line, ok := FindRosterLine(text)
	if !ok {
		return nil
	}
	if parsed, err := rosterParser.ParseString("", line); err == nil {
		out := make([]Attendee, 0, len(parsed.Entries))
		for _, e := range parsed.Entries {
			out = append(out, Attendee{
				Name: strings.Join(e.Name, " "),
				Role: strings.Join(e.Role, " "),
			})
		}
		return out
	}
	var out []Attendee
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, SplitLabel(tok))
	}
	return out
}

// SplitLabel 拆分 "Name (Role)"，只识别末尾的括号。
func SplitLabel(raw string) Attendee {
	text := strings.TrimSpace(raw)
	var role string
	if m := trailingRole.FindStringSubmatch(text); m != nil {
		role = strings.TrimSpace(m[1])
	}
	name := strings.TrimSpace(trailingRole.ReplaceAllString(text, ""))
	if name == "" {
		name = text
	}
	if name == "" {
		name = "-"
	}
	return Attendee{Name: name, Role: role}
}
