package meeting

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/momreport/notes"
)

const (
	RemarksOrganizer   = "Organizer"
	RemarksParticipant = "Participant"
	missing            = "-"
)

// ParticipantRow 是合并后的参会人，缺失字段显示为 "-"。
type ParticipantRow struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Remarks string `json:"remarks"`
}

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	nonWord       = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// FoldAccents 去掉组合附加符号，例如 "José" -> "Jose"。
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NameKey 返回用于去重的名字键：去掉括号内容与标点，折叠重音后转小写。
func NameKey(name string) string {
	s := parenthetical.ReplaceAllString(name, "")
	s = nonWord.ReplaceAllString(FoldAccents(s), " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// roster 按插入顺序保存参会人。关系数据按用户 id 去重，文本提取按名字键去重。
type roster struct {
	order  []string
	rows   map[string]*ParticipantRow
	byName map[string]string
}

func newRoster() *roster {
	return &roster{rows: map[string]*ParticipantRow{}, byName: map[string]string{}}
}

func (r *roster) len() int { return len(r.order) }

// mergeUser 合并一条关系数据：非空字段覆盖，已有的备注（Organizer）保留。
func (r *roster) mergeUser(key string, u User, remarks string) {
	if row, ok := r.rows[key]; ok {
		setIfPresent(&row.Name, u.Name)
		setIfPresent(&row.Email, u.Email)
		setIfPresent(&row.Role, u.Role)
		return
	}
	r.add(key, ParticipantRow{
		Name:    orMissing(u.Name),
		Email:   orMissing(u.Email),
		Role:    orMissing(u.Role),
		Remarks: remarks,
	})
}

func (r *roster) add(key string, row ParticipantRow) {
	r.order = append(r.order, key)
	r.rows[key] = &row
}

func (r *roster) indexNames() {
	for _, key := range r.order {
		nk := NameKey(r.rows[key].Name)
		if _, taken := r.byName[nk]; nk != "" && !taken {
			r.byName[nk] = key
		}
	}
}

func (r *roster) list() []ParticipantRow {
	out := make([]ParticipantRow, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.rows[key])
	}
	return out
}

// ReconcileParticipants 合并会议创建者、关系参会人与笔记中的名单。
// 创建者总在第一位且备注为 Organizer；只有关系数据不足（至多一人）时才读取笔记名单，
// 笔记名单命中已有的人时只补全缺失的邮箱与角色。
func ReconcileParticipants(m Meeting) []ParticipantRow {
	membersByID := make(map[string]User, len(m.Organization.Members))
	membersByName := make(map[string]User, len(m.Organization.Members))
	for _, u := range m.Organization.Members {
		membersByID[u.ID] = u
		label := u.Name
		if label == "" {
			label = u.Email
		}
		if nk := NameKey(label); nk != "" {
			if _, ok := membersByName[nk]; !ok {
				membersByName[nk] = u
			}
		}
	}

	r := newRoster()
	if m.Creator.ID != "" || m.Creator.Name != "" {
		r.mergeUser(userKey(m.Creator.ID), m.Creator, RemarksOrganizer)
	}
	for _, link := range m.Participants {
		switch {
		case link.User != nil:
			id := link.User.ID
			if id == "" {
				id = link.UserID
			}
			r.mergeUser(userKey(id), *link.User, RemarksParticipant)
		default:
			u, ok := membersByID[link.UserID]
			if !ok {
				u = User{ID: link.UserID, Name: link.UserID}
			}
			r.mergeUser(userKey(link.UserID), u, RemarksParticipant)
		}
	}

	if r.len() > 1 {
		return r.list()
	}

	attendees := notes.ExtractAttendees(m.Notes)
	if len(attendees) == 0 {
		attendees = notes.ExtractAttendees(m.Description)
	}
	r.indexNames()
	for i, a := range attendees {
		nk := NameKey(a.Name)
		member, known := membersByName[nk]
		if key, ok := r.byName[nk]; ok && nk != "" {
			row := r.rows[key]
			if row.Email == missing && known {
				setIfPresent(&row.Email, member.Email)
			}
			if row.Role == missing {
				setIfPresent(&row.Role, firstNonEmpty(member.Role, a.Role))
			}
			continue
		}
		name := a.Name
		if known && member.Name != "" {
			name = member.Name
		}
		key := "text:" + strconv.Itoa(i)
		r.add(key, ParticipantRow{
			Name:    orMissing(name),
			Email:   orMissing(member.Email),
			Role:    orMissing(firstNonEmpty(member.Role, a.Role)),
			Remarks: RemarksParticipant,
		})
		if nk != "" {
			r.byName[nk] = key
		}
	}
	return r.list()
}

func userKey(id string) string { return "user:" + id }

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func orMissing(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return missing
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
