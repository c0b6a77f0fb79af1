package meeting

import (
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/momreport/notes"
)

const sampleInput = `{
  "meeting": {
    "id": "6f1c2d3e-aaaa-bbbb-cccc-000000000001",
    "title": "Board Review",
    "visibility": "public_org",
    "dateTime": "2026-02-19T10:00:00Z",
    "notes": "Participants: Jane Doe (ADMIN), John Smith",
    "organization": {"name": "Acme", "category": "Finance", "members": []},
    "creator": {"id": "u1", "name": "Maya Chen", "email": "maya@acme.test", "role": "HEAD"},
    "participants": []
  },
  "minutes": {
    "id": "9a8b7c6d-0000-1111-2222-333333333333",
    "mom": "Summary",
    "decisions": [],
    "actionItems": ["Finalize budget", {"task": "Call bank", "owner": "Ann"}],
    "tags": ["Finance"],
    "isSensitive": false,
    "updatedAt": "2026-02-19T12:00:00Z"
  }
}`

func TestDecode(t *testing.T) {
	in, err := Decode([]byte(sampleInput))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if in.Meeting.Visibility != VisibilityOrgWide {
		t.Fatalf("PUBLIC_ORG 应映射为 ORG_WIDE, got %s", in.Meeting.Visibility)
	}
	if in.Minutes == nil || len(in.Minutes.ActionItems) != 2 {
		t.Fatalf("纪要解析错误: %+v", in.Minutes)
	}
	items := NormalizeActionItems(in.Minutes.ActionItems)
	if items[1] != (ActionItem{Task: "Call bank", Owner: "Ann", Due: DefaultDue}) {
		t.Fatalf("待办规范化错误: %+v", items[1])
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad visibility":  strings.Replace(sampleInput, `"public_org"`, `"SECRET"`, 1),
		"missing title":   strings.Replace(sampleInput, `"title": "Board Review",`, ``, 1),
		"missing creator": strings.Replace(sampleInput, `"id": "u1",`, ``, 1),
		"not json":        "{",
	}
	for name, data := range cases {
		if _, err := Decode([]byte(data)); err == nil {
			t.Fatalf("%s: 应返回错误", name)
		}
	}
}

func TestDecodeToleratesBadRosterEntries(t *testing.T) {
	data := strings.Replace(sampleInput,
		`"members": []`,
		`"members": [{"name": "No Id"}, {"id": "u9", "name": "Jane Doe", "email": "not-an-email"}]`, 1)
	data = strings.Replace(data,
		`"participants": []`,
		`"participants": [{"userId": "u7", "user": {"name": "Ghost", "email": "ghost@"}}]`, 1)
	in, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("名单中的坏数据不应拒绝整个输入: %v", err)
	}
	rows := ReconcileParticipants(in.Meeting)
	if len(rows) != 2 || rows[1].Name != "Ghost" || rows[1].Email != "ghost@" {
		t.Fatalf("关系参会人应原样保留: %+v", rows)
	}
}

func TestDecodeWithoutMinutes(t *testing.T) {
	data := sampleInput[:strings.Index(sampleInput, `,
  "minutes"`)] + "\n}"
	in, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("缺少纪要不是校验错误: %v", err)
	}
	if in.Minutes != nil {
		t.Fatalf("Minutes 应为 nil")
	}
}

func TestMinutesFromDraft(t *testing.T) {
	d := notes.FallbackMinutes("Sync", "", "Action Items:\n- Ship | Owner: Ann\n- Test")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := MinutesFromDraft(d, now)
	if m.ID == "" || !m.UpdatedAt.Equal(now) {
		t.Fatalf("纪要元数据缺失: %+v", m)
	}
	items := NormalizeActionItems(m.ActionItems)
	if len(items) != 2 || items[0].Owner != "Ann" || items[1].Owner != DefaultOwner {
		t.Fatalf("待办转换错误: %+v", items)
	}
	if other := MinutesFromDraft(d, now); other.ID == m.ID {
		t.Fatalf("每次生成应使用新的 id")
	}
}
