package meeting

import (
	"time"

	"github.com/google/uuid"

	"github.com/ByLCY/momreport/notes"
)

// MinutesFromDraft 把笔记推导出的草稿包装成一份新的纪要记录。
// 待办保留 assignee/dueDate 字段名，与 AI 生成的形态一致。
func MinutesFromDraft(d notes.Draft, now time.Time) *Minutes {
	items := make([]any, 0, len(d.ActionItems))
	for _, a := range d.ActionItems {
		item := map[string]any{"task": a.Task}
		if a.Assignee != "" {
			item["assignee"] = a.Assignee
		}
		if a.DueDate != "" {
			item["dueDate"] = a.DueDate
		}
		items = append(items, item)
	}
	return &Minutes{
		ID:                uuid.NewString(),
		MOM:               d.MOM,
		Decisions:         append([]string{}, d.Decisions...),
		ActionItems:       items,
		Tags:              append([]string{}, d.Tags...),
		IsSensitive:       d.IsSensitive,
		SensitivityReason: d.SensitivityReason,
		UpdatedAt:         now,
	}
}
