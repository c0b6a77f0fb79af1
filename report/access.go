package report

import (
	"strings"

	"github.com/ByLCY/momreport/meeting"
)

// 可以查看所有私密会议纪要的组织角色。
var adminRoles = map[string]bool{
	"ADMIN":    true,
	"HEAD":     true,
	"CEO":      true,
	"CHAIRMAN": true,
	"FOUNDER":  true,
}

// IsAdminRole 判断角色是否拥有组织级查看权限（大小写不敏感）。
func IsAdminRole(role string) bool {
	return adminRoles[strings.ToUpper(strings.TrimSpace(role))]
}

// Authorize 判断请求者能否下载报告。非 PRIVATE 会议对组织内所有人可见；
// PRIVATE 会议只允许创建者、关系参会人、管理角色，以及邮箱出现在合并名单中的人。
// who 为 nil 表示内部调用，不做检查。
func Authorize(m meeting.Meeting, roster []meeting.ParticipantRow, who *meeting.Requester) error {
	if who == nil || m.Visibility != meeting.VisibilityPrivate {
		return nil
	}
	if IsAdminRole(who.Role) {
		return nil
	}
	if who.ID != "" {
		if who.ID == m.Creator.ID {
			return nil
		}
		for _, link := range m.Participants {
			if link.UserID == who.ID {
				return nil
			}
		}
	}
	if email := strings.TrimSpace(who.Email); email != "" {
		for _, row := range roster {
			if strings.EqualFold(row.Email, email) {
				return nil
			}
		}
	}
	return newError(CodeForbidden, "无权查看私密会议 %s 的纪要", m.ID)
}
