package report

import (
	"regexp"
	"strings"
	"time"

	"github.com/ByLCY/momreport/meeting"
)

// 组织名与标题片段的最大长度。
const maxTokenLen = 60

var unsafeRun = regexp.MustCompile(`[^a-z0-9]+`)

// Filename 生成 mom_<org>_<title>_<会议日期>_<生成时间>.pdf。
// 同一会议在不同时刻生成时，只有最后的时间戳片段不同。
func Filename(org, title string, meetingAt, generatedAt time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	parts := []string{
		"mom",
		Slug(org, maxTokenLen),
		Slug(title, maxTokenLen),
		meetingAt.In(loc).Format("20060102"),
		generatedAt.In(loc).Format("20060102_150405"),
	}
	return strings.Join(parts, "_") + ".pdf"
}

// Slug 把任意文本转为只含 [a-z0-9_] 的片段，长度不超过 max；结果为空时返回 "na"。
func Slug(s string, max int) string {
	s = strings.ToLower(meeting.FoldAccents(s))
	s = strings.Trim(unsafeRun.ReplaceAllString(s, "_"), "_")
	if max > 0 && len(s) > max {
		s = strings.TrimRight(s[:max], "_")
	}
	if s == "" {
		return "na"
	}
	return s
}
