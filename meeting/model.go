package meeting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Visibility 决定谁可以查看会议纪要。
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityOrgWide Visibility = "ORG_WIDE"
)

// UnmarshalJSON 接受大小写不敏感的取值，PUBLIC_ORG 视为 ORG_WIDE。
func (v *Visibility) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("visibility 必须是字符串: %w", err)
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "PUBLIC_ORG" {
		s = string(VisibilityOrgWide)
	}
	*v = Visibility(s)
	return nil
}

// User 是组织成员或会议参与者的身份信息。
type User struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role"`
}

// Organization 的成员列表只用于按 id 或名字补全参会人信息，不做校验：
// 个别成员缺少 id 或邮箱格式错误时只影响补全结果。
type Organization struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Members  []User `json:"members"`
}

// ParticipantLink 是会议到用户的关系边，User 可能缺失（外键悬空），也不做校验。
type ParticipantLink struct {
	UserID string `json:"userId" validate:"required"`
	User   *User  `json:"user,omitempty" validate:"-"`
}

type Meeting struct {
	ID           string            `json:"id" validate:"required"`
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description,omitempty"`
	Visibility   Visibility        `json:"visibility" validate:"required,oneof=PRIVATE ORG_WIDE"`
	DateTime     time.Time         `json:"dateTime" validate:"required"`
	Notes        string            `json:"notes,omitempty"`
	Organization Organization      `json:"organization"`
	Creator      User              `json:"creator"`
	Participants []ParticipantLink `json:"participants" validate:"dive"`
}

// Minutes 是会议生成的纪要，每个会议至多一份。ActionItems 的形态不固定，见 NormalizeActionItem。
type Minutes struct {
	ID                string    `json:"id" validate:"required"`
	MOM               string    `json:"mom"`
	Decisions         []string  `json:"decisions"`
	ActionItems       []any     `json:"actionItems"`
	Tags              []string  `json:"tags"`
	IsSensitive       bool      `json:"isSensitive"`
	SensitivityReason string    `json:"sensitivityReason,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Input 是生成报告所需的完整输入；Minutes 为 nil 表示尚未生成纪要。
type Input struct {
	Meeting Meeting  `json:"meeting"`
	Minutes *Minutes `json:"minutes,omitempty"`
}

// Requester 标识请求下载报告的用户。
type Requester struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var validate = validator.New()

// Validate 校验输入的必填字段与枚举取值。
func (in *Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("会议数据校验失败: %w", err)
	}
	return nil
}

// Decode 解析并校验一份 JSON 输入。
func Decode(data []byte) (*Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("解析会议 JSON 失败: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}
