package report

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/momreport/binding"
	"github.com/ByLCY/momreport/layout"
	"github.com/ByLCY/momreport/meeting"
)

// 默认配置值。
const (
	DefaultWatermarkText = "CONFIDENTIAL"
	DefaultBrandMark     = "DM"
	DefaultTitleTemplate = "Minutes of Meeting - ${meeting.title}"

	// 列宽按 A4 左右各 50pt 边距时的 495pt 内容宽度给出，其他纸张按比例缩放。
	referenceWidthPt = 495

	dateLayout = "Jan 02, 2006"
	timeLayout = "03:04 PM"
)

// Config 是 Composer 的不可变配置。零值字段在 NewComposer 中补默认值。
type Config struct {
	PageSize       layout.PageSize
	Margin         float64 // mm
	ParagraphLimit int
	WatermarkText  string
	BrandMark      string
	TitleTemplate  string
	Location       *time.Location
}

// DefaultConfig 返回 A4、50pt 边距的默认配置。
func DefaultConfig() Config {
	return Config{
		PageSize:       layout.PageSize{Name: "A4", Width: 210, Height: 297},
		Margin:         layout.Pt(50),
		ParagraphLimit: layout.DefaultParagraphLimit,
		WatermarkText:  DefaultWatermarkText,
		BrandMark:      DefaultBrandMark,
		TitleTemplate:  DefaultTitleTemplate,
		Location:       time.UTC,
	}
}

// Document 是一次构建的结果。
type Document struct {
	Result       *layout.Result
	Filename     string
	Participants []meeting.ParticipantRow
	ActionItems  []meeting.ActionItem
	PageCount    int
}

// Composer 把会议与纪要排成固定顺序的报告页面。Composer 只持有只读配置，可并发使用。
type Composer struct {
	cfg      Config
	titleTpl *binding.Template
	ts       layout.Typesetter
	res      layout.ResourceSet
	log      *zap.Logger
	now      func() time.Time
}

// NewComposer 创建 Composer；ts 为 nil 时按换行符断行（仅适合调试）。
func NewComposer(cfg Config, ts layout.Typesetter, log *zap.Logger) *Composer {
	def := DefaultConfig()
	if cfg.PageSize.Width <= 0 || cfg.PageSize.Height <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.Margin <= 0 {
		cfg.Margin = def.Margin
	}
	if cfg.ParagraphLimit == 0 {
		cfg.ParagraphLimit = def.ParagraphLimit
	}
	if cfg.WatermarkText == "" {
		cfg.WatermarkText = def.WatermarkText
	}
	if cfg.BrandMark == "" {
		cfg.BrandMark = def.BrandMark
	}
	if cfg.TitleTemplate == "" {
		cfg.TitleTemplate = def.TitleTemplate
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{
		cfg:      cfg,
		titleTpl: binding.Parse(cfg.TitleTemplate),
		ts:       ts,
		res:      layout.DefaultResources(),
		log:      log,
		now:      time.Now,
	}
}

// WithClock 返回使用指定时钟的副本。
func (c *Composer) WithClock(now func() time.Time) *Composer {
	cp := *c
	cp.now = now
	return &cp
}

// Config 返回补齐默认值后的配置。
func (c *Composer) Config() Config { return c.cfg }

// Compose 校验纪要是否存在与访问权限，然后依次绘制各个分节。
// 权限检查在任何绘制之前完成。
func (c *Composer) Compose(ctx context.Context, in meeting.Input, who *meeting.Requester) (*Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	m := in.Meeting
	log := c.log.With(zap.String("meeting_id", m.ID))
	if in.Minutes == nil {
		return nil, newError(CodeNotGenerated, "会议 %s 尚未生成纪要", m.ID)
	}
	roster := meeting.ReconcileParticipants(m)
	if err := Authorize(m, roster, who); err != nil {
		log.Info("拒绝访问私密会议", zap.String("requester", requesterID(who)))
		return nil, err
	}

	job := &composeJob{
		Composer:    c,
		in:          in,
		min:         in.Minutes,
		roster:      roster,
		actions:     meeting.NormalizeActionItems(in.Minutes.ActionItems),
		generatedAt: c.now(),
		log:         log,
	}
	result, err := job.run(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, wrapError(CodeRenderFailed, err, "构建已取消")
		}
		return nil, wrapError(CodeRenderFailed, err, "排版会议 %s 失败", m.ID)
	}

	doc := &Document{
		Result:       result,
		Filename:     Filename(m.Organization.Name, m.Title, m.DateTime, job.generatedAt, c.cfg.Location),
		Participants: roster,
		ActionItems:  job.actions,
		PageCount:    len(result.Pages),
	}
	log.Debug("报告排版完成",
		zap.Int("pages", doc.PageCount),
		zap.Int("participants", len(roster)),
		zap.Int("action_items", len(job.actions)))
	return doc, nil
}

// composeJob 保存单次构建的中间状态。
type composeJob struct {
	*Composer
	in          meeting.Input
	min         *meeting.Minutes
	roster      []meeting.ParticipantRow
	actions     []meeting.ActionItem
	generatedAt time.Time
	log         *zap.Logger

	flow  *layout.PageFlow
	sec   *layout.SectionRenderer
	width float64
}

func (j *composeJob) run(ctx context.Context) (*layout.Result, error) {
	j.flow = layout.NewPageFlow(ctx, j.cfg.PageSize, layout.UniformMargin(j.cfg.Margin))
	if j.confidential() {
		wm := j.watermark()
		j.flow.OnNewPage(func(_ int, p *layout.Page) {
			stamp := wm
			p.Watermark = &stamp
		})
	}
	j.sec = layout.NewSectionRenderer(j.flow, layout.NewTextMetrics(j.ts, j.res), j.log)
	j.sec.ParagraphLimit = j.cfg.ParagraphLimit
	j.width = j.flow.ContentWidth()

	steps := []func() error{
		j.identity,
		j.titleBand,
		j.details,
		j.participants,
		j.actionItems,
		j.summary,
		j.rawNotes,
		j.decisions,
		j.documentDetails,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return &layout.Result{
		Pages:     j.flow.Pages(),
		Resources: j.res,
		Meta:      j.meta(),
	}, nil
}

func (j *composeJob) confidential() bool {
	return j.in.Meeting.Visibility == meeting.VisibilityPrivate || j.min.IsSensitive
}

func (j *composeJob) watermark() layout.Watermark {
	size := j.cfg.PageSize
	return layout.Watermark{
		Text:     j.cfg.WatermarkText,
		Font:     layout.FontBold,
		FontSize: layout.Pt(42),
		Color:    layout.MustColor("#cbd5e1"),
		Opacity:  0.35,
		Angle:    30,
		CX:       size.Width / 2,
		CY:       size.Height / 2,
	}
}

// w 把参考宽度下的 pt 值换算为当前内容宽度下的 mm。
func (j *composeJob) w(pt float64) float64 {
	return j.width * pt / referenceWidthPt
}

var (
	labelFill   = layout.MustColor("#f8fafc")
	gridStroke  = layout.MustColor("#cbd5e1")
	frameStroke = layout.MustColor("#94a3b8")
	white       = layout.MustColor("#ffffff")
	inkColor    = layout.MustColor("#111827")
	brandColor  = layout.MustColor("#0f8fb2")
	brandFill   = layout.MustColor("#f1f5f9")
	titleFill   = layout.MustColor("#9ca3af")
)

func gridCell(text string, width float64) layout.Cell {
	return layout.Cell{
		Text:      text,
		Width:     width,
		PadX:      layout.Pt(5),
		PadY:      layout.Pt(4),
		FontSize:  layout.Pt(9.2),
		Fill:      white.Ptr(),
		Stroke:    gridStroke,
		TextColor: inkColor,
	}
}

func labelCell(text string, width float64) layout.Cell {
	c := gridCell(text, width)
	c.Bold = true
	c.Fill = labelFill.Ptr()
	return c
}

// pair 生成 "标签 | 值 | 标签 | 值" 四列明细行。
func (j *composeJob) pair(l1, v1, l2, v2 string) []layout.Cell {
	label := j.w(95)
	half := j.width / 2
	return []layout.Cell{
		labelCell(l1, label),
		gridCell(orDash(v1), half-label),
		labelCell(l2, label),
		gridCell(orDash(v2), j.width-half-label),
	}
}

// wide 生成 "标签 | 跨列值" 两列明细行。
func (j *composeJob) wide(label, value string, minHeight float64) []layout.Cell {
	l := labelCell(label, j.w(95))
	v := gridCell(orDash(value), j.width-j.w(95))
	l.MinHeight, v.MinHeight = minHeight, minHeight
	return []layout.Cell{l, v}
}

func (j *composeJob) identity() error {
	brand := j.w(70)
	mom := j.w(95)
	head := func(text string, width float64) layout.Cell {
		return layout.Cell{
			Text:      text,
			Width:     width,
			MinHeight: layout.Pt(28),
			PadX:      layout.Pt(5),
			PadY:      layout.Pt(4),
			Bold:      true,
			FontSize:  layout.Pt(10),
			Align:     "center",
			Fill:      white.Ptr(),
			Stroke:    frameStroke,
			TextColor: inkColor,
		}
	}
	mark := head(j.cfg.BrandMark, brand)
	mark.FontSize = layout.Pt(14)
	mark.Fill = brandFill.Ptr()
	mark.TextColor = brandColor
	org := firstNonEmpty(j.in.Meeting.Organization.Name, "Organization")
	return j.sec.Row([]layout.Cell{
		mark,
		head(org, j.width-brand-mom),
		head("MOM", mom),
	})
}

func (j *composeJob) titleBand() error {
	return j.sec.Row([]layout.Cell{{
		Text:      j.title(),
		Width:     j.width,
		MinHeight: layout.Pt(28),
		PadX:      layout.Pt(5),
		PadY:      layout.Pt(4),
		Bold:      true,
		FontSize:  layout.Pt(11),
		Align:     "center",
		Fill:      titleFill.Ptr(),
		Stroke:    frameStroke,
		TextColor: white,
	}})
}

// title 用模板渲染标题，数据为输入的 JSON 形态（meeting.* 与 minutes.*）。
func (j *composeJob) title() string {
	data, err := binding.Fields(j.in)
	if err != nil {
		// 输入无法转换时退回默认模板，只提供会议标题
		j.log.Warn("标题模板数据转换失败", zap.Error(err))
		return binding.Interpolate(DefaultTitleTemplate, map[string]any{
			"meeting": map[string]any{"title": j.in.Meeting.Title},
		})
	}
	if missing := j.titleTpl.Missing(data); len(missing) > 0 {
		j.log.Debug("标题模板存在未解析字段", zap.Strings("fields", missing))
	}
	return j.titleTpl.Execute(data)
}

func (j *composeJob) details() error {
	m := j.in.Meeting
	at := m.DateTime.In(j.cfg.Location)
	rows := [][]layout.Cell{
		j.pair("Organization", m.Organization.Name, "Department", m.Organization.Category),
		j.pair("Meeting Title", m.Title, "Visibility", strings.ReplaceAll(string(m.Visibility), "_", " ")),
		j.pair("Date", at.Format(dateLayout), "Time", at.Format(timeLayout)),
		j.pair("Organizer", m.Creator.Name, "Recorder", "AI Generated"),
		j.pair("Generated On", j.stamp(j.min.UpdatedAt), "Sensitive", yesNo(j.min.IsSensitive)),
	}
	if strings.TrimSpace(m.Description) != "" {
		rows = append(rows, j.wide("Agenda / Purpose", m.Description, layout.Pt(30)))
	}
	if err := j.sec.Grid("", rows); err != nil {
		return err
	}
	j.sec.Gap(layout.Pt(16))
	return nil
}

func (j *composeJob) participants() error {
	rows := make([][]string, len(j.roster))
	for i, p := range j.roster {
		rows[i] = []string{strconv.Itoa(i + 1), p.Name, p.Email, p.Role, p.Remarks}
	}
	no, name, email, role := j.w(36), j.w(150), j.w(150), j.w(80)
	return j.sec.Table(layout.Table{
		Title:     "Participants",
		Allowance: layout.Pt(90) - layout.Pt(22),
		Columns: []layout.Column{
			{Label: "No.", Width: no},
			{Label: "Name", Width: name},
			{Label: "Email", Width: email},
			{Label: "Role", Width: role},
			{Label: "Remarks", Width: j.width - no - name - email - role},
		},
		Rows:  rows,
		Empty: []string{"-", "No participants found."},
	})
}

func (j *composeJob) actionItems() error {
	rows := make([][]string, len(j.actions))
	for i, a := range j.actions {
		rows[i] = []string{a.Task, a.Owner, a.Due}
	}
	task := j.width * 0.46
	owner := j.width * 0.24
	j.sec.Gap(layout.Pt(8))
	return j.sec.Table(layout.Table{
		Title:     "Action Items",
		Allowance: layout.Pt(110) - layout.Pt(22),
		Columns: []layout.Column{
			{Label: "Task", Width: task},
			{Label: "Owner", Width: owner},
			{Label: "Due Date", Width: j.width - task - owner},
		},
		Rows:  rows,
		Empty: []string{"No action items captured.", "-", "-"},
	})
}

func (j *composeJob) summary() error {
	j.sec.Gap(layout.Pt(6))
	body := j.min.MOM
	if strings.TrimSpace(body) == "" {
		body = "No summary available."
	}
	return j.sec.Paragraph("Meeting Summary", body)
}

func (j *composeJob) rawNotes() error {
	if strings.TrimSpace(j.in.Meeting.Notes) == "" {
		return nil
	}
	j.sec.Gap(layout.Pt(4))
	return j.sec.Paragraph("Meeting Notes (Raw Input)", j.in.Meeting.Notes)
}

func (j *composeJob) decisions() error {
	rows := make([][]string, 0, len(j.min.Decisions))
	for _, d := range j.min.Decisions {
		if strings.TrimSpace(d) == "" {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), d})
	}
	num := j.w(44)
	j.sec.Gap(layout.Pt(6))
	return j.sec.Table(layout.Table{
		Title:     "Decisions",
		Allowance: layout.Pt(90) - layout.Pt(22),
		Columns: []layout.Column{
			{Label: "#", Width: num},
			{Label: "Decision", Width: j.width - num},
		},
		Rows:  rows,
		Empty: []string{"-", "No decisions captured."},
	})
}

func (j *composeJob) documentDetails() error {
	tags := strings.Join(j.min.Tags, ", ")
	reason := firstNonEmpty(j.min.SensitivityReason, "None")
	j.sec.Gap(layout.Pt(8))
	return j.sec.Grid("Document Details", [][]layout.Cell{
		j.pair("Document No", DocumentNumber(j.in.Meeting.ID, j.min.ID), "Issue Date", j.generatedAt.In(j.cfg.Location).Format(dateLayout)),
		j.pair("Revision", "1.0", "Tags", tags),
		j.wide("Sensitivity Reason", reason, layout.Pt(28)),
	})
}

func (j *composeJob) meta() layout.DocumentMeta {
	m := j.in.Meeting
	return layout.DocumentMeta{
		Title:    "Minutes of Meeting - " + m.Title,
		Author:   firstNonEmpty(m.Creator.Name, m.Organization.Name),
		Subject:  firstNonEmpty(m.Description, m.Title),
		Creator:  "momreport",
		Keywords: append([]string(nil), j.min.Tags...),
	}
}

func (j *composeJob) stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(j.cfg.Location).Format(dateLayout + " " + timeLayout)
}

// DocumentNumber 返回 MOM-<会议 id 前 8 位>-<纪要 id 前 8 位>。
func DocumentNumber(meetingID, minutesID string) string {
	return "MOM-" + prefix(meetingID, 8) + "-" + prefix(minutesID, 8)
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func requesterID(who *meeting.Requester) string {
	if who == nil {
		return ""
	}
	return firstNonEmpty(who.ID, who.Email)
}
