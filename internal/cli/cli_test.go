package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/momreport/meeting"
	"github.com/ByLCY/momreport/report"
)

const boardReviewJSON = `{
  "meeting": {
    "id": "6f1c2d3e-aaaa-bbbb-cccc-000000000001",
    "title": "Board Review",
    "visibility": "PRIVATE",
    "dateTime": "2026-02-19T10:00:00Z",
    "notes": "Participants: Jane Doe (ADMIN), John Smith\nDecisions:\n- Approve budget\n\nAction Items:\n- Send report | Owner: Jane | Due: Friday",
    "organization": {"name": "Acme", "category": "Finance"},
    "creator": {"id": "u1", "name": "Maya Chen", "email": "maya@acme.test", "role": "HEAD"}
  },
  "minutes": {
    "id": "9a8b7c6d-0000-1111-2222-333333333333",
    "mom": "Summary",
    "decisions": [],
    "actionItems": ["Finalize budget"],
    "tags": ["Finance"],
    "updatedAt": "2026-02-19T12:00:00Z"
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MOM_STORAGE_ENDPOINT", "")
	t.Setenv("MOM_LOG_LEVEL", "error")
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommandWritesPDF(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "board.json", boardReviewJSON)
	outDir := filepath.Join(dir, "out")
	debugDir := filepath.Join(dir, "debug")

	stdout, err := runCLI(t, "render", input, "--out", outDir, "--debug", debugDir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	path := strings.TrimSpace(stdout)
	if !strings.HasPrefix(filepath.Base(path), "mom_acme_board_review_20260219_") {
		t.Fatalf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("PDF 输出无效: %v", err)
	}
	if _, err := os.Stat(filepath.Join(debugDir, filepath.Base(path)+".json")); err != nil {
		t.Fatalf("缺少调试 JSON: %v", err)
	}
}

func TestRenderCommandForbidden(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "board.json", boardReviewJSON)
	outDir := filepath.Join(dir, "out")
	_, err := runCLI(t, "render", input, "--out", outDir, "--as-user", "u-stranger")
	if !errors.Is(err, report.ErrForbidden) {
		t.Fatalf("err = %v", err)
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Fatalf("拒绝访问时不应写文件")
	}
}

func TestRenderCommandInvalidInput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "bad.json", `{"meeting": {"title": ""}}`)
	_, err := runCLI(t, "render", input, "--out", dir)
	if report.CodeOf(err) != report.CodeInvalidInput {
		t.Fatalf("err = %v", err)
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	inputs := filepath.Join(dir, "in")
	if err := os.Mkdir(inputs, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, inputs, "a.json", boardReviewJSON)
	writeFile(t, inputs, "b.json", strings.Replace(boardReviewJSON, "Board Review", "Budget Sync", 1))
	writeFile(t, inputs, "c.json", strings.Replace(boardReviewJSON, `"minutes"`, `"ignored"`, 1))
	writeFile(t, inputs, "notes.txt", "not an input")
	outDir := filepath.Join(dir, "out")

	stdout, err := runCLI(t, "batch", inputs, "--out", outDir, "--workers", "2")
	if err == nil {
		t.Fatalf("缺少纪要的输入应导致批量失败")
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("输出行数 = %d: %q", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[0], "OK\t") || !strings.HasPrefix(lines[1], "OK\t") {
		t.Fatalf("前两份应成功: %q", stdout)
	}
	if !strings.HasPrefix(lines[2], "FAIL\t") || !strings.Contains(lines[2], string(report.CodeNotGenerated)) {
		t.Fatalf("第三份应报告 NOT_GENERATED: %q", lines[2])
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 2 {
		t.Fatalf("输出文件数 = %d", len(entries))
	}
}

func TestMinutesCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "board.json", strings.Replace(boardReviewJSON, `"minutes"`, `"ignored"`, 1))
	stdout, err := runCLI(t, "minutes", input, "--merge")
	if err != nil {
		t.Fatalf("minutes: %v", err)
	}
	var in meeting.Input
	if err := json.Unmarshal([]byte(stdout), &in); err != nil {
		t.Fatalf("输出不是合法 JSON: %v", err)
	}
	if in.Minutes == nil || in.Minutes.ID == "" {
		t.Fatalf("缺少纪要: %s", stdout)
	}
	if len(in.Minutes.Decisions) != 1 || in.Minutes.Decisions[0] != "Approve budget" {
		t.Fatalf("decisions = %v", in.Minutes.Decisions)
	}
	items := meeting.NormalizeActionItems(in.Minutes.ActionItems)
	if len(items) != 1 || items[0].Owner != "Jane" || items[0].Due != "Friday" {
		t.Fatalf("action items = %+v", items)
	}

	existing := writeFile(t, dir, "existing.json", boardReviewJSON)
	if _, err := runCLI(t, "minutes", existing); err == nil {
		t.Fatalf("已有纪要时应要求 --force")
	}
}

func TestFilenameCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "board.json", boardReviewJSON)
	stdout, err := runCLI(t, "filename", input, "--timezone", "UTC")
	if err != nil {
		t.Fatalf("filename: %v", err)
	}
	name := strings.TrimSpace(stdout)
	if !strings.HasPrefix(name, "mom_acme_board_review_20260219_") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("name = %s", name)
	}
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "b.JSON", "{}")
	writeFile(t, dir, "c.txt", "")
	got, err := collectInputs([]string{dir, a})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{a, filepath.Join(dir, "b.JSON")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := collectInputs([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("不存在的路径应报错")
	}
}
