package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ByLCY/momreport/layout"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageSize != "A4" || cfg.ParagraphLimit != 1400 || cfg.Workers != 4 || cfg.WatermarkText != "CONFIDENTIAL" {
		t.Fatalf("默认值错误: %+v", cfg)
	}
	if cfg.UsesObjectStorage() {
		t.Fatalf("未配置 endpoint 时不应使用对象存储")
	}
	rc, err := cfg.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if math.Abs(rc.Margin-layout.Pt(50)) > 1e-9 || rc.PageSize.Name != "A4" || rc.Location != time.UTC {
		t.Fatalf("report config = %+v", rc)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MOM_PAGE_SIZE", "letter")
	t.Setenv("MOM_MARGIN_PT", "18mm")
	t.Setenv("MOM_WORKERS", "0")
	t.Setenv("MOM_TIMEZONE", "Asia/Shanghai")
	t.Setenv("MOM_STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("MOM_STORAGE_USE_SSL", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 1 {
		t.Fatalf("workers 应至少为 1: %d", cfg.Workers)
	}
	if !cfg.UsesObjectStorage() || !cfg.Storage.UseSSL || cfg.Storage.Bucket != "meeting-minutes" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	rc, err := cfg.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rc.PageSize.Name != "LETTER" || math.Abs(rc.Margin-18) > 1e-9 || rc.Location.String() != "Asia/Shanghai" {
		t.Fatalf("report config = %+v", rc)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("MOM_BRAND_MARK=ACME\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOM_BRAND_MARK", "")
	os.Unsetenv("MOM_BRAND_MARK")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BrandMark != "ACME" {
		t.Fatalf("brand mark = %q", cfg.BrandMark)
	}
}

func TestReportRejectsInvalid(t *testing.T) {
	cases := []Config{
		{PageSize: "B7", Margin: "50", Timezone: "UTC"},
		{PageSize: "A4", Margin: "wide", Timezone: "UTC"},
		{PageSize: "A5", Margin: "80mm", Timezone: "UTC"},
		{PageSize: "A4", Margin: "50", Timezone: "Mars/Olympus"},
	}
	for _, c := range cases {
		if _, err := c.Report(); err == nil {
			t.Fatalf("应拒绝 %+v", c)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := Config{LogLevel: "debug", LogFormat: format}
		log, err := cfg.NewLogger()
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !log.Core().Enabled(-1) {
			t.Fatalf("%s: debug 级别应启用", format)
		}
	}
	if _, err := (&Config{LogLevel: "info", LogFormat: "xml"}).NewLogger(); err == nil {
		t.Fatalf("应拒绝未知格式")
	}
	if _, err := (&Config{LogLevel: "loud", LogFormat: "json"}).NewLogger(); err == nil {
		t.Fatalf("应拒绝未知级别")
	}
}
