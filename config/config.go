package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/momreport/layout"
	"github.com/ByLCY/momreport/report"
)

// Prefix 是所有环境变量的前缀，例如 MOM_PAGE_SIZE。
const Prefix = "MOM"

// Config 保存命令行工具的全部配置。
type Config struct {
	PageSize       string `envconfig:"PAGE_SIZE" default:"A4"`
	Margin         string `envconfig:"MARGIN_PT" default:"50"`
	ParagraphLimit int    `envconfig:"PARAGRAPH_LIMIT" default:"1400"`
	WatermarkText  string `envconfig:"WATERMARK_TEXT" default:"CONFIDENTIAL"`
	BrandMark      string `envconfig:"BRAND_MARK" default:"DM"`
	TitleTemplate  string `envconfig:"TITLE_TEMPLATE" default:"Minutes of Meeting - ${meeting.title}"`
	Timezone       string `envconfig:"TIMEZONE" default:"UTC"`
	OutputDir      string `envconfig:"OUTPUT_DIR" default:"output"`
	Workers        int    `envconfig:"WORKERS" default:"4"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"console"`

	Storage StorageConfig `envconfig:"STORAGE"`
}

// StorageConfig 配置 MinIO / S3 兼容的对象存储。Endpoint 为空表示写本地目录。
type StorageConfig struct {
	Endpoint        string        `envconfig:"ENDPOINT"`
	AccessKeyID     string        `envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string        `envconfig:"SECRET_ACCESS_KEY"`
	Bucket          string        `envconfig:"BUCKET" default:"meeting-minutes"`
	Prefix          string        `envconfig:"PREFIX" default:"reports"`
	UseSSL          bool          `envconfig:"USE_SSL" default:"false"`
	MaxElapsed      time.Duration `envconfig:"MAX_ELAPSED" default:"30s"`
}

// Load 先加载可选的 .env 文件（不存在时忽略），再读取 MOM_* 环境变量。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("读取环境变量失败: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}

// Report 把配置转换为 report.Config。
func (c *Config) Report() (report.Config, error) {
	size, err := layout.ResolvePageSize(c.PageSize)
	if err != nil {
		return report.Config{}, err
	}
	margin, err := layout.ParseLength(c.Margin, layout.UnitPT)
	if err != nil {
		return report.Config{}, fmt.Errorf("MARGIN_PT 无效: %w", err)
	}
	if margin.ToMM()*2 >= size.Width {
		return report.Config{}, fmt.Errorf("边距 %s 超出纸张宽度", c.Margin)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return report.Config{}, fmt.Errorf("TIMEZONE 无效: %w", err)
	}
	return report.Config{
		PageSize:       size,
		Margin:         margin.ToMM(),
		ParagraphLimit: c.ParagraphLimit,
		WatermarkText:  c.WatermarkText,
		BrandMark:      c.BrandMark,
		TitleTemplate:  c.TitleTemplate,
		Location:       loc,
	}, nil
}

// UsesObjectStorage 判断是否配置了对象存储。
func (c *Config) UsesObjectStorage() bool {
	return strings.TrimSpace(c.Storage.Endpoint) != ""
}

// NewLogger 按 LOG_LEVEL 与 LOG_FORMAT 构建 zap 日志。
// json 格式使用生产配置，其余使用开发配置（彩色控制台输出）。
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL 无效: %w", err)
	}
	var zc zap.Config
	switch strings.ToLower(c.LogFormat) {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("LOG_FORMAT 只支持 json 或 console: %s", c.LogFormat)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
