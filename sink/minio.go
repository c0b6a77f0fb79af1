package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

// MinIOConfig 描述 S3 兼容存储的连接参数。
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	UseSSL          bool
	MaxElapsed      time.Duration // 上传重试的总时长，0 表示 30s
}

// objectStore 是 MinIO 客户端中用到的部分。
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIO 把报告上传到对象存储。PDF 先完整渲染到内存，渲染失败时不会上传任何内容；
// 上传失败按指数退避重试。
type MinIO struct {
	client     objectStore
	bucket     string
	prefix     string
	maxElapsed time.Duration
	log        *zap.Logger
}

// NewMinIO 连接存储并确保 bucket 存在。
func NewMinIO(ctx context.Context, cfg MinIOConfig, log *zap.Logger) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	m := newMinIO(client, cfg, log)
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func newMinIO(client objectStore, cfg MinIOConfig, log *zap.Logger) *MinIO {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = 30 * time.Second
	}
	return &MinIO{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		maxElapsed: cfg.MaxElapsed,
		log:        log,
	}
}

func (m *MinIO) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查 bucket 失败: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("创建 bucket 失败: %w", err)
	}
	m.log.Info("已创建 bucket", zap.String("bucket", m.bucket))
	return nil
}

// ObjectName 返回报告在 bucket 中的对象名。
func (m *MinIO) ObjectName(name string) string {
	if m.prefix == "" {
		return path.Base(name)
	}
	return path.Join(m.prefix, path.Base(name))
}

func (m *MinIO) Store(ctx context.Context, name string, write func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}
	object := m.ObjectName(name)
	body := buf.Bytes()

	attempt := 0
	upload := func() error {
		attempt++
		_, err := m.client.PutObject(ctx, m.bucket, object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
			ContentType: pdfContentType,
		})
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		m.log.Warn("上传报告失败，准备重试",
			zap.String("object", object),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = m.maxElapsed
	if err := backoff.Retry(upload, backoff.WithContext(bo, ctx)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("上传 %s 失败: %w", object, err)
	}
	m.log.Debug("报告已上传",
		zap.String("bucket", m.bucket),
		zap.String("object", object),
		zap.Int("bytes", len(body)))
	return fmt.Sprintf("s3://%s/%s", m.bucket, object), nil
}
