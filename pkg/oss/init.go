package oss

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reelhub.com/config"
)

var (
	minioClient *minio.Client
	settings    Settings
)

// Settings 上传相关配置
type Settings struct {
	VideoBucket string
	ImageBucket string
	PublicURL   string
}

// InitMinio 初始化MinIO客户端并确保存储桶存在, 未配置 endpoint 时跳过
func InitMinio(ctx context.Context) error {
	cfg := config.ConfigInfo.Minio
	if cfg.Endpoint == "" {
		hlog.Warn("minio endpoint not configured, upload authorization disabled")
		return nil
	}
	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", cfg.Endpoint, cfg.AccessKey)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		hlog.Errorf("Failed to create MinIO client: %v", err)
		return err
	}

	s := Settings{
		VideoBucket: cfg.VideoBucket,
		ImageBucket: cfg.ImageBucket,
		PublicURL:   cfg.PublicURL,
	}
	if s.PublicURL == "" {
		s.PublicURL = client.EndpointURL().String()
	}
	for _, bucket := range []string{s.VideoBucket, s.ImageBucket} {
		if err := ensureBucket(ctx, client, bucket); err != nil {
			return err
		}
	}

	minioClient = client
	settings = s
	hlog.Info("Connect Minio Success")
	return nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: "us-east-1"})
}

// Enabled reports whether InitMinio connected a client.
func Enabled() bool {
	return minioClient != nil
}
