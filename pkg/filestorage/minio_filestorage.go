package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PublicBase string
}

type MinioFileStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	now        func() time.Time
	logger     *zap.Logger
}

// NewMinioFileStorage connects and creates the bucket when it is missing.
func NewMinioFileStorage(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioFileStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("created storage bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioFileStorage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicBase,
		now:        time.Now,
		logger:     logger,
	}, nil
}

func (s *MinioFileStorage) Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (string, error) {
	key := objectKey(s.now(), originalFileName, prefix)

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, file, -1, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Debug("uploaded object", zap.String("key", key), zap.Int64("size", info.Size))

	return path.Join(s.publicBase, key), nil
}

func (s *MinioFileStorage) Delete(ctx context.Context, filePath string) error {
	key, err := relativeKey(s.publicBase, filePath)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
