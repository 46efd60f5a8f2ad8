package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"medcare/config"
)

type S3Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func NewS3Storage(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("created storage bucket", zap.String("bucket", cfg.Bucket))
	}

	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: BaseURL(cfg),
		logger:  logger,
	}, nil
}

// BaseURL is the prefix every stored object URL starts with.
func BaseURL(cfg config.S3Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

func (s *S3Storage) UploadImage(ctx context.Context, folder string, data []byte, filename string) (string, error) {
	contentType, ext, err := detectImage(data, filename)
	if err != nil {
		return "", err
	}

	objectName := path.Join(folder, uuid.New().String()+ext)

	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.baseURL + "/" + objectName, nil
}

func (s *S3Storage) DeleteFile(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	objectName, err := objectNameFromURL(s.baseURL, fileURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}

	return nil
}

func detectImage(data []byte, filename string) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrNotAnImage
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".bin"
		}
	}

	return contentType, ext, nil
}

func objectNameFromURL(baseURL, fileURL string) (string, error) {
	prefix := baseURL + "/"
	if !strings.HasPrefix(fileURL, prefix) || len(fileURL) == len(prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignFile, fileURL)
	}
	return strings.TrimPrefix(fileURL, prefix), nil
}
