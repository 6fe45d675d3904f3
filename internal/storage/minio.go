package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rasuta1125/banasukoAI/internal/config"
)

// Uploader persists banner images and returns a URL usable in vision prompts
// and diagnosis records.
type Uploader interface {
	Upload(ctx context.Context, uid, filename string, data []byte, contentType string) (string, error)
}

type minioUploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewUploader(cfg config.StorageConfig) (Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &minioUploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
	}, nil
}

// publicReadPolicy grants anonymous download on the banner images, so the
// URLs handed back to clients and stored in diagnosis records work without
// signing.
func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/users/*"]}]}`, bucket)
}

// EnsureBucket creates the bucket if it does not exist yet and applies the
// anonymous-read policy. Called once at startup; reapplying the policy on an
// existing bucket is a no-op.
func EnsureBucket(ctx context.Context, up Uploader) error {
	m, ok := up.(*minioUploader)
	if !ok {
		return nil
	}
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
	}
	if err := m.client.SetBucketPolicy(ctx, m.bucket, publicReadPolicy(m.bucket)); err != nil {
		return fmt.Errorf("setting bucket policy: %w", err)
	}
	return nil
}

// Upload writes the image under users/{uid}/diagnoses_images/ and returns its
// public URL.
func (m *minioUploader) Upload(ctx context.Context, uid, filename string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("users/%s/diagnoses_images/%s", uid, filename)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", objectName, err)
	}

	return fmt.Sprintf("%s/%s/%s", m.publicBaseURL, m.bucket, objectName), nil
}
