package checkout

import (
	"context"
	"fmt"
	"io"

	"github.com/jmcastillo/karinderia/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReceiptSaver stores one payment receipt image and returns its URL.
type ReceiptSaver interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// ReceiptStore keeps GCash receipts in an S3-compatible object store.
type ReceiptStore struct {
	client *minio.Client
	cfg    config.Receipt
}

func NewReceiptStore(cfg config.Receipt) (*ReceiptStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("building receipt store client: %w", err)
	}

	return &ReceiptStore{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the receipt bucket when it does not exist yet.
func (s *ReceiptStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("checking receipt bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating receipt bucket: %w", err)
	}
	return nil
}

func (s *ReceiptStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, s.cfg.Bucket, name, r, size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("storing receipt[%s]: %w", name, err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, name), nil
}
