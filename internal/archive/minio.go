// Package archive keeps a copy of documents in object storage at the moment
// they are deleted, so an accidental delete_file is recoverable out of band.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/xytext/xytext/internal/config"
)

// Archiver writes document snapshots to a MinIO/S3 bucket.
type Archiver struct {
	client *minio.Client
	bucket string
}

// New creates an archiver and ensures the bucket exists. Returns an error
// when the endpoint is not configured.
func New(cfg config.ArchiveConfig) (*Archiver, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &Archiver{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		// tolerate a bucket that already exists
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

// Store uploads the final content of a document under a timestamped key.
func (a *Archiver) Store(ctx context.Context, path, content string) error {
	key := fmt.Sprintf("%s@%d.md", strings.TrimPrefix(path, "/"), time.Now().UnixMilli())
	r := strings.NewReader(content)
	_, err := a.client.PutObject(ctx, a.bucket, key, r, int64(len(content)), minio.PutObjectOptions{ContentType: "text/markdown"})
	if err != nil {
		return fmt.Errorf("archive put %s: %w", key, err)
	}
	return nil
}
