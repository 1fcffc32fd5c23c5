package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mptourism/paryatan/internal/config"
)

// mediaPrefix is the key prefix for all uploaded media objects.
const mediaPrefix = "media/"

// thumbnailMaxDim is the bounding box (pixels) for generated thumbnails.
const thumbnailMaxDim = 480

// contentTypeExtensions maps accepted MIME types to object key extensions.
var contentTypeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/mpeg":      ".mpg",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// MinioStore implements BlobStore backed by a MinIO (S3-compatible) bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO, ensures the media bucket exists with a
// public read policy, and returns the store.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}

		// Public read-only policy: media files are served directly from the
		// bucket by the delivery layer.
		publicPolicy := `{
			"Version": "2012-10-17",
			"Statement": [
				{
					"Action": ["s3:GetObject"],
					"Effect": "Allow",
					"Principal": "*",
					"Resource": "arn:aws:s3:::` + cfg.Bucket + `/*"
				}
			]
		}`
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, publicPolicy); err != nil {
			return nil, fmt.Errorf("setting bucket policy: %w", err)
		}
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload stores the file bytes under a UUID key and, for images, generates
// and stores a JPEG thumbnail alongside it. Thumbnail failures are logged
// and skipped: the upload itself still succeeds.
func (s *MinioStore) Upload(ctx context.Context, data []byte, contentType string) (*Object, error) {
	ext, ok := contentTypeExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	id := uuid.NewString()
	key := mediaPrefix + id + ext

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("putting object %q: %w", key, err)
	}

	obj := &Object{
		URL: s.objectURL(key),
		Key: key,
	}

	if strings.HasPrefix(contentType, "image/") {
		thumbKey := mediaPrefix + id + "_thumb.jpg"
		thumbData, err := makeThumbnail(data, thumbnailMaxDim)
		if err != nil {
			slog.Warn("thumbnail generation failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
			return obj, nil
		}

		_, err = s.client.PutObject(ctx, s.bucket, thumbKey, bytes.NewReader(thumbData),
			int64(len(thumbData)), minio.PutObjectOptions{ContentType: "image/jpeg"})
		if err != nil {
			slog.Warn("thumbnail upload failed",
				slog.String("key", thumbKey),
				slog.Any("error", err),
			)
			return obj, nil
		}
		obj.ThumbnailURL = s.objectURL(thumbKey)
	}

	return obj, nil
}

// UploadFromURL registers an externally hosted file without re-hosting it.
// Only the URL shape is checked; availability of the remote file is the
// uploader's responsibility.
func (s *MinioStore) UploadFromURL(ctx context.Context, rawURL string) (*Object, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid source URL %q", rawURL)
	}
	return &Object{URL: rawURL}, nil
}

// Remove deletes an object from the bucket. Used when a media record is
// deleted by an admin. Missing objects are not an error.
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("removing object %q: %w", key, err)
	}
	return nil
}

// objectURL builds the public URL for an object key.
func (s *MinioStore) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}
