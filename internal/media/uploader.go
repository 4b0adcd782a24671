package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/aws"
	"github.com/optbazar/storefront-api/internal/logger"
)

// MaxUploadSize is the largest accepted image, in bytes.
const MaxUploadSize = 5 << 20

// Uploader puts an object into the public bucket and returns its public URL.
type Uploader interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// S3Uploader writes to an S3-compatible bucket (Supabase Storage in
// production). Objects are served from publicURL/<key>.
type S3Uploader struct {
	client    aws.S3API
	bucket    string
	publicURL string
}

func NewS3Uploader(client aws.S3API, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (u *S3Uploader) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	size := int64(len(data))
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &u.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: &size,
		ContentType:   &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.publicURL + "/" + key, nil
}

// Service turns an uploaded file into a stored object.
type Service struct {
	uploader Uploader
	nowFunc  func() time.Time
}

func NewService(uploader Uploader) *Service {
	return &Service{uploader: uploader, nowFunc: time.Now}
}

// Save stores data under a key derived from filename and returns the public
// URL. The content type is sniffed from the bytes and recorded as object
// metadata only; the file is not checked to be an image.
func (s *Service) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := ObjectKey(s.nowFunc(), filename)
	contentType := mimetype.Detect(data).String()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SaveImage"),
		zap.String("key", key),
	)

	url, err := s.uploader.Put(ctx, key, contentType, data)
	if err != nil {
		log.Error("failed to upload image", zap.Error(err))
		return "", err
	}

	log.Info("image uploaded", zap.String("content_type", contentType), zap.Int("size", len(data)))
	return url, nil
}
