package assets

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/spec-kit/denuncia-service/internal/config"
)

// Store hosts evidence images and returns their public URL. Tests substitute
// a fake.
type Store interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

type s3Store struct {
	uploader *manager.Uploader
	bucket   string
	region   string
	prefix   string
}

// NewS3Store builds the production store from the assets configuration.
func NewS3Store(ctx context.Context, cfg config.AssetsConfig) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("ASSETS_S3_BUCKET is required")
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg)
	return &s3Store{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		prefix:   cfg.KeyPrefix,
	}, nil
}

// Upload stores the object under a random key and returns the public URL.
func (s *s3Store) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := path.Join(s.prefix, uuid.NewString()+path.Ext(fileName))
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(key)), nil
}
