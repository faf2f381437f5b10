package filestorage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"inventory-system/pkg/config"
)

// s3API - используемая часть *s3.Client.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3FileStorage struct {
	client    s3API
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3FileStorage(ctx context.Context, cfg config.S3Config, publicURL string) (*S3FileStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию S3: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3FileStorage(client, cfg.Bucket, publicURL), nil
}

func newS3FileStorage(client s3API, bucket, publicURL string) *S3FileStorage {
	return &S3FileStorage{client: client, bucket: bucket, publicURL: publicURL, now: time.Now}
}

func (s *S3FileStorage) Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (string, error) {
	key := objectKey(s.now(), originalFileName, prefix)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("не удалось загрузить объект %s: %w", key, err)
	}
	return key, nil
}

func (s *S3FileStorage) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("не удалось удалить объект %s: %w", ref, err)
	}
	return nil
}

func (s *S3FileStorage) URL(ref string) string {
	if s.publicURL == "" {
		return "s3://" + s.bucket + "/" + ref
	}
	return strings.TrimSuffix(s.publicURL, "/") + "/" + ref
}
