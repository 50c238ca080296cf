package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	sc "github.com/tejasharora/couture-backend/internal/server/config"
)

// Uploaded objects are publicly cacheable for a short window only, so a
// replaced image propagates quickly.
const imageCacheControl = "max-age=3600"

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	headBucket = func(c *s3.Client, ctx context.Context, in *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
		return c.HeadBucket(ctx, in)
	}
	createBucket = func(c *s3.Client, ctx context.Context, in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
		return c.CreateBucket(ctx, in)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// ImageService stores product images in an S3-compatible bucket and hands out
// public URLs.
type ImageService struct {
	config *sc.Config
	now    func() time.Time
}

// NewImageService constructs an ImageService.
func NewImageService(config *sc.Config) *ImageService {
	return &ImageService{config: config, now: time.Now}
}

func (s *ImageService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// ensureBucket checks that the configured bucket exists and creates it when
// missing. A concurrent creation losing the race ("already exists" /
// "already owned by you") counts as success.
func (s *ImageService) ensureBucket(ctx context.Context, client *s3.Client) error {
	bucket := s.config.S3Bucket

	_, err := headBucket(client, ctx, &s3.HeadBucketInput{Bucket: &bucket})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("bucket check failed: %w", err)
	}

	_, err = createBucket(client, ctx, &s3.CreateBucketInput{Bucket: &bucket})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("bucket creation failed: %w", err)
	}
	return nil
}

// UploadProductImage stores the image under a timestamped key so repeated
// uploads for the same product never overwrite each other, and returns the
// public URL of the stored object.
func (s *ImageService) UploadProductImage(ctx context.Context, productID string, filename string, data []byte) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	if err := s.ensureBucket(ctx, client); err != nil {
		return "", err
	}

	key := s.storageKey(productID, filename)
	bucket := s.config.S3Bucket

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:       &bucket,
		Key:          &key,
		Body:         bytes.NewReader(data),
		CacheControl: aws.String(imageCacheControl),
		ContentType:  aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *ImageService) storageKey(productID, filename string) string {
	return fmt.Sprintf("%s-%d%s", productID, s.now().UnixNano(), path.Ext(filename))
}

func (s *ImageService) publicURL(key string) string {
	base := strings.TrimSuffix(s.config.S3BaseEndpoint, "/")
	return base + "/" + s.config.S3Bucket + "/" + key
}
