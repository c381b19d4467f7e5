package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures an S3Store. Endpoint is set for S3-compatible services
// such as MinIO, which are then addressed path-style. Images named in
// Defaults are never uploaded and resolve against DefaultsBaseURL instead.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	DefaultsBaseURL string
	Defaults        []string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to an S3 bucket.
type S3Store struct {
	client  objectPutter
	bucket  string
	baseURL string

	defaultsBaseURL string
	defaults        map[string]bool
}

// NewS3Store builds an S3 client from cfg. Static credentials are used when
// an access key is given; otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg), nil
}

func newS3Store(client objectPutter, cfg S3Config) *S3Store {
	defaults := make(map[string]bool, len(cfg.Defaults))
	for _, name := range cfg.Defaults {
		defaults[name] = true
	}
	return &S3Store{
		client:          client,
		bucket:          cfg.Bucket,
		baseURL:         objectBaseURL(cfg),
		defaultsBaseURL: strings.TrimSuffix(cfg.DefaultsBaseURL, "/"),
		defaults:        defaults,
	}
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to bucket %s: %w", name, s.bucket, err)
	}
	return nil
}

func (s *S3Store) URL(name string) string {
	if s.defaults[name] && s.defaultsBaseURL != "" {
		return s.defaultsBaseURL + "/" + name
	}
	return s.baseURL + "/" + name
}

func objectBaseURL(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
