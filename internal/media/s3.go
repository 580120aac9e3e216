package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3PutAPI is the slice of the S3 client the store needs. Tests substitute it.
type s3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ==========================
// S3Store
// ==========================

// S3Store uploads images to an S3 (or MinIO) bucket. Each upload is a single
// PutObject round trip bounded by Timeout.
type S3Store struct {
	Client     s3PutAPI
	Bucket     string
	Region     string
	PublicBase string
	Timeout    time.Duration
}

// S3Options configures the S3 backend. AccessKey/SecretKey are used as static
// credentials; Endpoint overrides the AWS endpoint for MinIO-compatible stores.
type S3Options struct {
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	PublicBase string
	Timeout    time.Duration
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &S3Store{
		Client:     client,
		Bucket:     opts.Bucket,
		Region:     opts.Region,
		PublicBase: opts.PublicBase,
		Timeout:    timeout,
	}, nil
}

// storageKey builds a date-prefixed random object key, keeping the extension
// so content type survives.
func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("recipes/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Ext(filename))
}

func (s *S3Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	key := storageKey(filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if s.PublicBase != "" {
		return s.PublicBase + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}
