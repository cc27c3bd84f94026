package services

import (
	"context"
	"fmt"
	"path"
	"time"

	appconfig "pereval-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLTTL = 5 * time.Minute

// UploadService issues pre-signed S3 PUT URLs for pass photos. Clients
// upload directly to the bucket and reference the returned public URL as
// image_url in their submission.
type UploadService struct {
	s3Client *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewUploadService creates an upload service from the AWS config section.
// Static credentials take precedence over the default chain when set, which
// is how S3-compatible storage (non-AWS endpoints) is configured.
func NewUploadService(ctx context.Context, cfg appconfig.AWSConfig) (*UploadService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &UploadService{
		s3Client: s3Client,
		bucket:   cfg.S3Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// UploadURLResponse carries the pre-signed PUT URL and the public URL the
// object will have once uploaded.
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload generates a pre-signed URL for uploading one photo.
func (s *UploadService) PresignUpload(ctx context.Context, filename, contentType string) (*UploadURLResponse, error) {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("passes/%s%s", uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadURLResponse{
		UploadURL: request.URL,
		ImageURL:  s.publicURL(key),
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

func (s *UploadService) publicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
