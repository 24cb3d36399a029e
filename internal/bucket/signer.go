// Package bucket signs bundle downloads against an S3-compatible object
// store (Cloudflare R2 in production).
package bucket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SignedObject is one presigned download.
type SignedObject struct {
	URL  string
	Size int64
}

// Signer is the storage collaborator contract consumed by the bundle
// resolver.
type Signer interface {
	// SignGet returns a presigned GET URL valid for ttl, plus the object
	// size in bytes (0 when unknown).
	SignGet(ctx context.Context, path string, ttl time.Duration) (*SignedObject, error)
	// Exists reports whether an object is present.
	Exists(ctx context.Context, path string) (bool, error)
}

// Config locates the bucket.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

type s3Signer struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds a Signer over the S3 API.
func New(ctx context.Context, cfg Config) (Signer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// R2 does not support virtual-hosted-style addressing.
		o.UsePathStyle = true
	})

	return &s3Signer{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

func (s *s3Signer) SignGet(ctx context.Context, path string, ttl time.Duration) (*SignedObject, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("head object %s: %w", path, err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("presign object %s: %w", path, err)
	}

	var size int64
	if head.ContentLength != nil {
		size = *head.ContentLength
	}
	return &SignedObject{URL: req.URL, Size: size}, nil
}

func (s *s3Signer) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var notFound interface{ ErrorCode() string }
		if errors.As(err, &notFound) && (notFound.ErrorCode() == "NotFound" || notFound.ErrorCode() == "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("head object %s: %w", path, err)
	}
	return true, nil
}
