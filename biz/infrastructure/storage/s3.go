package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const defaultS3Region = "us-east-1"

// S3Options 兼容 S3 协议的对象存储，如 COS、MinIO
type S3Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type S3Store struct {
	client        *s3.S3
	bucket        string
	publicBaseURL string
}

func NewS3Store(opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" || opts.Endpoint == "" {
		return nil, fmt.Errorf("%w: storageBucket and storageEndpoint are required", consts.ErrInvalidConfig)
	}
	region := opts.Region
	if region == "" {
		region = defaultS3Region
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		Credentials:      credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create s3 session: %w", consts.ErrInvalidConfig, err)
	}
	publicBaseURL := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	if publicBaseURL == "" {
		publicBaseURL = endpoint
	}
	log.Info("S3 blob store initialized, endpoint: %s, bucket: %s", endpoint, opts.Bucket)
	return &S3Store{
		client:        s3.New(sess),
		bucket:        opts.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put s3 object %q: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete s3 object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *S3Store) TestReachability(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return classifyS3Error(err)
	}
	return nil
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, strings.TrimLeft(key, "/"))
}

func classifyS3Error(err error) error {
	var rf awserr.RequestFailure
	if errors.As(err, &rf) {
		switch rf.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", consts.ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", consts.ErrNotProvisioned, err)
		}
	}
	var ae awserr.Error
	if errors.As(err, &ae) {
		switch ae.Code() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %w", consts.ErrPermissionDenied, err)
		case s3.ErrCodeNoSuchBucket, "NotFound":
			return fmt.Errorf("%w: %w", consts.ErrNotProvisioned, err)
		}
	}
	return fmt.Errorf("%w: %w", consts.ErrStoreUnavailable, err)
}
