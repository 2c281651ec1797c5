package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCSOptions EmulatorHost 非空时走本地模拟器，不做鉴权
type GCSOptions struct {
	Bucket          string
	CredentialsJSON string
	APIKey          string
	EmulatorHost    string
	PublicBaseURL   string
}

type GCSStore struct {
	client        *storage.Client
	bucket        string
	emulatorHost  string
	publicBaseURL string
}

func NewGCSStore(ctx context.Context, opts GCSOptions) (*GCSStore, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("%w: storageBucket is required", consts.ErrInvalidConfig)
	}
	emulatorHost := strings.TrimRight(strings.TrimSpace(opts.EmulatorHost), "/")

	var clientOpts []option.ClientOption
	switch {
	case emulatorHost != "":
		clientOpts = append(clientOpts, option.WithEndpoint(emulatorHost+"/storage/v1/"), option.WithoutAuthentication())
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	clientOpts = append(clientOpts, option.WithScopes(storage.ScopeReadWrite))

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create storage client: %w", consts.ErrStoreUnavailable, err)
	}
	log.Info("GCS blob store initialized, bucket: %s, emulator: %s", opts.Bucket, emulatorHost)
	return &GCSStore{
		client:        client,
		bucket:        opts.Bucket,
		emulatorHost:  emulatorHost,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *GCSStore) TestReachability(ctx context.Context) error {
	if _, err := s.client.Bucket(s.bucket).Attrs(ctx); err != nil {
		return classifyGCSError(err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// PublicURL 文件的公开访问地址
func (s *GCSStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.emulatorHost != "" && s.publicBaseURL == "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", s.emulatorHost, url.PathEscape(s.bucket), url.PathEscape(key))
	}
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, url.PathEscape(s.bucket), escapeKey(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", url.PathEscape(s.bucket), escapeKey(key))
}

// escapeKey 逐段转义，保留路径分隔符
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func classifyGCSError(err error) error {
	if errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %w", consts.ErrNotProvisioned, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", consts.ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", consts.ErrNotProvisioned, err)
		}
	}
	return fmt.Errorf("%w: %w", consts.ErrStoreUnavailable, err)
}
