package storage

import (
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

func TestGCSPublicURL(t *testing.T) {
	cases := []struct {
		name  string
		store GCSStore
		want  string
	}{
		{"default", GCSStore{bucket: "b"}, "https://storage.googleapis.com/b/homeworks/x.png"},
		{"public base", GCSStore{bucket: "b", publicBaseURL: "https://cdn.test"}, "https://cdn.test/b/homeworks/x.png"},
		{"emulator", GCSStore{bucket: "b", emulatorHost: "http://localhost:4443"}, "http://localhost:4443/storage/v1/b/b/o/homeworks%2Fx.png?alt=media"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.store.PublicURL("homeworks/x.png"); got != c.want {
				t.Fatalf("PublicURL: want=%q got=%q", c.want, got)
			}
		})
	}
}

func TestGCSPublicURLEscapesKey(t *testing.T) {
	store := GCSStore{bucket: "b"}
	got := store.PublicURL("homeworks/1700000000000_abc_数学 作业.png")
	want := "https://storage.googleapis.com/b/homeworks/1700000000000_abc_%E6%95%B0%E5%AD%A6%20%E4%BD%9C%E4%B8%9A.png"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}
	if _, err := url.Parse(got); err != nil {
		t.Fatalf("PublicURL not a valid url: %v", err)
	}
}

func TestClassifyGCSError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"bucket missing", fmt.Errorf("attrs: %w", storage.ErrBucketNotExist), consts.ErrNotProvisioned},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, consts.ErrPermissionDenied},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, consts.ErrPermissionDenied},
		{"server error", &googleapi.Error{Code: http.StatusBadGateway}, consts.ErrStoreUnavailable},
		{"network", errors.New("dial tcp: i/o timeout"), consts.ErrStoreUnavailable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classifyGCSError(c.err); !errors.Is(got, c.want) {
				t.Fatalf("classifyGCSError: want=%v got=%v", c.want, got)
			}
		})
	}
}

func TestGCSReachabilityAgainstEmulator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	}))
	defer srv.Close()
	t.Setenv("STORAGE_EMULATOR_HOST", "")

	store, err := NewGCSStore(context.Background(), GCSOptions{Bucket: "b", EmulatorHost: srv.URL})
	if err != nil {
		t.Fatalf("NewGCSStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.TestReachability(context.Background()); !errors.Is(err, consts.ErrPermissionDenied) {
		t.Fatalf("TestReachability: want ErrPermissionDenied got=%v", err)
	}
}

func TestGCSEmulatorDoesNotLeakIntoLaterStores(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"b"}`))
	}))
	defer srv.Close()
	t.Setenv("STORAGE_EMULATOR_HOST", "")

	emulated, err := NewGCSStore(context.Background(), GCSOptions{Bucket: "b", EmulatorHost: srv.URL})
	if err != nil {
		t.Fatalf("NewGCSStore emulator: %v", err)
	}
	if err := emulated.TestReachability(context.Background()); err != nil {
		t.Fatalf("TestReachability emulator: %v", err)
	}
	if hits.Load() == 0 {
		t.Fatalf("emulator store did not reach the emulator")
	}
	_ = emulated.Close()

	credentialed, err := NewGCSStore(context.Background(), GCSOptions{Bucket: "real-bucket", APIKey: "AIzaX"})
	if err != nil {
		t.Fatalf("NewGCSStore api key: %v", err)
	}
	defer func() { _ = credentialed.Close() }()
	if got := os.Getenv("STORAGE_EMULATOR_HOST"); got != "" {
		t.Fatalf("STORAGE_EMULATOR_HOST after reconfigure: want empty got=%q", got)
	}
	if credentialed.emulatorHost != "" {
		t.Fatalf("credentialed store kept emulator host %q", credentialed.emulatorHost)
	}
	if got := credentialed.PublicURL("homeworks/x.png"); got != "https://storage.googleapis.com/real-bucket/homeworks/x.png" {
		t.Fatalf("PublicURL: got=%q", got)
	}
}
