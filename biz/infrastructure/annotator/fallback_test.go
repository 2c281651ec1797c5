package annotator

import (
	"context"
	"errors"
	"homework-wall/biz/infrastructure/repository/homework"
	"testing"
	"time"
)

type stubAnnotator struct {
	result *homework.Annotation
	err    error
	delay  time.Duration
	calls  int
}

func (s *stubAnnotator) Annotate(ctx context.Context, _ []byte, _ string) (*homework.Annotation, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.result, s.err
}

var testFallback = homework.Annotation{Subject: "general", Summary: "submitted file", Comment: "received"}

func TestResolveSuccess(t *testing.T) {
	want := homework.Annotation{Subject: "Art", Summary: "a drawing", Comment: "nice"}
	r := WithFallback(&stubAnnotator{result: &want}, testFallback, time.Second)
	if got := r.Resolve(context.Background(), []byte("img"), "image/png"); got != want {
		t.Fatalf("Resolve: want=%+v got=%+v", want, got)
	}
}

func TestResolveFallsBackOnError(t *testing.T) {
	r := WithFallback(&stubAnnotator{err: errors.New("boom")}, testFallback, time.Second)
	if got := r.Resolve(context.Background(), []byte("img"), "image/png"); got != testFallback {
		t.Fatalf("Resolve: want fallback got=%+v", got)
	}
}

func TestResolveFallsBackOnTimeout(t *testing.T) {
	stub := &stubAnnotator{result: &homework.Annotation{Subject: "late"}, delay: time.Second}
	r := WithFallback(stub, testFallback, 20*time.Millisecond)

	start := time.Now()
	got := r.Resolve(context.Background(), []byte("img"), "image/png")
	if got != testFallback {
		t.Fatalf("Resolve: want fallback got=%+v", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("Resolve: timeout not applied, took %s", time.Since(start))
	}
}

func TestResolveSkipsNonImage(t *testing.T) {
	stub := &stubAnnotator{result: &homework.Annotation{Subject: "x"}}
	r := WithFallback(stub, testFallback, time.Second)
	if got := r.Resolve(context.Background(), []byte("%PDF"), "application/pdf"); got != testFallback {
		t.Fatalf("Resolve: want fallback got=%+v", got)
	}
	if stub.calls != 0 {
		t.Fatalf("Resolve: annotator called for non-image, calls=%d", stub.calls)
	}
}
