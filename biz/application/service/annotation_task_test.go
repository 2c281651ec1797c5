package service

import (
	"context"
	"testing"
	"time"
)

func TestAnnotationTasksRejectSecondStart(t *testing.T) {
	tasks := NewAnnotationTasks()
	release := make(chan struct{})
	runs := make(chan string, 2)

	if !tasks.Start(context.Background(), "h1", func(context.Context) {
		<-release
		runs <- "first"
	}) {
		t.Fatalf("Start: first start refused")
	}
	if tasks.Start(context.Background(), "h1", func(context.Context) { runs <- "second" }) {
		t.Fatalf("Start: second start for same id accepted")
	}
	if tasks.Running() != 1 {
		t.Fatalf("Running: want=1 got=%d", tasks.Running())
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := tasks.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	close(runs)
	var got []string
	for r := range runs {
		got = append(got, r)
	}
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("runs: want [first] got=%v", got)
	}
}

func TestAnnotationTasksWaitHonorsContext(t *testing.T) {
	tasks := NewAnnotationTasks()
	block := make(chan struct{})
	defer close(block)
	tasks.Start(context.Background(), "h1", func(context.Context) { <-block })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tasks.Wait(ctx); err == nil {
		t.Fatalf("Wait: want deadline error, got nil")
	}
}
