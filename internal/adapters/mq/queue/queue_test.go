package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

func job(id string) model.ImportJob {
	return model.ImportJob{ID: id, Collection: "Benchmark MD", Source: id + ".json", Format: model.FormatJSON}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != "job1" {
		t.Errorf("expected job1, got %v", got.ID)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("a")) || !q.Enqueue(ctx, job("b")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job("c")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CloseDrains(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		q.Enqueue(ctx, job(fmt.Sprintf("j%d", i)))
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, job("late")) {
		t.Error("expected enqueue to fail after close")
	}

	var ids []string
	for j := range q.Dequeue(ctx) {
		ids = append(ids, j.ID)
	}
	if len(ids) != 3 || ids[0] != "j0" || ids[2] != "j2" {
		t.Errorf("expected queued jobs in order, got %v", ids)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, job("x")) {
		t.Error("expected enqueue to fail on a cancelled context")
	}
	if _, ok := <-q.Dequeue(ctx); ok {
		t.Error("expected dequeue channel to close on a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Enqueue(ctx, job(fmt.Sprintf("p%d-%d", id, j)))
			}
		}(i)
	}
	wg.Wait()
	_ = q.Close()

	n := 0
	for range q.Dequeue(ctx) {
		n++
	}
	if n != 500 {
		t.Errorf("expected 500 jobs, got %d", n)
	}
}
