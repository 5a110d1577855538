package service

import (
	"errors"
	"testing"
	"time"
)

func TestViewCounterUsesQueueWhenEnabled(t *testing.T) {
	repo := &stubPostRepo{}
	taskQueue := &stubViewQueue{enabled: true}
	counter := NewViewCounter(repo, taskQueue, time.Second)

	counter.Record(7)
	counter.Wait()

	payloads := taskQueue.enqueued()
	if len(payloads) != 1 || payloads[0].PostID != 7 {
		t.Fatalf("expected one enqueued payload for post 7, got %+v", payloads)
	}
	if _, increments := repo.calls(); len(increments) != 0 {
		t.Fatalf("repository should not be called when queue accepts the task")
	}
}

func TestViewCounterFallsBackToDirectIncrement(t *testing.T) {
	cases := []struct {
		name  string
		queue *stubViewQueue
	}{
		{name: "no_queue", queue: nil},
		{name: "disabled", queue: &stubViewQueue{enabled: false}},
		{name: "enqueue_error", queue: &stubViewQueue{enabled: true, err: errors.New("redis down")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubPostRepo{}
			var counter *ViewCounter
			if tc.queue == nil {
				counter = NewViewCounter(repo, nil, time.Second)
			} else {
				counter = NewViewCounter(repo, tc.queue, time.Second)
			}
			counter.Record(3)
			counter.Record(3)
			counter.Wait()

			if _, increments := repo.calls(); len(increments) != 2 {
				t.Fatalf("repeated views should each increment, got %v", increments)
			}
		})
	}
}

func TestViewCounterRecordDoesNotBlock(t *testing.T) {
	repo := &stubPostRepo{incremented: make(chan uint)}
	counter := NewViewCounter(repo, nil, time.Second)

	done := make(chan struct{})
	go func() {
		counter.Record(9)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("record should return before the increment completes")
	}
	if id := <-repo.incremented; id != 9 {
		t.Fatalf("increment for post 9 expected, got %d", id)
	}
	counter.Wait()
}

func TestViewCounterIncrementSurfacesErrorToCaller(t *testing.T) {
	counter := NewViewCounter(&stubPostRepo{err: errBackendDown}, nil, 0)
	if err := counter.Increment(t.Context(), 1); !errors.Is(err, errBackendDown) {
		t.Fatalf("increment should return backend error, got %v", err)
	}
	counter.Record(1)
	counter.Wait()
}
