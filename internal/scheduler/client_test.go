package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestBatchRunPayloadRoundTrip(t *testing.T) {
	requested := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	task, err := NewBatchRunTask(BatchRunPayload{RequestedBy: "api", RequestedAt: requested})
	if err != nil {
		t.Fatalf("NewBatchRunTask: %v", err)
	}
	if task.Type() != TaskClaimsBatchRun {
		t.Fatalf("task type = %q", task.Type())
	}

	payload, err := ParseBatchRunPayload(task)
	if err != nil {
		t.Fatalf("ParseBatchRunPayload: %v", err)
	}
	if payload.RequestedBy != "api" || !payload.RequestedAt.Equal(requested) {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestEnqueueBatchRun(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient("redis://"+srv.Addr(), "claims")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	payload := BatchRunPayload{RequestedBy: "test", RequestedAt: time.Now()}
	if err := client.EnqueueBatchRun(context.Background(), payload, 0); err != nil {
		t.Fatalf("EnqueueBatchRun: %v", err)
	}

	if len(srv.Keys()) == 0 {
		t.Fatalf("nothing was written to redis")
	}
}

func TestEnqueueBatchRunUniqueWindow(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient("redis://"+srv.Addr(), "claims")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	payload := BatchRunPayload{RequestedBy: "test"}
	if err := client.EnqueueBatchRun(context.Background(), payload, time.Minute); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	err = client.EnqueueBatchRun(context.Background(), payload, time.Minute)
	if !errors.Is(err, asynq.ErrDuplicateTask) {
		t.Fatalf("second enqueue err = %v, want duplicate task", err)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient("", "claims"); err == nil {
		t.Fatalf("expected an error without a redis url")
	}
}
