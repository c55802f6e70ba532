package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"dsa-mentor-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestProgressStoreAppendsAndIgnoresReplays(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewProgressStore(newClient(mr))
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	for _, rec := range []domain.ProgressRecord{
		{Topic: "Arrays", Status: domain.StatusNotStarted, RecordedAt: at},
		domain.CompletedRecord("s1", "Arrays", 75, at),
		domain.CompletedRecord("s1", "Arrays", 75, at),
	} {
		if err := store.Record(ctx, "learner-1", rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	history, err := store.History(ctx, "learner-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[1].Score == nil || *history[1].Score != 75 || !history[1].RecordedAt.Equal(at) {
		t.Fatalf("unexpected record %+v", history[1])
	}
	if history[0].Score != nil {
		t.Fatalf("not started record must not carry a score")
	}
}

var errConnLost = errors.New("i/o timeout")

// dropOnce fails the next script call, either before it reaches the server
// or after the server ran it and the reply was lost.
type dropOnce struct {
	afterExec bool
	armed     bool
}

func (h *dropOnce) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *dropOnce) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *dropOnce) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if !h.armed || (cmd.Name() != "evalsha" && cmd.Name() != "eval") {
			return next(ctx, cmd)
		}
		if h.afterExec {
			if err := next(ctx, cmd); err != nil {
				return err
			}
		}
		h.armed = false
		cmd.SetErr(errConnLost)
		return errConnLost
	}
}

func TestProgressStoreRetryAfterConnectionLoss(t *testing.T) {
	for _, tc := range []struct {
		name      string
		afterExec bool
	}{
		{name: "before write", afterExec: false},
		{name: "reply lost", afterExec: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("run miniredis: %v", err)
			}
			defer mr.Close()

			ctx := context.Background()
			client := newClient(mr)
			hook := &dropOnce{afterExec: tc.afterExec, armed: true}
			client.AddHook(hook)
			store := NewProgressStore(client)
			rec := domain.CompletedRecord("s1", "Arrays", 75, time.Now())

			if err := store.Record(ctx, "learner-1", rec); !errors.Is(err, errConnLost) {
				t.Fatalf("expected connection error, got %v", err)
			}
			if err := store.Record(ctx, "learner-1", rec); err != nil {
				t.Fatalf("retry: %v", err)
			}

			history, err := store.History(ctx, "learner-1")
			if err != nil {
				t.Fatalf("history: %v", err)
			}
			if len(history) != 1 || history[0].AttemptID != "s1" {
				t.Fatalf("expected exactly one stored record, got %+v", history)
			}
		})
	}
}
