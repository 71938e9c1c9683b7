package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastReadiness = readiness{attempts: 3, backoff: time.Millisecond, maxBackoff: 2 * time.Millisecond, timeout: time.Second}

func TestReadinessWait_RetriesUntilReady(t *testing.T) {
	calls := 0
	err := fastReadiness.wait("mariadb", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 pings, got %d", calls)
	}
}

func TestReadinessWait_GivesUp(t *testing.T) {
	refused := errors.New("connection refused")
	calls := 0
	err := fastReadiness.wait("redis", func(ctx context.Context) error {
		calls++
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected each ping to carry a deadline")
		}
		return refused
	})
	if !errors.Is(err, refused) {
		t.Errorf("expected last ping error wrapped, got %v", err)
	}
	if calls != fastReadiness.attempts {
		t.Errorf("expected %d pings, got %d", fastReadiness.attempts, calls)
	}
}
