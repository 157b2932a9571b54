package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/career-leader/internal/adapter/repo/postgres"
)

func TestCleanupService_CleanupOldData_OK(t *testing.T) {
	pool := &poolStub{execTag: pgconn.NewCommandTag("DELETE 3")}
	svc := postgres.NewCleanupService(pool, 1)
	n, err := svc.CleanupOldData(context.Background())
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 deleted rows, got %d", n)
	}
	cutoff, ok := pool.lastArgs[0].(time.Time)
	if !ok || !cutoff.Before(time.Now().Add(-23*time.Hour)) {
		t.Errorf("Expected cutoff about a day ago, got %v", pool.lastArgs[0])
	}
}

func TestCleanupService_DefaultRetention(t *testing.T) {
	svc := postgres.NewCleanupService(&poolStub{}, 0)
	if svc.RetentionDays != 90 {
		t.Errorf("Expected default retention 90, got %d", svc.RetentionDays)
	}
}

func TestCleanupService_ExecError(t *testing.T) {
	svc := postgres.NewCleanupService(&poolStub{execErr: errors.New("boom")}, 1)
	if _, err := svc.CleanupOldData(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCleanupService_RunPeriodic_ImmediateCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := postgres.NewCleanupService(&poolStub{}, 1)
	done := make(chan struct{})
	go func() {
		svc.RunPeriodic(ctx, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunPeriodic did not stop after cancel")
	}
}
