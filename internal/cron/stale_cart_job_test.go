package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/milsabores/pasteleria-backend/pkg/logger"
)

type fakeCartExpirer struct {
	lastCutoff time.Time
	expired    int64
	err        error
	called     int
}

func (f *fakeCartExpirer) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}

func newStaleCartJob(t *testing.T, carts *fakeCartExpirer, ttlHours int) *staleCartJob {
	t.Helper()
	jobIface, err := NewStaleCartJob(StaleCartJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Carts:    carts,
		TTLHours: ttlHours,
	})
	if err != nil {
		t.Fatalf("NewStaleCartJob: %v", err)
	}
	job, ok := jobIface.(*staleCartJob)
	if !ok {
		t.Fatalf("expected staleCartJob, got %T", jobIface)
	}
	return job
}

func TestStaleCartJobUsesConfiguredTTL(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	carts := &fakeCartExpirer{expired: 7}
	job := newStaleCartJob(t, carts, 48)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.Add(-48 * time.Hour)
	if !carts.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, carts.lastCutoff)
	}
	if carts.called != 1 {
		t.Fatalf("expected one call, got %d", carts.called)
	}
}

func TestStaleCartJobDefaultsTTL(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	carts := &fakeCartExpirer{}
	job := newStaleCartJob(t, carts, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := carts.lastCutoff; !got.Equal(now.Add(-defaultCartTTLHours * time.Hour)) {
		t.Fatalf("unexpected cutoff %s", got)
	}
}

func TestStaleCartJobPropagatesErrors(t *testing.T) {
	carts := &fakeCartExpirer{err: errors.New("boom")}
	job := newStaleCartJob(t, carts, 24)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
