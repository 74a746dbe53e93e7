package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/milsabores/pasteleria-backend/pkg/logger"
)

const defaultCartTTLHours = 72

type cartExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// StaleCartJobParams configure the stale-cart expiry job.
type StaleCartJobParams struct {
	Logger   *logger.Logger
	Carts    cartExpirer
	TTLHours int
}

type staleCartJob struct {
	logg  *logger.Logger
	carts cartExpirer
	ttl   time.Duration
	now   func() time.Time
}

// NewStaleCartJob builds the job that expires abandoned active carts. An
// expired cart simply stops being resumable; the customer gets a fresh cart
// on their next visit.
func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	ttl := params.TTLHours
	if ttl <= 0 {
		ttl = defaultCartTTLHours
	}
	return &staleCartJob{
		logg:  params.Logger,
		carts: params.Carts,
		ttl:   time.Duration(ttl) * time.Hour,
		now:   time.Now,
	}, nil
}

func (j *staleCartJob) Name() string { return "stale-cart-expiry" }

func (j *staleCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	expired, err := j.carts.ExpireStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expire stale carts: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"ttl_hours":    int(j.ttl.Hours()),
		"rows_expired": expired,
	})
	j.logg.Info(logCtx, "stale cart expiry complete")
	return nil
}
