package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milsabores/pasteleria-backend/pkg/enums"
	pkgerrors "github.com/milsabores/pasteleria-backend/pkg/errors"
)

func TestCancelForUserOnlyWhilePending(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	userID := uuid.New()
	pending := seedOrder(t, repo, userID, 1000, enums.OrderStatusPending, time.Now().UTC())
	preparing := seedOrder(t, repo, userID, 1001, enums.OrderStatusPreparing, time.Now().UTC())

	cancelled, err := svc.CancelForUser(ctx, userID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = svc.CancelForUser(ctx, userID, preparing.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCancelForUserHidesForeignOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	owner := uuid.New()
	order := seedOrder(t, repo, owner, 1000, enums.OrderStatusPending, time.Now().UTC())

	_, err = svc.CancelForUser(ctx, uuid.New(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.GetForUser(ctx, uuid.New(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAdminAdvanceStatusEnforcesTransitions(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), 1000, enums.OrderStatusPending, time.Now().UTC())

	// pending cannot jump straight to delivered
	_, err = svc.AdminAdvanceStatus(ctx, order.ID, enums.OrderStatusDelivered)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	for _, step := range []enums.OrderStatus{
		enums.OrderStatusPaid,
		enums.OrderStatusPreparing,
		enums.OrderStatusDelivered,
	} {
		dto, err := svc.AdminAdvanceStatus(ctx, order.ID, step)
		require.NoError(t, err)
		assert.Equal(t, step, dto.Status)
	}

	// delivered is terminal
	_, err = svc.AdminAdvanceStatus(ctx, order.ID, enums.OrderStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}
