package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/milsabores/pasteleria-backend/pkg/errors"
	"github.com/milsabores/pasteleria-backend/pkg/pagination"
)

func TestServiceUpdateParsesBirthDate(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	id := seedUser(t, repo, "cliente@example.com", nil)

	birth := "1960-05-20"
	updated, err := svc.Update(ctx, id, UpdateUserRequest{BirthDate: &birth})
	require.NoError(t, err)
	require.NotNil(t, updated.BirthDate)
	assert.Equal(t, birth, *updated.BirthDate)

	bad := "20-05-1960"
	_, err = svc.Update(ctx, id, UpdateUserRequest{BirthDate: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceGetAndDeactivate(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	id := seedUser(t, repo, "baja@example.com", nil)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	require.NoError(t, svc.Deactivate(ctx, id))

	got, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = svc.Deactivate(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListReturnsPage(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		seedUser(t, repo, email, nil)
	}

	page, err := svc.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.NotEmpty(t, page.NextCursor)
}
