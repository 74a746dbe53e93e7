package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/milsabores/pasteleria-backend/pkg/enums"
	"github.com/milsabores/pasteleria-backend/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  birth_date DATETIME,
  benefit_tag TEXT,
  registration_code TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersDDL).Error)
	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS users")
	})
	return db
}

func seedUser(t *testing.T, repo *Repository, email string, mutate func(*CreateUserDTO)) uuid.UUID {
	t.Helper()

	dto := CreateUserDTO{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ana",
		LastName:     "Rojas",
	}
	if mutate != nil {
		mutate(&dto)
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	require.NoError(t, repo.db.Create(user).Error)
	return user.ID
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "Ana.Rojas@DuocUC.cl", nil)

	user, err := repo.FindByEmail(ctx, "ana.rojas@duocuc.cl")
	require.NoError(t, err)
	assert.Equal(t, "Ana.Rojas@DuocUC.cl", user.Email)

	user, err = repo.FindByEmail(ctx, "  ANA.ROJAS@DUOCUC.CL ")
	require.NoError(t, err)
	assert.Equal(t, "Ana.Rojas@DuocUC.cl", user.Email)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id := seedUser(t, repo, "tomas@x.com", func(dto *CreateUserDTO) {
		phone := "+56911111111"
		dto.Phone = &phone
	})

	newName := "Tomás"
	inactive := false
	updated, err := repo.Update(ctx, id, UpdateUserDTO{
		FirstName: &newName,
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomás", updated.FirstName)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+56911111111", *updated.Phone)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		user := CreateUserDTO{
			Email:        uuid.NewString() + "@x.com",
			PasswordHash: "hash",
			FirstName:    "U",
			LastName:     "V",
		}.ToModel()
		user.ID = uuid.New()
		user.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.db.Create(user).Error)
	}

	first, next, err := repo.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotEmpty(t, next)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))

	rest, next, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Empty(t, next)
}

func TestProfileSourceMapsUserFields(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	birth := time.Date(1970, time.June, 15, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "rosa@duocuc.cl", func(dto *CreateUserDTO) {
		tag := "50%"
		code := "FELICES50"
		dto.BirthDate = &birth
		dto.BenefitTag = &tag
		dto.RegistrationCode = &code
	})

	source, err := NewProfileSource(repo)
	require.NoError(t, err)

	profile, err := source.FindProfile(ctx, "ROSA@duocuc.cl")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "50%", profile.BenefitTag)
	assert.Equal(t, "FELICES50", profile.RegistrationCode)
	require.NotNil(t, profile.BirthDate)
	assert.Equal(t, birth, profile.BirthDate.UTC())

	profile, err = source.FindProfile(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileSourceSkipsDeactivatedUsers(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id := seedUser(t, repo, "off@x.com", func(dto *CreateUserDTO) {
		dto.Role = enums.MemberRoleCustomer
	})
	require.NoError(t, repo.Deactivate(ctx, id))

	source, err := NewProfileSource(repo)
	require.NoError(t, err)

	profile, err := source.FindProfile(ctx, "off@x.com")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
