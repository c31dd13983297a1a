package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	return fs
}

func TestUserRepositoryListSeedsStarterAccounts(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	identifiers := []string{users[0].Identifier, users[1].Identifier}
	assert.Contains(t, identifiers, "admin")
	assert.Contains(t, identifiers, "library")
}

func TestUserRepositoryFindByIdentifier(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	admin, err := repo.FindByIdentifier(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "admin123", admin.Password)

	// The match is exact, no case folding on the handle.
	_, err = repo.FindByIdentifier(ctx, "Admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryCreate(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	user := &models.User{Identifier: "t-100", Name: "New Teacher", Password: "pw", Role: models.RoleTeacher}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.FindByIdentifier(ctx, "t-100")
	require.NoError(t, err)
	assert.Equal(t, "New Teacher", found.Name)
}

func TestUserRepositoryCreateDuplicateIdentifier(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	err := repo.Create(ctx, &models.User{Identifier: "admin", Name: "Impostor", Password: "x", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)

	// A rejected registration must not grow the collection.
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
