package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/campus-records-api/internal/models"
)

func TestSubjectRepositoryCreateAndList(t *testing.T) {
	repo := NewSubjectRepository(newTestStore(t))
	ctx := context.Background()

	subject := &models.Subject{Name: "Algebra", TeacherIdentifier: "t-1"}
	require.NoError(t, repo.Create(ctx, subject))
	assert.NotEmpty(t, subject.ID)
	assert.NotNil(t, subject.Schedules)

	require.NoError(t, repo.Create(ctx, &models.Subject{Name: "Biology", TeacherIdentifier: "t-2"}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.List(ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Algebra", mine[0].Name)
}

func TestSubjectRepositoryReplaceIsFull(t *testing.T) {
	repo := NewSubjectRepository(newTestStore(t))
	ctx := context.Background()

	subject := &models.Subject{
		Name:              "Algebra",
		TeacherIdentifier: "t-1",
		Schedules:         []models.Schedule{{Day: "Mon", Start: "08:00", End: "09:00"}},
	}
	require.NoError(t, repo.Create(ctx, subject))

	// Replacing without schedules clears them; id and creation time survive.
	replacement := &models.Subject{Name: "Algebra II", TeacherIdentifier: "t-1"}
	require.NoError(t, repo.Replace(ctx, subject.ID, replacement))

	stored, err := repo.FindByID(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", stored.Name)
	assert.Empty(t, stored.Schedules)
	assert.Equal(t, subject.CreatedAt, stored.CreatedAt)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt) || stored.UpdatedAt.Equal(stored.CreatedAt))
}

func TestSubjectRepositoryReplaceUnknownID(t *testing.T) {
	repo := NewSubjectRepository(newTestStore(t))

	err := repo.Replace(context.Background(), "ghost", &models.Subject{Name: "X", TeacherIdentifier: "t-1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubjectRepositoryDelete(t *testing.T) {
	repo := NewSubjectRepository(newTestStore(t))
	ctx := context.Background()

	subject := &models.Subject{Name: "Algebra", TeacherIdentifier: "t-1"}
	require.NoError(t, repo.Create(ctx, subject))

	removed, err := repo.Delete(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", removed.Name)

	_, err = repo.FindByID(ctx, subject.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Delete(ctx, subject.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
