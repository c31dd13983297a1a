package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/repository"
	"github.com/campuskit/campus-records-api/internal/store"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
)

func newFacilityService(t *testing.T) (*FacilityService, *mockAudit) {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	audit := &mockAudit{}
	return NewFacilityService(repository.NewFacilityRepository(fs), audit, validator.New(), zap.NewNop()), audit
}

func TestFacilityServiceListLabsSeeded(t *testing.T) {
	svc, _ := newFacilityService(t)

	labs, err := svc.ListLabs(context.Background())
	require.NoError(t, err)
	require.Len(t, labs, 3)
	assert.Equal(t, "Super Lab", labs[0].Name)
	assert.Len(t, labs[0].PCs, 40)
	assert.Equal(t, models.PCStatusAvailable, labs[0].PCs[0].Status)
}

func TestFacilityServiceCreateAndDeleteLab(t *testing.T) {
	svc, audit := newFacilityService(t)
	ctx := context.Background()

	lab, err := svc.CreateLab(ctx, FacilityRequest{Name: "Robotics Lab", Capacity: 12, Actor: "admin"})
	require.NoError(t, err)
	assert.Len(t, lab.PCs, 12)

	require.Len(t, audit.calls, 1)
	assert.Equal(t, models.AuditActionLabCreated, audit.calls[0].action)
	assert.Equal(t, "admin", audit.calls[0].actor)

	require.NoError(t, svc.DeleteLab(ctx, lab.ID, "admin"))
	assert.Equal(t, models.AuditActionLabDeleted, audit.calls[1].action)

	labs, err := svc.ListLabs(ctx)
	require.NoError(t, err)
	assert.Len(t, labs, 3)
}

func TestFacilityServiceCreateLabValidation(t *testing.T) {
	svc, audit := newFacilityService(t)

	_, err := svc.CreateLab(context.Background(), FacilityRequest{Name: "No Capacity"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, audit.calls)
}

func TestFacilityServiceRooms(t *testing.T) {
	svc, audit := newFacilityService(t)
	ctx := context.Background()

	rooms, err := svc.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "Room 101", rooms[0].Name)

	room, err := svc.CreateRoom(ctx, FacilityRequest{Name: "Room 305", Capacity: 25, Actor: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.AuditActionRoomCreated, audit.calls[0].action)

	require.NoError(t, svc.DeleteRoom(ctx, room.ID, "admin"))
	assert.Equal(t, models.AuditActionRoomDeleted, audit.calls[1].action)
}

func TestFacilityServiceDeleteUnknownRoom(t *testing.T) {
	svc, _ := newFacilityService(t)

	err := svc.DeleteRoom(context.Background(), "ghost", "admin")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestFacilityServiceListBooksSeeded(t *testing.T) {
	svc, _ := newFacilityService(t)

	books, err := svc.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.True(t, books[0].Available)
}
