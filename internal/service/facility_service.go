package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/repository"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
)

type facilityRepository interface {
	ListLabs(ctx context.Context) ([]models.Lab, error)
	CreateLab(ctx context.Context, name string, capacity int) (*models.Lab, error)
	DeleteLab(ctx context.Context, id string) (*models.Lab, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, name string, capacity int) (*models.Room, error)
	DeleteRoom(ctx context.Context, id string) (*models.Room, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
}

// FacilityRequest holds the payload for creating a lab or room.
type FacilityRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Actor    string `json:"actor"`
}

// FacilityService handles labs, rooms and the library catalog.
type FacilityService struct {
	repo      facilityRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacilityService constructs the facility service.
func NewFacilityService(repo facilityRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *FacilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacilityService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// ListLabs returns the laboratories.
func (s *FacilityService) ListLabs(ctx context.Context) ([]models.Lab, error) {
	labs, err := s.repo.ListLabs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list labs")
	}
	return labs, nil
}

// CreateLab registers a new laboratory with capacity workstations.
func (s *FacilityService) CreateLab(ctx context.Context, req FacilityRequest) (*models.Lab, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lab payload")
	}
	lab, err := s.repo.CreateLab(ctx, req.Name, req.Capacity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lab")
	}
	s.recordAudit(ctx, models.AuditActionLabCreated, req.Actor, map[string]any{
		"lab_id":   lab.ID,
		"lab_name": lab.Name,
	})
	return lab, nil
}

// DeleteLab removes a laboratory.
func (s *FacilityService) DeleteLab(ctx context.Context, id, actor string) error {
	removed, err := s.repo.DeleteLab(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "lab not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lab")
	}
	s.recordAudit(ctx, models.AuditActionLabDeleted, actor, map[string]any{
		"lab_id":   removed.ID,
		"lab_name": removed.Name,
	})
	return nil
}

// ListRooms returns the classrooms.
func (s *FacilityService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// CreateRoom registers a new classroom.
func (s *FacilityService) CreateRoom(ctx context.Context, req FacilityRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room, err := s.repo.CreateRoom(ctx, req.Name, req.Capacity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	s.recordAudit(ctx, models.AuditActionRoomCreated, req.Actor, map[string]any{
		"room_id":   room.ID,
		"room_name": room.Name,
	})
	return room, nil
}

// DeleteRoom removes a classroom.
func (s *FacilityService) DeleteRoom(ctx context.Context, id, actor string) error {
	removed, err := s.repo.DeleteRoom(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	s.recordAudit(ctx, models.AuditActionRoomDeleted, actor, map[string]any{
		"room_id":   removed.ID,
		"room_name": removed.Name,
	})
	return nil
}

// ListBooks returns the library catalog.
func (s *FacilityService) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}
	return books, nil
}

func (s *FacilityService) recordAudit(ctx context.Context, action, actor string, details map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, actor, details); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
