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

type subjectRepository interface {
	List(ctx context.Context, teacherIdentifier string) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Replace(ctx context.Context, id string, subject *models.Subject) error
	Delete(ctx context.Context, id string) (*models.Subject, error)
}

// ScheduleInput is one weekly slot in a subject payload.
type ScheduleInput struct {
	Day   string `json:"day" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// SubjectRequest holds the payload for creating or replacing a subject.
// Updates are full replacements: omitted schedules clear the existing ones.
type SubjectRequest struct {
	Name              string          `json:"name" validate:"required"`
	TeacherIdentifier string          `json:"teacher_identifier" validate:"required"`
	Schedules         []ScheduleInput `json:"schedules" validate:"dive"`
}

// SubjectService handles the subject catalog use-cases.
type SubjectService struct {
	repo      subjectRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns subjects, optionally restricted to one teacher.
func (s *SubjectService) List(ctx context.Context, teacherIdentifier string) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, teacherIdentifier)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Create registers a new subject owned by the teacher in the payload.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{
		Name:              req.Name,
		TeacherIdentifier: req.TeacherIdentifier,
		Schedules:         toSchedules(req.Schedules),
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.recordAudit(ctx, models.AuditActionSubjectCreated, req.TeacherIdentifier, map[string]any{
		"subject_id":   subject.ID,
		"subject_name": subject.Name,
	})
	return subject, nil
}

// Update replaces the subject in full with the incoming payload.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{
		Name:              req.Name,
		TeacherIdentifier: req.TeacherIdentifier,
		Schedules:         toSchedules(req.Schedules),
	}
	if err := s.repo.Replace(ctx, id, subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	s.recordAudit(ctx, models.AuditActionSubjectUpdated, req.TeacherIdentifier, map[string]any{
		"subject_id":   subject.ID,
		"subject_name": subject.Name,
	})
	return subject, nil
}

// Delete removes a subject. Enrollments pointing at it are left in place and
// keep their denormalized names.
func (s *SubjectService) Delete(ctx context.Context, id, actor string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	if actor == "" {
		actor = removed.TeacherIdentifier
	}
	s.recordAudit(ctx, models.AuditActionSubjectDeleted, actor, map[string]any{
		"subject_id":   removed.ID,
		"subject_name": removed.Name,
	})
	return nil
}

func (s *SubjectService) recordAudit(ctx context.Context, action, actor string, details map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, actor, details); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func toSchedules(inputs []ScheduleInput) []models.Schedule {
	schedules := make([]models.Schedule, len(inputs))
	for i, in := range inputs {
		schedules[i] = models.Schedule{Day: in.Day, Start: in.Start, End: in.End}
	}
	return schedules
}
