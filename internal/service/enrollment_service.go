package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/repository"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Transition(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type userFinder interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// Decision actions accepted by Decide.
const (
	DecisionApprove = "approve"
	DecisionDecline = "decline"
)

// EnrollmentRequest holds the payload for a student's enrollment request.
type EnrollmentRequest struct {
	StudentIdentifier string `json:"student_identifier" validate:"required"`
	SubjectID         string `json:"subject_id" validate:"required"`
}

// DecisionRequest holds the payload for deciding a pending enrollment.
type DecisionRequest struct {
	Action string `json:"action" validate:"required"`
	Actor  string `json:"actor"`
}

// EnrollmentService handles the enrollment request workflow.
type EnrollmentService struct {
	repo      enrollmentRepository
	subjects  subjectFinder
	users     userFinder
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, subjects subjectFinder, users userFinder, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		subjects:  subjects,
		users:     users,
		audit:     audit,
		validator: validate,
		logger:    logger,
	}
}

// Request creates a Pending enrollment for the student and subject. Student
// and teacher display names are captured at request time; lookup failures
// fall back to placeholders rather than rejecting the request.
func (s *EnrollmentService) Request(ctx context.Context, req EnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	enrollment := &models.Enrollment{
		StudentIdentifier: req.StudentIdentifier,
		StudentName:       s.displayName(ctx, req.StudentIdentifier, "Unknown Student"),
		SubjectID:         subject.ID,
		SubjectName:       subject.Name,
		TeacherIdentifier: subject.TeacherIdentifier,
		TeacherName:       s.displayName(ctx, subject.TeacherIdentifier, "Unknown Teacher"),
		Status:            models.EnrollmentStatusPending,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrActiveEnrollment) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an active enrollment for this subject already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.recordAudit(ctx, models.AuditActionEnrollmentRequest, req.StudentIdentifier, map[string]any{
		"enrollment_id": enrollment.ID,
		"subject_id":    subject.ID,
		"subject_name":  subject.Name,
	})
	return enrollment, nil
}

// Decide approves or declines a pending enrollment. Both outcomes are
// terminal; deciding an already-decided enrollment is a state conflict.
func (s *EnrollmentService) Decide(ctx context.Context, id string, req DecisionRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	var status models.EnrollmentStatus
	var action string
	switch strings.ToLower(req.Action) {
	case DecisionApprove:
		status = models.EnrollmentStatusApproved
		action = models.AuditActionEnrollmentApproved
	case DecisionDecline:
		status = models.EnrollmentStatusDeclined
		action = models.AuditActionEnrollmentDeclined
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be approve or decline")
	}

	updated, err := s.repo.Transition(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		case errors.Is(err, repository.ErrNotPending):
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "enrollment is not in pending state")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
		}
	}
	actor := req.Actor
	if actor == "" {
		actor = updated.TeacherIdentifier
	}
	s.recordAudit(ctx, action, actor, map[string]any{
		"enrollment_id":      updated.ID,
		"student_identifier": updated.StudentIdentifier,
		"subject_name":       updated.SubjectName,
	})
	return updated, nil
}

// List returns enrollments matching the filter, each joined with the owning
// subject's current schedules. A deleted subject yields an empty slice.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	details := make([]models.EnrollmentDetail, len(enrollments))
	for i, enrollment := range enrollments {
		schedules := []models.Schedule{}
		if subject, err := s.subjects.FindByID(ctx, enrollment.SubjectID); err == nil && subject.Schedules != nil {
			schedules = subject.Schedules
		}
		details[i] = models.EnrollmentDetail{Enrollment: enrollment, Schedules: schedules}
	}
	return details, nil
}

func (s *EnrollmentService) displayName(ctx context.Context, identifier, fallback string) string {
	if s.users == nil {
		return fallback
	}
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return fallback
	}
	return user.Name
}

func (s *EnrollmentService) recordAudit(ctx context.Context, action, actor string, details map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, actor, details); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
