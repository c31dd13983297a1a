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

// enrollmentFixture wires the enrollment service against real repositories
// over a throwaway file store, with one teacher, one student and one subject.
type enrollmentFixture struct {
	svc      *EnrollmentService
	subjects *SubjectService
	audit    *mockAudit
	subject  *models.Subject
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	userRepo := repository.NewUserRepository(fs)
	subjectRepo := repository.NewSubjectRepository(fs)
	enrollmentRepo := repository.NewEnrollmentRepository(fs)
	audit := &mockAudit{}

	require.NoError(t, userRepo.Create(ctx, &models.User{
		Identifier: "t-1", Name: "Grace Hopper", Password: "pw", Role: models.RoleTeacher,
	}))
	require.NoError(t, userRepo.Create(ctx, &models.User{
		Identifier: "s-1", Name: "Alan Kay", Password: "pw", Role: models.RoleStudent,
	}))

	subject := &models.Subject{
		Name:              "Compilers",
		TeacherIdentifier: "t-1",
		Schedules:         []models.Schedule{{Day: "Tue", Start: "10:00", End: "11:30"}},
	}
	require.NoError(t, subjectRepo.Create(ctx, subject))

	validate := validator.New()
	return &enrollmentFixture{
		svc:      NewEnrollmentService(enrollmentRepo, subjectRepo, userRepo, audit, validate, zap.NewNop()),
		subjects: NewSubjectService(subjectRepo, audit, validate, zap.NewNop()),
		audit:    audit,
		subject:  subject,
	}
}

func TestEnrollmentServiceRequest(t *testing.T) {
	fx := newEnrollmentFixture(t)

	enrollment, err := fx.svc.Request(context.Background(), EnrollmentRequest{
		StudentIdentifier: "s-1",
		SubjectID:         fx.subject.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPending, enrollment.Status)
	assert.Equal(t, "Alan Kay", enrollment.StudentName)
	assert.Equal(t, "Grace Hopper", enrollment.TeacherName)
	assert.Equal(t, "Compilers", enrollment.SubjectName)

	require.Len(t, fx.audit.calls, 1)
	assert.Equal(t, models.AuditActionEnrollmentRequest, fx.audit.calls[0].action)
	assert.Equal(t, "s-1", fx.audit.calls[0].actor)
}

func TestEnrollmentServiceRequestUnknownSubject(t *testing.T) {
	fx := newEnrollmentFixture(t)

	_, err := fx.svc.Request(context.Background(), EnrollmentRequest{
		StudentIdentifier: "s-1",
		SubjectID:         "ghost",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, fx.audit.calls)
}

func TestEnrollmentServiceRequestUnknownStudentGetsPlaceholder(t *testing.T) {
	fx := newEnrollmentFixture(t)

	// The request is not rejected just because the name lookup fails.
	enrollment, err := fx.svc.Request(context.Background(), EnrollmentRequest{
		StudentIdentifier: "not-registered",
		SubjectID:         fx.subject.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Unknown Student", enrollment.StudentName)
}

func TestEnrollmentServiceDuplicateRequestConflicts(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()
	req := EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID}

	_, err := fx.svc.Request(ctx, req)
	require.NoError(t, err)

	_, err = fx.svc.Request(ctx, req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestEnrollmentServiceDeclineThenRequestAgain(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()
	req := EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID}

	first, err := fx.svc.Request(ctx, req)
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, first.ID, DecisionRequest{Action: "decline"})
	require.NoError(t, err)

	// A declined enrollment no longer blocks the pair.
	second, err := fx.svc.Request(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEnrollmentServiceDecideApprove(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()

	enrollment, err := fx.svc.Request(ctx, EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID})
	require.NoError(t, err)

	updated, err := fx.svc.Decide(ctx, enrollment.ID, DecisionRequest{Action: "approve"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, updated.Status)

	last := fx.audit.calls[len(fx.audit.calls)-1]
	assert.Equal(t, models.AuditActionEnrollmentApproved, last.action)
	// Without an explicit actor the owning teacher is credited.
	assert.Equal(t, "t-1", last.actor)
}

func TestEnrollmentServiceDecideIsTerminal(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()

	enrollment, err := fx.svc.Request(ctx, EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID})
	require.NoError(t, err)
	_, err = fx.svc.Decide(ctx, enrollment.ID, DecisionRequest{Action: "approve", Actor: "t-1"})
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, enrollment.ID, DecisionRequest{Action: "decline", Actor: "t-1"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	// The record keeps its first decision.
	details, err := fx.svc.List(ctx, models.EnrollmentFilter{})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, models.EnrollmentStatusApproved, details[0].Status)
}

func TestEnrollmentServiceDecideBadAction(t *testing.T) {
	fx := newEnrollmentFixture(t)

	_, err := fx.svc.Decide(context.Background(), "any", DecisionRequest{Action: "escalate"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEnrollmentServiceListJoinsSchedules(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Request(ctx, EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID})
	require.NoError(t, err)

	details, err := fx.svc.List(ctx, models.EnrollmentFilter{StudentIdentifier: "s-1"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Len(t, details[0].Schedules, 1)
	assert.Equal(t, "Tue", details[0].Schedules[0].Day)
}

func TestEnrollmentServiceSubjectDeleteDoesNotCascade(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Request(ctx, EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID})
	require.NoError(t, err)

	require.NoError(t, fx.subjects.Delete(ctx, fx.subject.ID, "t-1"))

	// The enrollment survives with its denormalized names; only the joined
	// schedules are gone.
	details, err := fx.svc.List(ctx, models.EnrollmentFilter{})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Compilers", details[0].SubjectName)
	assert.Equal(t, "Grace Hopper", details[0].TeacherName)
	assert.Empty(t, details[0].Schedules)
	assert.NotNil(t, details[0].Schedules)
}

func TestEnrollmentServiceStatusFilterIsCaseInsensitive(t *testing.T) {
	fx := newEnrollmentFixture(t)
	ctx := context.Background()

	enrollment, err := fx.svc.Request(ctx, EnrollmentRequest{StudentIdentifier: "s-1", SubjectID: fx.subject.ID})
	require.NoError(t, err)
	_, err = fx.svc.Decide(ctx, enrollment.ID, DecisionRequest{Action: "approve", Actor: "t-1"})
	require.NoError(t, err)

	for _, status := range []string{"Approved", "approved", "APPROVED"} {
		details, err := fx.svc.List(ctx, models.EnrollmentFilter{Status: status})
		require.NoError(t, err)
		assert.Len(t, details, 1, "status filter %q", status)
	}

	none, err := fx.svc.List(ctx, models.EnrollmentFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
