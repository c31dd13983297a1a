package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/store"
)

// ErrActiveEnrollment signals that a Pending or Approved enrollment already
// exists for the (student, subject) pair.
var ErrActiveEnrollment = errors.New("active enrollment already exists")

// ErrNotPending signals a decision on an enrollment outside the Pending state.
var ErrNotPending = errors.New("enrollment is not pending")

// EnrollmentRepository owns the enrollments collection.
type EnrollmentRepository struct {
	store store.Store
	mu    sync.Mutex
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(s store.Store) *EnrollmentRepository {
	return &EnrollmentRepository{store: s}
}

// List returns enrollments matching the filter. Identifier filters are
// exact; the status filter matches case-insensitively.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	enrollments, err := store.LoadAs[models.Enrollment](ctx, r.store, store.CollectionEnrollments, nil)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	filtered := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if filter.TeacherIdentifier != "" && e.TeacherIdentifier != filter.TeacherIdentifier {
			continue
		}
		if filter.StudentIdentifier != "" && e.StudentIdentifier != filter.StudentIdentifier {
			continue
		}
		if filter.Status != "" && !e.Status.Equals(filter.Status) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// FindByID returns one enrollment or ErrNotFound.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollments, err := r.List(ctx, models.EnrollmentFilter{})
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		if e.ID == id {
			enrollment := e
			return &enrollment, nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a Pending enrollment. The uniqueness rule is enforced here,
// under the collection lock: a Pending or Approved enrollment for the same
// (student, subject) pair rejects the request, a Declined one does not.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	enrollments, err := r.List(ctx, models.EnrollmentFilter{})
	if err != nil {
		return err
	}
	for _, existing := range enrollments {
		if existing.StudentIdentifier == enrollment.StudentIdentifier &&
			existing.SubjectID == enrollment.SubjectID &&
			existing.Status.Blocks() {
			return ErrActiveEnrollment
		}
	}
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	if enrollment.RequestedAt.IsZero() {
		enrollment.RequestedAt = time.Now().UTC().Truncate(time.Second)
	}
	enrollments = append(enrollments, *enrollment)
	if err := store.SaveAs(ctx, r.store, store.CollectionEnrollments, enrollments); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Transition moves a Pending enrollment to the given terminal status and
// returns the updated record. ErrNotPending guards the state machine: no
// transition is valid out of Approved or Declined.
func (r *EnrollmentRepository) Transition(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	enrollments, err := r.List(ctx, models.EnrollmentFilter{})
	if err != nil {
		return nil, err
	}
	for i, existing := range enrollments {
		if existing.ID != id {
			continue
		}
		if existing.Status != models.EnrollmentStatusPending {
			return nil, ErrNotPending
		}
		enrollments[i].Status = status
		if err := store.SaveAs(ctx, r.store, store.CollectionEnrollments, enrollments); err != nil {
			return nil, fmt.Errorf("update enrollment: %w", err)
		}
		updated := enrollments[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}
