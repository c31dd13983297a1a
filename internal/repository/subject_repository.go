package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/store"
)

// SubjectRepository owns the subjects collection.
type SubjectRepository struct {
	store store.Store
	mu    sync.Mutex
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(s store.Store) *SubjectRepository {
	return &SubjectRepository{store: s}
}

// List returns all subjects, or only those owned by teacherIdentifier when
// it is non-empty (exact match).
func (r *SubjectRepository) List(ctx context.Context, teacherIdentifier string) ([]models.Subject, error) {
	subjects, err := store.LoadAs[models.Subject](ctx, r.store, store.CollectionSubjects, nil)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if teacherIdentifier == "" {
		return subjects, nil
	}
	filtered := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.TeacherIdentifier == teacherIdentifier {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// FindByID returns one subject or ErrNotFound.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	subjects, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, s := range subjects {
		if s.ID == id {
			subject := s
			return &subject, nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a subject, assigning its id and timestamps.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subjects, err := r.List(ctx, "")
	if err != nil {
		return err
	}
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	if subject.Schedules == nil {
		subject.Schedules = []models.Schedule{}
	}
	subjects = append(subjects, *subject)
	if err := store.SaveAs(ctx, r.store, store.CollectionSubjects, subjects); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Replace overwrites the subject matching id in full. Fields absent from the
// incoming record are lost; only the id and creation time survive.
func (r *SubjectRepository) Replace(ctx context.Context, id string, subject *models.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subjects, err := r.List(ctx, "")
	if err != nil {
		return err
	}
	for i, existing := range subjects {
		if existing.ID != id {
			continue
		}
		subject.ID = id
		subject.CreatedAt = existing.CreatedAt
		subject.UpdatedAt = time.Now().UTC()
		if subject.Schedules == nil {
			subject.Schedules = []models.Schedule{}
		}
		subjects[i] = *subject
		if err := store.SaveAs(ctx, r.store, store.CollectionSubjects, subjects); err != nil {
			return fmt.Errorf("update subject: %w", err)
		}
		return nil
	}
	return ErrNotFound
}

// Delete removes the subject matching id and returns the removed record.
// Enrollments referencing the subject are deliberately left untouched.
func (r *SubjectRepository) Delete(ctx context.Context, id string) (*models.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subjects, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for i, existing := range subjects {
		if existing.ID != id {
			continue
		}
		removed := existing
		subjects = append(subjects[:i], subjects[i+1:]...)
		if err := store.SaveAs(ctx, r.store, store.CollectionSubjects, subjects); err != nil {
			return nil, fmt.Errorf("delete subject: %w", err)
		}
		return &removed, nil
	}
	return nil, ErrNotFound
}
