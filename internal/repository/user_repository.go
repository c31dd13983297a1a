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

// ErrNotFound signals that a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateIdentifier signals a registration with a taken login handle.
var ErrDuplicateIdentifier = errors.New("identifier already registered")

// UserRepository owns the users collection. The mutex serializes the
// load-modify-save cycle so two concurrent registrations cannot both pass
// the uniqueness check.
type UserRepository struct {
	store store.Store
	mu    sync.Mutex
}

// NewUserRepository constructs the repository.
func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// List returns every account, seeding the starter accounts on first access.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users, err := store.LoadAs(ctx, r.store, store.CollectionUsers, models.SeedUsers())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByIdentifier returns the account with the exact login handle.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Identifier == identifier {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// Create persists a new account, enforcing identifier uniqueness under the
// collection lock. The id and creation time are assigned here when absent.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Identifier == user.Identifier {
			return ErrDuplicateIdentifier
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	users = append(users, *user)
	if err := store.SaveAs(ctx, r.store, store.CollectionUsers, users); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
