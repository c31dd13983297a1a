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

// AuditRepository owns the append-only audit collection. Entries are never
// mutated or deleted once written.
type AuditRepository struct {
	store store.Store
	mu    sync.Mutex
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(s store.Store) *AuditRepository {
	return &AuditRepository{store: s}
}

// Record appends one entry with a second-precision timestamp. Callers are
// expected to log and swallow a returned error rather than fail their
// triggering operation.
func (r *AuditRepository) Record(ctx context.Context, action, actor string, details map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor == "" {
		actor = "unknown"
	}
	if details == nil {
		details = map[string]any{}
	}
	entries, err := store.LoadAs[models.AuditEntry](ctx, r.store, store.CollectionAudit, nil)
	if err != nil {
		return fmt.Errorf("load audit trail: %w", err)
	}
	entries = append(entries, models.AuditEntry{
		ID:      uuid.NewString(),
		TS:      time.Now().UTC().Truncate(time.Second),
		Action:  action,
		Actor:   actor,
		Details: details,
	})
	if err := store.SaveAs(ctx, r.store, store.CollectionAudit, entries); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// List returns the trail in append order, for the reporting read side.
func (r *AuditRepository) List(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := store.LoadAs[models.AuditEntry](ctx, r.store, store.CollectionAudit, nil)
	if err != nil {
		return nil, fmt.Errorf("list audit trail: %w", err)
	}
	return entries, nil
}
