package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PGStore maps each collection onto document rows in Postgres. Whole-
// collection saves run inside one transaction, Get fetches a single row.
type PGStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

const (
	pgCreateCollections = `CREATE TABLE IF NOT EXISTS collections (name TEXT PRIMARY KEY)`
	pgCreateDocuments   = `CREATE TABLE IF NOT EXISTS documents (
        collection TEXT NOT NULL,
        id TEXT NOT NULL,
        position INT NOT NULL,
        doc JSONB NOT NULL,
        PRIMARY KEY (collection, id))`

	pgCollectionExists = `SELECT EXISTS(SELECT 1 FROM collections WHERE name = $1)`
	pgRegisterQuery    = `INSERT INTO collections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	pgSelectDocs       = `SELECT doc FROM documents WHERE collection = $1 ORDER BY position`
	pgSelectDoc        = `SELECT doc FROM documents WHERE collection = $1 AND id = $2`
	pgDeleteDocs       = `DELETE FROM documents WHERE collection = $1`
	pgInsertDoc        = `INSERT INTO documents (collection, id, position, doc) VALUES ($1, $2, $3, $4)`
)

// NewPGStore wraps an already connected database handle.
func NewPGStore(db *sqlx.DB, logger *zap.Logger) *PGStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PGStore{db: db, logger: logger}
}

// EnsureSchema creates the backing tables. Called once at startup.
func (p *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, pgCreateCollections); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, pgCreateDocuments); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Load implements Store. An unregistered collection is initialized with seed.
func (p *PGStore) Load(ctx context.Context, collection string, seed []json.RawMessage) ([]json.RawMessage, error) {
	if seed == nil {
		seed = []json.RawMessage{}
	}
	var exists bool
	if err := p.db.GetContext(ctx, &exists, pgCollectionExists, collection); err != nil {
		return nil, fmt.Errorf("check collection %s: %w", collection, err)
	}
	if !exists {
		if err := p.Save(ctx, collection, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}

	rows, err := p.db.QueryContext(ctx, pgSelectDocs, collection)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			p.logger.Warn("document unreadable, skipping",
				zap.String("collection", collection), zap.Error(err))
			continue
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load collection %s: %w", collection, err)
	}
	return docs, nil
}

// Save implements Store, replacing the collection in one transaction.
func (p *PGStore) Save(ctx context.Context, collection string, docs []json.RawMessage) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", collection, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, pgRegisterQuery, collection); err != nil {
		return fmt.Errorf("register collection %s: %w", collection, err)
	}
	if _, err := tx.ExecContext(ctx, pgDeleteDocs, collection); err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}
	for i, doc := range docs {
		id, ok := documentID(doc)
		if !ok {
			id = fmt.Sprintf("%s-%d", collection, i)
		}
		if _, err := tx.ExecContext(ctx, pgInsertDoc, collection, id, i, []byte(doc)); err != nil {
			return fmt.Errorf("insert into %s: %w", collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", collection, err)
	}
	return nil
}

// Get implements Store with a per-document query.
func (p *PGStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var doc []byte
	if err := p.db.GetContext(ctx, &doc, pgSelectDoc, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(doc), nil
}

// Query implements Store.
func (p *PGStore) Query(ctx context.Context, collection string, filter map[string]any) ([]json.RawMessage, error) {
	docs, err := p.Load(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	return filterDocs(docs, filter), nil
}
