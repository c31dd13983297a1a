package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPGStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGStore(sqlx.NewDb(db, "sqlmock"), nil), mock
}

func TestPGStoreLoadSeedsUnregisteredCollection(t *testing.T) {
	pg, mock := newTestPGStore(t)
	seed := []json.RawMessage{json.RawMessage(`{"id":"seed-1"}`)}

	mock.ExpectQuery(regexp.QuoteMeta(pgCollectionExists)).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(pgRegisterQuery)).
		WithArgs("users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(pgDeleteDocs)).
		WithArgs("users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(pgInsertDoc)).
		WithArgs("users", "seed-1", 0, []byte(`{"id":"seed-1"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	docs, err := pg.Load(context.Background(), "users", seed)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreLoadRegisteredCollection(t *testing.T) {
	pg, mock := newTestPGStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(pgCollectionExists)).
		WithArgs("subjects").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(pgSelectDocs)).
		WithArgs("subjects").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"id":"s1"}`)).
			AddRow([]byte(`{"id":"s2"}`)))

	docs, err := pg.Load(context.Background(), "subjects", nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"s2"}`, string(docs[1]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreSaveReplacesCollection(t *testing.T) {
	pg, mock := newTestPGStore(t)
	docs := []json.RawMessage{
		json.RawMessage(`{"id":"a"}`),
		json.RawMessage(`{"no_id":true}`),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(pgRegisterQuery)).
		WithArgs("rooms").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(pgDeleteDocs)).
		WithArgs("rooms").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(pgInsertDoc)).
		WithArgs("rooms", "a", 0, []byte(`{"id":"a"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Documents without an id get a synthetic positional one.
	mock.ExpectExec(regexp.QuoteMeta(pgInsertDoc)).
		WithArgs("rooms", "rooms-1", 1, []byte(`{"no_id":true}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, pg.Save(context.Background(), "rooms", docs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreGetNotFound(t *testing.T) {
	pg, mock := newTestPGStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(pgSelectDoc)).
		WithArgs("users", "ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := pg.Get(context.Background(), "users", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreEnsureSchema(t *testing.T) {
	pg, mock := newTestPGStore(t)

	mock.ExpectExec(regexp.QuoteMeta(pgCreateCollections)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(pgCreateDocuments)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, pg.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
