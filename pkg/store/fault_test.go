package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"

	"github.com/marmos91/envstore/pkg/models"
)

// createMockStore opens a postgres-dialect store over sqlmock. Construction
// runs both CREATE TABLE statements, which are expected here.
func createMockStore(t *testing.T, opts ...Option) (*GORMStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	expectSchema(mock)

	cfg := &Config{Type: DatabaseTypePostgres}
	store, err := open(postgres.New(postgres.Config{Conn: db}), cfg, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return store, mock
}

func expectSchema(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS config`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS modules`).WillReturnResult(sqlmock.NewResult(0, 0))
}

const selectConfig = `SELECT \* FROM "config" WHERE key = \$1`

func undefinedTable() error {
	return &pgconn.PgError{Code: pgUndefinedTable, Message: `relation "config" does not exist`}
}

func TestIsMissingTableError(t *testing.T) {
	assert.False(t, IsMissingTableError(nil))
	assert.True(t, IsMissingTableError(undefinedTable()))
	assert.True(t, IsMissingTableError(errors.New("SQL logic error: no such table: config (1)")))
	assert.False(t, IsMissingTableError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsMissingTableError(errors.New("database is locked")))
}

func TestGetHealsUndefinedTable(t *testing.T) {
	rec := newRecordingMetrics()
	store, mock := createMockStore(t, WithMetrics(rec))

	mock.ExpectQuery(selectConfig).WillReturnError(undefinedTable())
	expectSchema(mock)
	mock.ExpectQuery(selectConfig).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("k", `"7"`))

	got, err := store.Get(context.Background(), "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "7", got)
	assert.Equal(t, 1, rec.recoveries())
}

func TestGetRetriesOnlyOnce(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectQuery(selectConfig).WillReturnError(undefinedTable())
	expectSchema(mock)
	mock.ExpectQuery(selectConfig).WillReturnError(undefinedTable())

	got, err := store.Get(context.Background(), "k", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestGetPropagatesStorageFault(t *testing.T) {
	store, mock := createMockStore(t)
	fault := errors.New("disk I/O error")

	mock.ExpectQuery(selectConfig).WillReturnError(fault)

	_, err := store.Get(context.Background(), "k", "fallback")
	assert.ErrorIs(t, err, fault)
}

func TestGetPropagatesSchemaRepairFailure(t *testing.T) {
	store, mock := createMockStore(t)
	fault := errors.New("permission denied for schema public")

	mock.ExpectQuery(selectConfig).WillReturnError(undefinedTable())
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS config`).WillReturnError(fault)

	_, err := store.Get(context.Background(), "k", nil)
	assert.ErrorIs(t, err, fault)
}

func TestSetPropagatesStorageFault(t *testing.T) {
	store, mock := createMockStore(t)
	fault := errors.New("read-only transaction")

	mock.ExpectExec(`INSERT INTO "config"`).WillReturnError(fault)

	assert.ErrorIs(t, store.Set(context.Background(), "k", 1), fault)
}

func TestModulesDoNotHealUndefinedTable(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "modules"`).WillReturnError(undefinedTable())

	_, err := store.GetModule(context.Background(), "auth")
	assert.True(t, IsMissingTableError(err))
}

func TestSetModuleStatusNoRows(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectExec(`UPDATE "modules" SET "status"`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.SetModuleStatus(context.Background(), "ghost", true))
}

func TestSetAllModulesRollsBack(t *testing.T) {
	store, mock := createMockStore(t)
	fault := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "modules"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "modules"`).WillReturnError(fault)
	mock.ExpectRollback()

	err := store.SetAllModules(context.Background(), map[string]models.ModuleSpec{
		"a": {},
		"b": {},
	})
	assert.ErrorIs(t, err, fault)
}

func TestSetAllModulesCommitsOnce(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectExec(`INSERT INTO "modules"`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.SetAllModules(context.Background(), map[string]models.ModuleSpec{
		"a": {}, "b": {}, "c": {},
	}))
}
