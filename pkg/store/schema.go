package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Table definitions. Both statements are idempotent and safe to run from
// concurrent callers; the column layout is shared with other tools reading
// the same file, so it is written out rather than derived from the models.
const (
	createConfigTable = `CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

	createModulesTable = `CREATE TABLE IF NOT EXISTS modules (
	module_name TEXT PRIMARY KEY,
	status INTEGER NOT NULL,
	version TEXT,
	description TEXT,
	author TEXT,
	dependencies TEXT,
	optional_dependencies TEXT
)`
)

// pgUndefinedTable is the SQLSTATE PostgreSQL reports for a missing relation.
const pgUndefinedTable = "42P01"

// EnsureSchema creates the config and modules tables if they do not exist.
// It is a no-op when both tables are present.
func (s *GORMStore) EnsureSchema(ctx context.Context) (err error) {
	ctx, done := s.track(ctx, opEnsureSchema)
	defer func() { done(err) }()

	for _, stmt := range []string{createConfigTable, createModulesTable} {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// IsMissingTableError reports whether err is the storage engine telling us a
// table does not exist yet.
func IsMissingTableError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}

	return strings.Contains(err.Error(), "no such table")
}
