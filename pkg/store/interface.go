// Package store provides the persistence layer for envstore.
//
// A single database holds two independent tables:
//   - config: a key/value table for arbitrary typed settings
//   - modules: the registry of pluggable modules and their enabled status
//
// Two backends are supported:
//   - SQLite (embedded file, default)
//   - PostgreSQL (shared server)
package store

import (
	"context"

	"github.com/marmos91/envstore/pkg/models"
)

// ConfigStore is the key/value side of the store.
type ConfigStore interface {
	// Get returns the decoded value stored under key, or def when the key is
	// absent. Stored text that is not valid structured text is returned as
	// the raw string. A missing config table is recreated once and the read
	// retried; if it is still missing, def is returned.
	Get(ctx context.Context, key string, def any) (any, error)

	// Lookup is Get without a default.
	// Returns models.ErrConfigItemNotFound if the key is absent.
	Lookup(ctx context.Context, key string) (any, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every config entry. Modules are untouched.
	Clear(ctx context.Context) error

	// ListEntries returns all stored entries ordered by key.
	ListEntries(ctx context.Context) ([]*models.ConfigEntry, error)

	GetString(ctx context.Context, key string, def string) (string, error)
	GetInt(ctx context.Context, key string, def int64) (int64, error)
	GetFloat(ctx context.Context, key string, def float64) (float64, error)
	GetBool(ctx context.Context, key string, def bool) (bool, error)

	// Decode copies the value stored under key into out.
	// Returns models.ErrConfigItemNotFound if the key is absent.
	Decode(ctx context.Context, key string, out any) error
}

// ModuleStore is the module registry side of the store.
type ModuleStore interface {
	// GetModuleStatus returns whether the module is enabled. A module with no
	// record is enabled.
	GetModuleStatus(ctx context.Context, name string) (bool, error)

	// SetModuleStatus changes the status of an existing module. It never
	// creates a record: for an unknown name it does nothing.
	SetModuleStatus(ctx context.Context, name string, enabled bool) error

	// GetModule returns the module descriptor.
	// Returns models.ErrModuleNotFound if no record exists.
	GetModule(ctx context.Context, name string) (*models.Module, error)

	// GetAllModules returns every registered module keyed by name.
	GetAllModules(ctx context.Context) (map[string]*models.Module, error)

	// SetModule creates or fully replaces the module record.
	SetModule(ctx context.Context, name string, spec models.ModuleSpec) error

	// SetAllModules upserts every module in one transaction.
	SetAllModules(ctx context.Context, specs map[string]models.ModuleSpec) error

	// UpdateModule is SetModule: the record is replaced, not merged.
	UpdateModule(ctx context.Context, name string, spec models.ModuleSpec) error

	// RemoveModule deletes the record and reports whether one existed.
	RemoveModule(ctx context.Context, name string) (bool, error)
}

// Store provides the full persistence interface.
//
// Thread Safety: Implementations must be safe for concurrent use from multiple
// goroutines.
type Store interface {
	ConfigStore
	ModuleStore

	// EnsureSchema creates any missing table. Safe to call repeatedly.
	EnsureSchema(ctx context.Context) error

	// Healthcheck verifies the database is reachable.
	Healthcheck(ctx context.Context) error

	// Close releases the database connections.
	Close() error
}
