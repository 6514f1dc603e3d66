package store

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/envstore/pkg/models"
)

// createTestStore creates a file-backed SQLite store in a temporary
// directory. Pooled connections need a shared file; ":memory:" would give
// each connection its own database.
func createTestStore(t *testing.T, opts ...Option) *GORMStore {
	t.Helper()
	store, err := New(&Config{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: filepath.Join(t.TempDir(), "config.db"),
		},
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestConfig(t *testing.T) {
	t.Run("defaults to sqlite", func(t *testing.T) {
		cfg := &Config{}
		cfg.ApplyDefaults()

		assert.Equal(t, DatabaseTypeSQLite, cfg.Type)
		assert.Equal(t, DefaultSQLitePath, cfg.SQLite.Path)
		assert.Equal(t, DefaultBusyTimeout, cfg.SQLite.BusyTimeout)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sqlite dsn carries pragmas", func(t *testing.T) {
		cfg := SQLiteConfig{Path: "/tmp/x.db", BusyTimeout: 5 * time.Second}
		assert.Equal(t, "/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DSN())
	})

	t.Run("postgres defaults", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Host: "db", Database: "envstore", User: "envstore"}}
		cfg.ApplyDefaults()

		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, "disable", cfg.Postgres.SSLMode)
		assert.NoError(t, cfg.Validate())
		assert.Contains(t, cfg.Postgres.DSN(), "sslmode=disable")
	})

	t.Run("postgres requires host", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypePostgres}
		cfg.ApplyDefaults()
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := New(&Config{Type: "mysql"})
		assert.Error(t, err)
	})
}

func TestNewCreatesSchema(t *testing.T) {
	store := createTestStore(t)

	migrator := store.DB().Migrator()
	assert.True(t, migrator.HasTable("config"))
	assert.True(t, migrator.HasTable("modules"))
	for _, m := range models.AllModels() {
		assert.True(t, migrator.HasTable(m), "%T", m)
	}

	// idempotent
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.Healthcheck(context.Background()))
}

func TestNewCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.db")
	store, err := New(&Config{SQLite: SQLiteConfig{Path: path}})
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, path)
}

func TestSetGetRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"string", "hello", "hello"},
		{"empty string", "", ""},
		{"integer", 42, int64(42)},
		{"negative integer", int64(-7), int64(-7)},
		{"float", 3.5, 3.5},
		{"integral float", 2.0, 2.0},
		{"bool", true, true},
		{"list", []any{1, "a", false}, []any{int64(1), "a", false}},
		{"string list", []string{"x", "y"}, []any{"x", "y"}},
		{"map", map[string]any{"host": "localhost", "port": 5432}, map[string]any{"host": "localhost", "port": int64(5432)}},
		{"numeric string", "42", "42"},
		{"boolean string", "true", "true"},
		{"json string", `{"a":1}`, `{"a":1}`},
		{"nil", nil, nil},
		{"nan", math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, tt.name, tt.value))

			got, err := store.Get(ctx, tt.name, "unused")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetReturnsDefaultWhenAbsent(t *testing.T) {
	store := createTestStore(t)

	got, err := store.Get(context.Background(), "missing", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	got, err = store.Get(context.Background(), "missing", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetOverwrites(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", 1))
	require.NoError(t, store.Set(ctx, "k", "two"))

	got, err := store.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	var count int64
	require.NoError(t, store.DB().Model(&models.ConfigEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetFallsBackToRawText(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	for key, raw := range map[string]string{
		"plain":    "hello world",
		"broken":   "{not json",
		"trailing": "[1] extra",
	} {
		require.NoError(t, store.DB().Exec("INSERT INTO config (key, value) VALUES (?, ?)", key, raw).Error)

		got, err := store.Get(ctx, key, nil)
		require.NoError(t, err)
		assert.Equal(t, raw, got, key)
	}
}

func TestDelete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Delete(ctx, "k"))

	got, err := store.Get(ctx, "k", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", got)

	// absent key is a no-op
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestClearLeavesModules(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", 1))
	require.NoError(t, store.Set(ctx, "b", 2))
	require.NoError(t, store.SetModule(ctx, "auth", models.ModuleSpec{}))

	require.NoError(t, store.Clear(ctx))

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.GetModule(ctx, "auth")
	assert.NoError(t, err)
}

func TestLookup(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	_, err := store.Lookup(ctx, "missing")
	require.ErrorIs(t, err, models.ErrConfigItemNotFound)
	assert.Contains(t, err.Error(), "missing")

	require.NoError(t, store.Set(ctx, "present", []any{"x"}))
	got, err := store.Lookup(ctx, "present")
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, got)
}

func TestGetRecreatesMissingConfigTable(t *testing.T) {
	rec := newRecordingMetrics()
	store := createTestStore(t, WithMetrics(rec))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.DB().Migrator().DropTable("config"))

	got, err := store.Get(ctx, "k", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", got)
	assert.Equal(t, 1, rec.recoveries())
	assert.True(t, store.DB().Migrator().HasTable("config"))

	// the table is usable again
	require.NoError(t, store.Set(ctx, "k", "again"))
	got, err = store.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, "again", got)
}

func TestListEntriesOrderedByKey(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.Set(ctx, k, k))
	}

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Key)
	assert.Equal(t, "mid", entries[1].Key)
	assert.Equal(t, "zeta", entries[2].Key)
}

func TestTypedAccessors(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "port", 8080))
	require.NoError(t, store.Set(ctx, "port_text", "9090"))
	require.NoError(t, store.Set(ctx, "ratio", 0.25))
	require.NoError(t, store.Set(ctx, "debug", true))
	require.NoError(t, store.Set(ctx, "name", "envstore"))
	require.NoError(t, store.Set(ctx, "list", []int{1, 2}))

	t.Run("GetInt", func(t *testing.T) {
		i, err := store.GetInt(ctx, "port", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(8080), i)

		i, err = store.GetInt(ctx, "port_text", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(9090), i)

		i, err = store.GetInt(ctx, "absent", 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), i)

		i, err = store.GetInt(ctx, "name", 7)
		assert.ErrorIs(t, err, models.ErrTypeMismatch)
		assert.Equal(t, int64(7), i)
	})

	t.Run("GetFloat", func(t *testing.T) {
		f, err := store.GetFloat(ctx, "ratio", 0)
		require.NoError(t, err)
		assert.Equal(t, 0.25, f)

		f, err = store.GetFloat(ctx, "port", 0)
		require.NoError(t, err)
		assert.Equal(t, 8080.0, f)
	})

	t.Run("GetBool", func(t *testing.T) {
		b, err := store.GetBool(ctx, "debug", false)
		require.NoError(t, err)
		assert.True(t, b)

		_, err = store.GetBool(ctx, "list", false)
		assert.ErrorIs(t, err, models.ErrTypeMismatch)
	})

	t.Run("GetString", func(t *testing.T) {
		s, err := store.GetString(ctx, "name", "")
		require.NoError(t, err)
		assert.Equal(t, "envstore", s)

		// non-strings come back as stored text
		s, err = store.GetString(ctx, "list", "")
		require.NoError(t, err)
		assert.Equal(t, "[1,2]", s)
	})
}

func TestDecode(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	type database struct {
		Host string   `mapstructure:"host"`
		Port int      `mapstructure:"port"`
		Tags []string `mapstructure:"tags"`
	}

	require.NoError(t, store.Set(ctx, "database", map[string]any{
		"host": "localhost",
		"port": 5432,
		"tags": []string{"primary"},
	}))

	var db database
	require.NoError(t, store.Decode(ctx, "database", &db))
	assert.Equal(t, database{Host: "localhost", Port: 5432, Tags: []string{"primary"}}, db)

	assert.ErrorIs(t, store.Decode(ctx, "absent", &db), models.ErrConfigItemNotFound)

	require.NoError(t, store.Set(ctx, "scalar", "text"))
	var n int
	assert.ErrorIs(t, store.Decode(ctx, "scalar", &n), models.ErrTypeMismatch)
}

func TestConcurrentWriters(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if err := store.Set(ctx, fmt.Sprintf("w%d.k%d", w, i), i); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent set: %v", err)
	}

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 40)
}
