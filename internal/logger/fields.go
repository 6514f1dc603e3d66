package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently so log lines can be filtered by field.
const (
	// Tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Store
	KeyOperation  = "operation"   // store operation: get, set, set_module, ...
	KeyBackend    = "backend"     // sqlite, postgres
	KeyKey        = "key"         // config table key
	KeyModule     = "module"      // module name
	KeyCount      = "count"       // number of items in a bulk operation
	KeyEnabled    = "enabled"     // module status
	KeyDurationMs = "duration_ms" // operation duration in milliseconds

	// Bootstrap
	KeyPath    = "path"    // definition or database file path
	KeyFormat  = "format"  // definition file format
	KeySkipped = "skipped" // names ignored by the importer
	KeyReason  = "reason"  // why an item was skipped

	KeyComponent = "component"
	KeyError     = "error"
)

// Err returns a slog attribute for an error, or an empty attribute for nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Key returns a slog attribute for a config key.
func Key(key string) slog.Attr {
	return slog.String(KeyKey, key)
}

// Module returns a slog attribute for a module name.
func Module(name string) slog.Attr {
	return slog.String(KeyModule, name)
}

// Path returns a slog attribute for a file path.
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// Count returns a slog attribute for an item count.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Typed returns a slog attribute naming the dynamic type of v, for logging
// values the importer could not store.
func Typed(v any) slog.Attr {
	return slog.String("type", fmt.Sprintf("%T", v))
}
