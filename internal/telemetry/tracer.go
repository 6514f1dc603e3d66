package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for store spans.
const (
	AttrDBSystem    = "db.system"
	AttrOperation   = "store.operation"
	AttrConfigKey   = "config.key"
	AttrModuleName  = "module.name"
	AttrModuleCount = "module.count"
)

// SpanStorePrefix prefixes every store span name, e.g. "store.get".
const SpanStorePrefix = "store."

// DBSystem returns an attribute for the database backend (sqlite, postgres).
func DBSystem(system string) attribute.KeyValue {
	return attribute.String(AttrDBSystem, system)
}

// ConfigKey returns an attribute for a config table key.
func ConfigKey(key string) attribute.KeyValue {
	return attribute.String(AttrConfigKey, key)
}

// ModuleName returns an attribute for a module name.
func ModuleName(name string) attribute.KeyValue {
	return attribute.String(AttrModuleName, name)
}

// ModuleCount returns an attribute for the size of a bulk module write.
func ModuleCount(n int) attribute.KeyValue {
	return attribute.Int(AttrModuleCount, n)
}

// StartStoreSpan starts a client span for a store operation.
func StartStoreSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{attribute.String(AttrOperation, operation)}, attrs...)
	return StartSpan(ctx, SpanStorePrefix+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(allAttrs...))
}
