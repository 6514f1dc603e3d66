package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/marmos91/envstore/internal/telemetry"
	"github.com/marmos91/envstore/pkg/models"
)

// recordingMetrics is an in-memory Metrics for assertions.
type recordingMetrics struct {
	mu        sync.Mutex
	ops       map[string]int
	errs      map[string]int
	recovered int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{ops: map[string]int{}, errs: map[string]int{}}
}

func (m *recordingMetrics) ObserveOperation(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op]++
	if err != nil {
		m.errs[op]++
	}
}

func (m *recordingMetrics) RecordSchemaRecovery() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recovered++
}

func (m *recordingMetrics) count(op string) (total, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ops[op], m.errs[op]
}

func (m *recordingMetrics) recoveries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recovered
}

func TestOperationsRecordMetrics(t *testing.T) {
	rec := newRecordingMetrics()
	store := createTestStore(t, WithMetrics(rec))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", 1))
	_, err := store.Get(ctx, "k", nil)
	require.NoError(t, err)
	_, err = store.GetModule(ctx, "missing")
	require.ErrorIs(t, err, models.ErrModuleNotFound)

	total, failed := rec.count(opSet)
	assert.Equal(t, 1, total)
	assert.Zero(t, failed)

	total, _ = rec.count(opGet)
	assert.Equal(t, 1, total)

	total, failed = rec.count(opGetModule)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, failed)

	// construction creates the schema once
	total, _ = rec.count(opEnsureSchema)
	assert.Equal(t, 1, total)
}

func TestOperationsRecordSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	telemetry.Init(tp)
	t.Cleanup(func() {
		telemetry.Init(nil)
		_ = tp.Shutdown(context.Background())
	})

	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	_, err := store.GetModule(ctx, "missing")
	require.Error(t, err)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range sr.Ended() {
		spans[s.Name()] = s
	}

	set, ok := spans[telemetry.SpanStorePrefix+opSet]
	require.True(t, ok, "missing set span")
	assert.Equal(t, codes.Unset, set.Status().Code)

	attrs := map[string]string{}
	for _, kv := range set.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "k", attrs[telemetry.AttrConfigKey])
	assert.Equal(t, "sqlite", attrs[telemetry.AttrDBSystem])

	get, ok := spans[telemetry.SpanStorePrefix+opGetModule]
	require.True(t, ok, "missing get_module span")
	assert.Equal(t, codes.Error, get.Status().Code)
}

func TestDecodeFallbackEvent(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	telemetry.Init(tp)
	t.Cleanup(func() {
		telemetry.Init(nil)
		_ = tp.Shutdown(context.Background())
	})

	store := createTestStore(t)
	require.NoError(t, store.DB().Exec("INSERT INTO config (key, value) VALUES (?, ?)", "raw", "not json").Error)

	_, err := store.Get(context.Background(), "raw", nil)
	require.NoError(t, err)

	var found bool
	for _, s := range sr.Ended() {
		if s.Name() != telemetry.SpanStorePrefix+opGet {
			continue
		}
		for _, ev := range s.Events() {
			if ev.Name == "decode_fallback" {
				found = true
			}
		}
	}
	assert.True(t, found)
}
