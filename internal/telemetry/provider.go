package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/marmos91/envstore/internal/logger"
)

// NewProvider returns a TracerProvider sampling root spans at sampleRate
// (0.0 to 1.0) that reports every ended span through the logger at debug
// level. Pass it to Init; call Shutdown on exit.
func NewProvider(sampleRate float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
		sdktrace.WithSpanProcessor(logProcessor{}),
	)
}

// logProcessor is a synchronous SpanProcessor writing ended spans to the
// logger.
type logProcessor struct{}

func (logProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (logProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	args := []any{
		logger.KeyTraceID, s.SpanContext().TraceID().String(),
		logger.KeySpanID, s.SpanContext().SpanID().String(),
		logger.KeyDurationMs, float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000.0,
		"status", s.Status().Code.String(),
	}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}
	logger.Debug("span "+s.Name(), args...)
}

func (logProcessor) Shutdown(context.Context) error   { return nil }
func (logProcessor) ForceFlush(context.Context) error { return nil }
