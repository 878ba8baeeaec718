package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	shutdown := UseTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() {
		_ = shutdown(context.Background())
		_, _ = InitProvider(context.Background(), DefaultConfig())
	})
	return rec
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestInitProviderDisabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, span := StartPhaseSpan(context.Background(), "understanding", "emp-1")
	assert.False(t, span.SpanContext().IsValid(), "noop provider produces invalid span contexts")
	span.End()
}

func TestInitProviderEnabledWithoutEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.SampleRate = 0.5

	shutdown, err := InitProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = InitProvider(context.Background(), DefaultConfig()) })
	assert.NoError(t, shutdown(context.Background()))
}

func TestPhaseSpanAttributes(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartPhaseSpan(context.Background(), "diagnostic", "emp-7")
	RecordSuccess(span, attribute.Int("gaps", 2))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "phase.diagnostic", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	v, ok := attrValue(spans[0].Attributes(), "learner_id")
	require.True(t, ok)
	assert.Equal(t, "emp-7", v.AsString())
	v, ok = attrValue(spans[0].Attributes(), "gaps")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.AsInt64())
}

func TestRecordError(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartAdvisorySpan(context.Background(), "synthesis", 1200, 0.7)
	RecordError(span, errors.New("connection refused"))
	RecordError(span, nil)
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "connection refused", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestSearchSpanIsChildOfPhase(t *testing.T) {
	rec := withRecorder(t)

	ctx, phase := StartPhaseSpan(context.Background(), "knowledge", "emp-1")
	_, search := StartSearchSpan(ctx, "web", "go skills")
	search.End()
	phase.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
