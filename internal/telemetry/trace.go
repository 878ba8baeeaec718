package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartCommandSpan creates a span for a CLI command execution.
func StartCommandSpan(ctx context.Context, cmdName string) (context.Context, trace.Span) {
	ctx, span := GetTracerProvider().Tracer("commands").Start(ctx, "command."+cmdName)
	span.SetAttributes(
		attribute.String("command", cmdName),
		attribute.String("component", "cli"),
	)
	return ctx, span
}

// StartPhaseSpan creates a span for one pipeline phase of one learner.
//
//	ctx, span := telemetry.StartPhaseSpan(ctx, "diagnostic", learnerID)
//	defer span.End()
func StartPhaseSpan(ctx context.Context, phase, learnerID string) (context.Context, trace.Span) {
	ctx, span := GetTracerProvider().Tracer("pipeline").Start(ctx, "phase."+phase)
	span.SetAttributes(
		attribute.String("phase", phase),
		attribute.String("learner_id", learnerID),
		attribute.String("component", "pipeline"),
	)
	return ctx, span
}

// StartAdvisorySpan creates a span for one advisory call.
func StartAdvisorySpan(ctx context.Context, tag string, maxTokens int, temperature float64) (context.Context, trace.Span) {
	ctx, span := GetTracerProvider().Tracer("advisory").Start(ctx, "advisory."+tag)
	span.SetAttributes(
		attribute.String("tag", tag),
		attribute.Int("max_tokens", maxTokens),
		attribute.Float64("temperature", temperature),
		attribute.String("component", "advisory"),
	)
	return ctx, span
}

// StartSearchSpan creates a span for one knowledge search query.
func StartSearchSpan(ctx context.Context, category, query string) (context.Context, trace.Span) {
	ctx, span := GetTracerProvider().Tracer("search").Start(ctx, "search."+category)
	span.SetAttributes(
		attribute.String("category", category),
		attribute.String("query", query),
		attribute.String("component", "search"),
	)
	return ctx, span
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records an error in a span and sets error status.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Bool("error", true))
}
