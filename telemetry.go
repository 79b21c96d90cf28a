package zorro

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/katalvlaran/zorro"

// searchMetrics holds the search instruments. A nil instrument is skipped.
type searchMetrics struct {
	runs       metric.Int64Counter
	frames     metric.Int64Counter
	candidates metric.Int64Histogram
	duration   metric.Float64Histogram
}

func newSearchMetrics(mp metric.MeterProvider) searchMetrics {
	meter := mp.Meter(instrumentationName)

	var m searchMetrics
	var err error
	if m.runs, err = meter.Int64Counter(
		"zorro.search.runs",
		metric.WithDescription("Completed or failed searches"),
	); err != nil {
		m.runs = nil
	}
	if m.frames, err = meter.Int64Counter(
		"zorro.search.frames",
		metric.WithDescription("Recursion frames (one discrete mask each)"),
	); err != nil {
		m.frames = nil
	}
	if m.candidates, err = meter.Int64Histogram(
		"zorro.search.candidates",
		metric.WithDescription("Candidates emitted per search"),
	); err != nil {
		m.candidates = nil
	}
	if m.duration, err = meter.Float64Histogram(
		"zorro.search.duration",
		metric.WithDescription("Wall-clock duration of a search"),
		metric.WithUnit("s"),
	); err != nil {
		m.duration = nil
	}

	return m
}

// record reports one finished search.
func (m searchMetrics) record(ctx context.Context, frames, candidates int, took time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	if m.runs != nil {
		m.runs.Add(ctx, 1, attrs)
	}
	if m.frames != nil {
		m.frames.Add(ctx, int64(frames), attrs)
	}
	if m.candidates != nil && err == nil {
		m.candidates.Record(ctx, int64(candidates))
	}
	if m.duration != nil {
		m.duration.Record(ctx, took.Seconds(), attrs)
	}
}

// startSpan opens a span named "zorro.<op>".
func startSpan(ctx context.Context, tp trace.TracerProvider, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tp.Tracer(instrumentationName).Start(ctx, "zorro."+op, trace.WithAttributes(attrs...))
}

// endSpan records err (if any) and closes the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
