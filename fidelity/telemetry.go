package fidelity

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/katalvlaran/zorro/fidelity"

// instruments groups the estimator metrics. Creation errors degrade to no-op
// instruments; telemetry never fails an evaluation.
type instruments struct {
	evaluations metric.Int64Counter     // policy calls, labelled by mode
	samples     metric.Int64Counter     // noisy inputs sent to the policy
	value       metric.Float64Histogram // resulting fidelity values
}

func newInstruments(mp metric.MeterProvider) instruments {
	meter := mp.Meter(meterName)

	var ins instruments
	var err error
	ins.evaluations, err = meter.Int64Counter(
		"zorro.fidelity.evaluations",
		metric.WithDescription("Batched policy evaluations issued by the fidelity estimator"),
	)
	if err != nil {
		ins.evaluations = nil
	}
	ins.samples, err = meter.Int64Counter(
		"zorro.fidelity.samples",
		metric.WithDescription("Noisy inputs evaluated by the policy"),
	)
	if err != nil {
		ins.samples = nil
	}
	ins.value, err = meter.Float64Histogram(
		"zorro.fidelity.value",
		metric.WithDescription("Fidelity of scored supports"),
	)
	if err != nil {
		ins.value = nil
	}

	return ins
}

// record reports one finished evaluation.
func (ins instruments) record(ctx context.Context, mode Mode, samples int, fid float64) {
	attrs := metric.WithAttributes(attribute.String("mode", mode.String()))
	if ins.evaluations != nil {
		ins.evaluations.Add(ctx, 1, attrs)
	}
	if ins.samples != nil {
		ins.samples.Add(ctx, int64(samples), attrs)
	}
	if ins.value != nil {
		ins.value.Record(ctx, fid, attrs)
	}
}
