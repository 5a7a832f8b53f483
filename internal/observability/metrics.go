package observability

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/raianasancho/gcsga/internal/config"
	"github.com/raianasancho/gcsga/internal/game/roll"
)

// Instrument names.
const (
	RollsMetric            = "gcsga.rolls"
	InvalidRollsMetric     = "gcsga.rolls.invalid"
	ClaimedModifiersMetric = "gcsga.modifiers.claimed"
)

// Metrics records roll dispatches through OpenTelemetry instruments. It
// implements roll.Recorder and is safe for concurrent use.
type Metrics struct {
	// Rolls counts resolved rolls by "type" and "success".
	Rolls metric.Int64Counter
	// InvalidRolls counts requests dropped as invalid, by "type".
	InvalidRolls metric.Int64Counter
	// ClaimedModifiers counts modifiers consumed from stacks.
	ClaimedModifiers metric.Int64Counter
}

// NewMetrics creates the instruments on mp under the given meter name.
//
// Precondition: mp must be non-nil.
// Postcondition: Returns a Metrics with every instrument set, or an error.
func NewMetrics(mp metric.MeterProvider, meterName string) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}
	if met.Rolls, err = m.Int64Counter(RollsMetric,
		metric.WithDescription("Resolved rolls by type and success tier."),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", RollsMetric, err)
	}
	if met.InvalidRolls, err = m.Int64Counter(InvalidRollsMetric,
		metric.WithDescription("Roll requests dropped as invalid."),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", InvalidRollsMetric, err)
	}
	if met.ClaimedModifiers, err = m.Int64Counter(ClaimedModifiersMetric,
		metric.WithDescription("Modifiers consumed from modifier stacks."),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", ClaimedModifiersMetric, err)
	}
	return met, nil
}

// RecordRoll implements roll.Recorder. Rolls without a success tier are
// recorded with success "none".
func (m *Metrics) RecordRoll(ctx context.Context, t roll.Type, s roll.Success) {
	success := string(s)
	if success == "" {
		success = "none"
	}
	m.Rolls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(t)),
		attribute.String("success", success),
	))
}

// RecordInvalid implements roll.Recorder.
func (m *Metrics) RecordInvalid(ctx context.Context, t roll.Type) {
	m.InvalidRolls.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(t))))
}

// RecordClaim implements roll.Recorder. Empty claims are not counted.
func (m *Metrics) RecordClaim(ctx context.Context, claimed int) {
	if claimed <= 0 {
		return
	}
	m.ClaimedModifiers.Add(ctx, int64(claimed))
}

// NewMeterProvider returns the provider selected by cfg. When metrics are
// enabled the provider is backed by a ManualReader, returned for Summary;
// otherwise a no-op provider and a nil reader are returned.
func NewMeterProvider(cfg config.MetricsConfig) (metric.MeterProvider, *sdkmetric.ManualReader) {
	if !cfg.Enabled {
		return noop.NewMeterProvider(), nil
	}
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// Summary collects reader and flattens every integer sum into a map keyed
// by metric name and attributes, e.g.
// "gcsga.rolls{success=failure,type=skill}".
//
// Precondition: reader must be non-nil and registered with a provider.
func Summary(ctx context.Context, reader *sdkmetric.ManualReader) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			sum, ok := met.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[summaryKey(met.Name, dp.Attributes)] += dp.Value
			}
		}
	}
	return out, nil
}

func summaryKey(name string, set attribute.Set) string {
	if set.Len() == 0 {
		return name
	}
	kvs := set.ToSlice()
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	parts := make([]string, len(kvs))
	for i, kv := range kvs {
		parts[i] = string(kv.Key) + "=" + kv.Value.Emit()
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}
