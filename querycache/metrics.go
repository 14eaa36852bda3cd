package querycache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// clientMetrics records cache activity counters.
type clientMetrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	invalidations metric.Int64Counter
	mutations     metric.Int64Counter
}

func newClientMetrics(meter metric.Meter) *clientMetrics {
	m, err := buildClientMetrics(meter)
	if err != nil {
		m, _ = buildClientMetrics(noop.NewMeterProvider().Meter("filterkit/querycache"))
	}
	return m
}

func buildClientMetrics(meter metric.Meter) (*clientMetrics, error) {
	hits, err := meter.Int64Counter(
		"cache.reads.hits",
		metric.WithDescription("Reads served from cache"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.reads.misses",
		metric.WithDescription("Reads that required a fetch"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"cache.invalidations",
		metric.WithDescription("Prefix invalidations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter(
		"cache.mutations",
		metric.WithDescription("Mutation runs"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &clientMetrics{
		hits:          hits,
		misses:        misses,
		invalidations: invalidations,
		mutations:     mutations,
	}, nil
}

func keyAttr(key Key) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("cache.key", key.String()))
}

func (m *clientMetrics) recordHit(ctx context.Context, key Key) {
	m.hits.Add(ctx, 1, keyAttr(key))
}

func (m *clientMetrics) recordMiss(ctx context.Context, key Key) {
	m.misses.Add(ctx, 1, keyAttr(key))
}

func (m *clientMetrics) recordInvalidation(ctx context.Context, prefix Key) {
	m.invalidations.Add(ctx, 1, keyAttr(prefix))
}

func (m *clientMetrics) recordMutation(ctx context.Context, err error) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("error", err != nil)))
}
