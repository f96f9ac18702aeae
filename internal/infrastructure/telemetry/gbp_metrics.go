package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/gbpdash/backend"

// Attribute keys shared by the instruments
var (
	AttrTenantID = attribute.Key("tenant_id")
	AttrResult   = attribute.Key("result")
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// syncDurationBuckets covers a single-location listing, review and Q&A import
var syncDurationBuckets = []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// GBPMetrics records Business Profile sync and publish outcomes
type GBPMetrics struct {
	syncTotal    metric.Int64Counter
	syncDuration metric.Float64Histogram
	publishTotal metric.Int64Counter
}

// NewGBPMetrics registers the instruments on provider
func NewGBPMetrics(provider metric.MeterProvider) (*GBPMetrics, error) {
	meter := provider.Meter(meterName)

	syncTotal, err := meter.Int64Counter(
		"gbp_location_sync_total",
		metric.WithDescription("Location synchronizations by result"),
		metric.WithUnit("{sync}"),
	)
	if err != nil {
		return nil, fmt.Errorf("gbp_location_sync_total: %w", err)
	}

	syncDuration, err := meter.Float64Histogram(
		"gbp_location_sync_duration_seconds",
		metric.WithDescription("Time spent synchronizing one location"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(syncDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("gbp_location_sync_duration_seconds: %w", err)
	}

	publishTotal, err := meter.Int64Counter(
		"gbp_post_publish_total",
		metric.WithDescription("Local post publish attempts by result"),
		metric.WithUnit("{post}"),
	)
	if err != nil {
		return nil, fmt.Errorf("gbp_post_publish_total: %w", err)
	}

	return &GBPMetrics{
		syncTotal:    syncTotal,
		syncDuration: syncDuration,
		publishTotal: publishTotal,
	}, nil
}

// RecordLocationSync counts one location sync and its duration
func (m *GBPMetrics) RecordLocationSync(ctx context.Context, tenantID uuid.UUID, succeeded bool, duration time.Duration) {
	attrs := metric.WithAttributes(AttrTenantID.String(tenantID.String()), AttrResult.String(result(succeeded)))
	m.syncTotal.Add(ctx, 1, attrs)
	m.syncDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordPostPublish counts one publish attempt
func (m *GBPMetrics) RecordPostPublish(ctx context.Context, tenantID uuid.UUID, succeeded bool) {
	m.publishTotal.Add(ctx, 1, metric.WithAttributes(
		AttrTenantID.String(tenantID.String()),
		AttrResult.String(result(succeeded)),
	))
}

func result(succeeded bool) string {
	if succeeded {
		return resultSuccess
	}
	return resultFailure
}
