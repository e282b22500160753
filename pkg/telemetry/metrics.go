// SPDX-License-Identifier: Apache-2.0
// Package telemetry provides observability for the HHAC council: trace-aware
// slog configuration, OpenTelemetry SDK setup, and the council metric set.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

// CouncilMetrics tracks deliberation rounds, safety vetoes, and per-role
// degradation for production monitoring.
type CouncilMetrics struct {
	// roundCounter tracks completed rounds by consensus bucket
	roundCounter metric.Int64Counter

	// vetoCounter tracks rounds terminated by a safety block
	vetoCounter metric.Int64Counter

	// fallbackCounter tracks role evaluations degraded to a fallback response
	fallbackCounter metric.Int64Counter

	// errorCounter tracks council errors by code
	errorCounter metric.Int64Counter

	// roundDuration records wall-clock round latency in milliseconds
	roundDuration metric.Float64Histogram
}

// NewCouncilMetrics creates the council metric set with OTEL meters.
func NewCouncilMetrics() (*CouncilMetrics, error) {
	meter := otel.Meter("hhac/council")

	roundCounter, err := meter.Int64Counter(
		"hhac.council.rounds",
		metric.WithDescription("Completed deliberation rounds by consensus bucket"),
	)
	if err != nil {
		return nil, err
	}

	vetoCounter, err := meter.Int64Counter(
		"hhac.council.vetoes",
		metric.WithDescription("Rounds terminated by a safety block"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCounter, err := meter.Int64Counter(
		"hhac.council.fallbacks",
		metric.WithDescription("Role evaluations degraded to a fallback response"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"hhac.errors.total",
		metric.WithDescription("Council errors by code"),
	)
	if err != nil {
		return nil, err
	}

	roundDuration, err := meter.Float64Histogram(
		"hhac.council.round_duration_ms",
		metric.WithDescription("Deliberation round latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &CouncilMetrics{
		roundCounter:    roundCounter,
		vetoCounter:     vetoCounter,
		fallbackCounter: fallbackCounter,
		errorCounter:    errorCounter,
		roundDuration:   roundDuration,
	}, nil
}

// RecordRound records a completed round under its consensus bucket.
func (cm *CouncilMetrics) RecordRound(ctx context.Context, bucket string, elapsed time.Duration) {
	if cm == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrConsensusBucket, bucket))
	cm.roundCounter.Add(ctx, 1, attrs)
	cm.roundDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// RecordVeto records a round terminated by the safety role.
func (cm *CouncilMetrics) RecordVeto(ctx context.Context) {
	if cm == nil {
		return
	}
	cm.vetoCounter.Add(ctx, 1)
}

// RecordFallback records one role degrading to its fallback response.
func (cm *CouncilMetrics) RecordFallback(ctx context.Context, role string) {
	if cm == nil {
		return
	}
	cm.fallbackCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(AttrRole, role)),
	)
}

// RecordError increments the error counter for the given error.
func (cm *CouncilMetrics) RecordError(ctx context.Context, err error, component string) {
	if cm == nil || err == nil {
		return
	}
	ce := errors.AsCouncilError(err)
	cm.errorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error.code", string(ce.Code)),
			attribute.String("component", component),
			attribute.String("recoverable", ce.RecoverableString()),
		),
	)
}
