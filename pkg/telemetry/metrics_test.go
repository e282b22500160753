// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

func TestNewCouncilMetrics(t *testing.T) {
	cm, err := NewCouncilMetrics()
	if err != nil {
		t.Fatalf("NewCouncilMetrics failed: %v", err)
	}
	if cm == nil {
		t.Fatal("expected metric set")
	}

	// The global meter provider defaults to a no-op; recording must not panic.
	ctx := context.Background()
	cm.RecordRound(ctx, "agreement", 25*time.Millisecond)
	cm.RecordVeto(ctx)
	cm.RecordFallback(ctx, "fuel")
	cm.RecordError(ctx, errors.New(errors.CodeEvaluation, "boom", nil), "council")
	cm.RecordError(ctx, nil, "council")
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var cm *CouncilMetrics
	ctx := context.Background()

	cm.RecordRound(ctx, "neutral", time.Second)
	cm.RecordVeto(ctx)
	cm.RecordFallback(ctx, "mind")
	cm.RecordError(ctx, errors.New(errors.CodeInternal, "boom", nil), "journal")
}
