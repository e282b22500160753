// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for council telemetry. These follow OpenTelemetry
// naming conventions where applicable.
const (
	AttrRole            = "hhac.role"
	AttrRoundID         = "hhac.round.id"
	AttrConsensusBucket = "hhac.consensus.bucket"
	AttrConflictCount   = "hhac.consensus.conflicts"
	AttrConfidence      = "hhac.consensus.confidence"
	AttrVetoed          = "hhac.round.vetoed"
	AttrInputLength     = "hhac.round.input_length"
	AttrFallbackCount   = "hhac.round.fallbacks"
)

// RoundAttributes returns common attributes for deliberation-round spans.
func RoundAttributes(roundID string, inputLength int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRoundID, roundID),
		attribute.Int(AttrInputLength, inputLength),
	}
}

// ConsensusAttributes returns attributes describing a round's outcome.
func ConsensusAttributes(bucket string, conflicts int, confidence float64, vetoed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrConsensusBucket, bucket),
		attribute.Int(AttrConflictCount, conflicts),
		attribute.Float64(AttrConfidence, confidence),
		attribute.Bool(AttrVetoed, vetoed),
	}
}

// RoleAttributes returns attributes for a single role-evaluation span.
func RoleAttributes(role string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRole, role),
	}
}
