// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func findAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRoundAttributes(t *testing.T) {
	attrs := RoundAttributes("round-1", 42)

	if v, ok := findAttr(attrs, AttrRoundID); !ok || v.AsString() != "round-1" {
		t.Errorf("round id attribute missing or wrong: %v", attrs)
	}
	if v, ok := findAttr(attrs, AttrInputLength); !ok || v.AsInt64() != 42 {
		t.Errorf("input length attribute missing or wrong: %v", attrs)
	}
}

func TestConsensusAttributes(t *testing.T) {
	attrs := ConsensusAttributes("safety_block", 1, 0.9, true)

	if v, ok := findAttr(attrs, AttrConsensusBucket); !ok || v.AsString() != "safety_block" {
		t.Errorf("bucket attribute missing or wrong: %v", attrs)
	}
	if v, ok := findAttr(attrs, AttrConflictCount); !ok || v.AsInt64() != 1 {
		t.Errorf("conflict count attribute missing or wrong: %v", attrs)
	}
	if v, ok := findAttr(attrs, AttrConfidence); !ok || v.AsFloat64() != 0.9 {
		t.Errorf("confidence attribute missing or wrong: %v", attrs)
	}
	if v, ok := findAttr(attrs, AttrVetoed); !ok || !v.AsBool() {
		t.Errorf("vetoed attribute missing or wrong: %v", attrs)
	}
}

func TestRoleAttributes(t *testing.T) {
	attrs := RoleAttributes("safety")
	if v, ok := findAttr(attrs, AttrRole); !ok || v.AsString() != "safety" {
		t.Errorf("role attribute missing or wrong: %v", attrs)
	}
}
