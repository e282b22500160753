// SPDX-License-Identifier: Apache-2.0

package synthesis

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

func respond(role core.Role, level core.AgreementLevel) core.Response {
	return core.Response{
		Role:           role,
		Recommendation: fmt.Sprintf("%s recommendation", role),
		Reasoning:      fmt.Sprintf("%s reasoning", role),
		Level:          level,
		Confidence:     0.5,
		Timestamp:      time.Now().UTC(),
	}
}

func fullCouncil(levels map[core.Role]core.AgreementLevel) map[core.Role]core.Response {
	responses := make(map[core.Role]core.Response, len(core.Roles()))
	for _, role := range core.Roles() {
		level, ok := levels[role]
		if !ok {
			level = core.AgreementNeutral
		}
		responses[role] = respond(role, level)
	}
	return responses
}

func consensusOf(overall core.AgreementLevel) core.ConsensusResult {
	return core.ConsensusResult{
		Overall:    overall,
		Confidence: 0.65,
		Timestamp:  time.Now().UTC(),
	}
}

func TestStrongAgreementLeadsWithPriorityRole(t *testing.T) {
	responses := fullCouncil(map[core.Role]core.AgreementLevel{
		core.RoleSafety: core.AgreementStrong,
		core.RoleMind:   core.AgreementStrong,
		core.RoleBody:   core.AgreementAgree,
		core.RoleRest:   core.AgreementAgree,
	})

	final := New().Synthesize(responses, consensusOf(core.AgreementStrong))

	if final.Recommendation != "safety recommendation" {
		t.Errorf("expected safety to lead, got %q", final.Recommendation)
	}
	if !strings.HasPrefix(final.Reasoning, "Strong council agreement. ") {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}
	// Next two agreeing roles by priority are mind then body.
	if !strings.Contains(final.Reasoning, "mind: mind reasoning; body: body reasoning") {
		t.Errorf("supporting insights missing or misordered: %q", final.Reasoning)
	}
	if final.Confidence != 0.65 {
		t.Errorf("final confidence must come from consensus, got %v", final.Confidence)
	}
}

func TestStrongAgreementFallsBackWithFewSupporters(t *testing.T) {
	responses := fullCouncil(map[core.Role]core.AgreementLevel{
		core.RoleMind: core.AgreementStrong,
		core.RoleBody: core.AgreementAgree,
	})

	final := New().Synthesize(responses, consensusOf(core.AgreementStrong))

	if !strings.HasPrefix(final.Reasoning, "Council agreement. ") {
		t.Errorf("expected fallback to agreement strategy, got %q", final.Reasoning)
	}
	if final.Recommendation != "mind recommendation" {
		t.Errorf("expected mind to lead, got %q", final.Recommendation)
	}
}

func TestAgreementFallsThroughToNeutral(t *testing.T) {
	responses := fullCouncil(nil)

	final := New().Synthesize(responses, consensusOf(core.AgreementAgree))

	if final.Recommendation != "Consider your current needs and choose what feels right for you" {
		t.Errorf("expected generic neutral message, got %q", final.Recommendation)
	}
	if final.Reasoning != "Council domains are neutral - trust your judgment" {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}
}

func TestNeutralPrefersConfidentRoles(t *testing.T) {
	responses := fullCouncil(nil)
	body := responses[core.RoleBody]
	body.Confidence = 0.8
	responses[core.RoleBody] = body

	final := New().Synthesize(responses, consensusOf(core.AgreementNeutral))

	if final.Recommendation != "body recommendation" {
		t.Errorf("expected confident body to lead, got %q", final.Recommendation)
	}
	if !strings.HasPrefix(final.Reasoning, "Mixed council response. ") {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}
}

func TestDisagreementPresentsPerspectives(t *testing.T) {
	responses := fullCouncil(map[core.Role]core.AgreementLevel{
		core.RoleMind: core.AgreementAgree,
		core.RoleRest: core.AgreementAgree,
		core.RoleBody: core.AgreementDisagree,
		core.RoleFuel: core.AgreementDisagree,
	})

	final := New().Synthesize(responses, consensusOf(core.AgreementDisagree))

	want := "Multiple perspectives: mind: mind recommendation; rest: rest recommendation"
	if final.Recommendation != want {
		t.Errorf("got %q, want %q", final.Recommendation, want)
	}
	if final.Reasoning != "Council domains have different views - consider all perspectives" {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}
}

func TestDisagreementWithNoSupportersEscalates(t *testing.T) {
	responses := fullCouncil(map[core.Role]core.AgreementLevel{
		core.RoleBody: core.AgreementDisagree,
		core.RoleFuel: core.AgreementStrongDisagree,
	})

	final := New().Synthesize(responses, consensusOf(core.AgreementDisagree))

	if !strings.HasPrefix(final.Recommendation, "I'm seeing conflicting needs") {
		t.Errorf("expected conflicting-needs message, got %q", final.Recommendation)
	}
	if final.Reasoning != "Strong disagreement detected - presenting all perspectives for your consideration" {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}
}

func TestSafetyBlockPassthrough(t *testing.T) {
	responses := fullCouncil(map[core.Role]core.AgreementLevel{
		core.RoleMind: core.AgreementStrong,
	})
	safety := responses[core.RoleSafety]
	safety.Level = core.AgreementSafetyBlock
	safety.Recommendation = "CRISIS: Please contact emergency services or a crisis hotline immediately"
	safety.Reasoning = "SAFETY ALERT: CRISIS DETECTED (90.0%)"
	safety.Alternatives = []string{"Contact National Suicide Prevention Lifeline: 988"}
	safety.SafetyConcerns = []string{"CRISIS: Immediate intervention may be required"}
	safety.Confidence = 0.9
	responses[core.RoleSafety] = safety

	cons := consensusOf(core.AgreementSafetyBlock)
	final := New().Synthesize(responses, cons)

	if final.Recommendation != safety.Recommendation {
		t.Errorf("block must pass safety recommendation through, got %q", final.Recommendation)
	}
	if final.Reasoning != "SAFETY BLOCK: "+safety.Reasoning {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}
	if final.Confidence != 0.9 {
		t.Errorf("block must carry safety confidence, got %v", final.Confidence)
	}
	if len(final.Insights) != 7 {
		t.Fatalf("insights must keep all seven keys, got %d", len(final.Insights))
	}
	if final.Insights[core.RoleSafety] != safety.Reasoning {
		t.Errorf("safety insight lost: %q", final.Insights[core.RoleSafety])
	}
	for _, role := range core.Roles() {
		if role == core.RoleSafety {
			continue
		}
		if final.Insights[role] != "Superseded by safety block" {
			t.Errorf("%s insight should be superseded, got %q", role, final.Insights[role])
		}
	}
	if len(final.Alternatives) != 1 {
		t.Errorf("block alternatives must come from safety only, got %v", final.Alternatives)
	}
}

func TestAlternativesDedupedAndCapped(t *testing.T) {
	responses := fullCouncil(nil)
	for _, role := range core.Roles() {
		resp := responses[role]
		resp.Alternatives = []string{"shared option", fmt.Sprintf("%s option", role)}
		responses[role] = resp
	}

	final := New().Synthesize(responses, consensusOf(core.AgreementNeutral))

	if len(final.Alternatives) != 5 {
		t.Fatalf("expected 5 alternatives, got %d: %v", len(final.Alternatives), final.Alternatives)
	}
	if final.Alternatives[0] != "shared option" {
		t.Errorf("expected canonical-order dedup with shared option first, got %v", final.Alternatives)
	}
	seen := map[string]bool{}
	for _, alt := range final.Alternatives {
		if seen[alt] {
			t.Errorf("duplicate alternative %q", alt)
		}
		seen[alt] = true
	}
}

func TestConcernsMergedUntruncated(t *testing.T) {
	responses := fullCouncil(nil)
	for _, role := range core.Roles() {
		resp := responses[role]
		resp.SafetyConcerns = []string{"shared concern", fmt.Sprintf("%s concern", role)}
		responses[role] = resp
	}

	final := New().Synthesize(responses, consensusOf(core.AgreementNeutral))

	// One shared concern plus seven per-role concerns.
	if len(final.SafetyConcerns) != 8 {
		t.Errorf("expected 8 merged concerns, got %d: %v", len(final.SafetyConcerns), final.SafetyConcerns)
	}
}

func TestInsightsAlwaysCarrySevenKeys(t *testing.T) {
	final := New().Synthesize(fullCouncil(nil), consensusOf(core.AgreementNeutral))
	if len(final.Insights) != 7 {
		t.Fatalf("expected 7 insights, got %d", len(final.Insights))
	}
	for _, role := range core.Roles() {
		if final.Insights[role] != fmt.Sprintf("%s reasoning", role) {
			t.Errorf("%s insight = %q", role, final.Insights[role])
		}
	}
}
