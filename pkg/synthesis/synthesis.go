// SPDX-License-Identifier: Apache-2.0
// Package synthesis renders a round's responses and consensus into the single
// FinalRecommendation the council hands back. The consensus bucket selects the
// strategy; buckets degrade down the chain when their own preconditions fail.
package synthesis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Tie-break order for choosing which role's voice leads the final text.
// Lower wins.
func rolePriorities() map[core.Role]int {
	return map[core.Role]int{
		core.RoleSafety:  1,
		core.RoleMind:    2,
		core.RoleBody:    3,
		core.RolePurpose: 4,
		core.RoleBelong:  5,
		core.RoleRest:    6,
		core.RoleFuel:    7,
	}
}

// maxAlternatives caps the merged alternatives list on the final output.
const maxAlternatives = 5

// vetoInsightPlaceholder fills the six non-safety insight slots on a vetoed
// round so the seven-key contract holds.
const vetoInsightPlaceholder = "Superseded by safety block"

// Synthesizer builds final recommendations. Construct with New.
type Synthesizer struct {
	priorities map[core.Role]int
}

// New returns a synthesizer with the standard role priorities.
func New() *Synthesizer {
	return &Synthesizer{priorities: rolePriorities()}
}

// Synthesize renders the round outcome. The responses map is expected to hold
// all seven roles; degraded roles arrive as fallback responses, never as
// absent keys.
func (s *Synthesizer) Synthesize(responses map[core.Role]core.Response, consensus core.ConsensusResult) core.FinalRecommendation {
	now := time.Now().UTC()

	if consensus.Overall == core.AgreementSafetyBlock {
		return s.synthesizeBlock(responses, consensus, now)
	}

	var recommendation, reasoning string
	switch consensus.Overall {
	case core.AgreementStrong:
		recommendation, reasoning = s.strongAgreement(responses)
	case core.AgreementAgree:
		recommendation, reasoning = s.agreement(responses)
	case core.AgreementNeutral:
		recommendation, reasoning = s.neutral(responses)
	case core.AgreementDisagree:
		recommendation, reasoning = s.disagreement(responses)
	default:
		recommendation, reasoning = s.strongDisagreement()
	}

	return core.FinalRecommendation{
		Recommendation: recommendation,
		Reasoning:      reasoning,
		Alternatives:   mergeAlternatives(responses),
		Consensus:      consensus.Overall,
		Insights:       insights(responses),
		SafetyConcerns: mergeConcerns(responses),
		Confidence:     consensus.Confidence,
		Timestamp:      now,
	}
}

// synthesizeBlock passes the safety role's verdict through untouched. Nothing
// from the other six roles reaches the recommendation surface.
func (s *Synthesizer) synthesizeBlock(responses map[core.Role]core.Response, consensus core.ConsensusResult, now time.Time) core.FinalRecommendation {
	safety := responses[core.RoleSafety]

	blocked := make(map[core.Role]string, len(core.Roles()))
	for _, role := range core.Roles() {
		blocked[role] = vetoInsightPlaceholder
	}
	blocked[core.RoleSafety] = safety.Reasoning

	return core.FinalRecommendation{
		Recommendation: safety.Recommendation,
		Reasoning:      "SAFETY BLOCK: " + safety.Reasoning,
		Alternatives:   safety.Alternatives,
		Consensus:      core.AgreementSafetyBlock,
		Insights:       blocked,
		SafetyConcerns: safety.SafetyConcerns,
		Confidence:     safety.Confidence,
		Timestamp:      now,
	}
}

// agreeingByPriority returns the roles at agreement or better, highest
// priority first.
func (s *Synthesizer) agreeingByPriority(responses map[core.Role]core.Response) []core.Role {
	var roles []core.Role
	for _, role := range core.Roles() {
		if resp, ok := responses[role]; ok && resp.Level.AtLeastAgreement() {
			roles = append(roles, role)
		}
	}
	sort.SliceStable(roles, func(i, j int) bool {
		return s.priorities[roles[i]] < s.priorities[roles[j]]
	})
	return roles
}

func (s *Synthesizer) strongAgreement(responses map[core.Role]core.Response) (string, string) {
	agreeing := s.agreeingByPriority(responses)
	if len(agreeing) < 3 {
		return s.agreement(responses)
	}
	lead := responses[agreeing[0]]
	return lead.Recommendation, "Strong council agreement. " + roleInsights(responses, agreeing[1:], 2)
}

func (s *Synthesizer) agreement(responses map[core.Role]core.Response) (string, string) {
	agreeing := s.agreeingByPriority(responses)
	if len(agreeing) == 0 {
		return s.neutral(responses)
	}
	lead := responses[agreeing[0]]
	return lead.Recommendation, "Council agreement. " + roleInsights(responses, agreeing[1:], 2)
}

func (s *Synthesizer) neutral(responses map[core.Role]core.Response) (string, string) {
	var confident []core.Role
	for _, role := range core.Roles() {
		if resp, ok := responses[role]; ok && resp.Confidence > 0.6 {
			confident = append(confident, role)
		}
	}
	if len(confident) == 0 {
		return "Consider your current needs and choose what feels right for you",
			"Council domains are neutral - trust your judgment"
	}
	sort.SliceStable(confident, func(i, j int) bool {
		pi, pj := s.priorities[confident[i]], s.priorities[confident[j]]
		if pi != pj {
			return pi < pj
		}
		return responses[confident[i]].Confidence > responses[confident[j]].Confidence
	})
	lead := responses[confident[0]]
	return lead.Recommendation, "Mixed council response. " + roleInsights(responses, confident, 2)
}

func (s *Synthesizer) disagreement(responses map[core.Role]core.Response) (string, string) {
	agreeing := s.agreeingByPriority(responses)
	if len(agreeing) == 0 {
		return s.strongDisagreement()
	}
	if len(agreeing) > 2 {
		agreeing = agreeing[:2]
	}
	var views []string
	for _, role := range agreeing {
		views = append(views, fmt.Sprintf("%s: %s", role, responses[role].Recommendation))
	}
	return "Multiple perspectives: " + strings.Join(views, "; "),
		"Council domains have different views - consider all perspectives"
}

func (s *Synthesizer) strongDisagreement() (string, string) {
	return "I'm seeing conflicting needs between your domains that I'm not equipped to balance. Here's what each domain is signaling...",
		"Strong disagreement detected - presenting all perspectives for your consideration"
}

// roleInsights joins up to max "role: reasoning" fragments.
func roleInsights(responses map[core.Role]core.Response, roles []core.Role, max int) string {
	if len(roles) > max {
		roles = roles[:max]
	}
	var parts []string
	for _, role := range roles {
		parts = append(parts, fmt.Sprintf("%s: %s", role, responses[role].Reasoning))
	}
	return strings.Join(parts, "; ")
}

// mergeAlternatives unions per-role alternatives in canonical role order,
// deduplicated, capped at maxAlternatives.
func mergeAlternatives(responses map[core.Role]core.Response) []string {
	seen := map[string]bool{}
	var merged []string
	for _, role := range core.Roles() {
		resp, ok := responses[role]
		if !ok {
			continue
		}
		for _, alt := range resp.Alternatives {
			if seen[alt] {
				continue
			}
			seen[alt] = true
			merged = append(merged, alt)
			if len(merged) == maxAlternatives {
				return merged
			}
		}
	}
	return merged
}

// mergeConcerns unions per-role safety concerns, deduplicated, never
// truncated.
func mergeConcerns(responses map[core.Role]core.Response) []string {
	seen := map[string]bool{}
	var merged []string
	for _, role := range core.Roles() {
		resp, ok := responses[role]
		if !ok {
			continue
		}
		for _, c := range resp.SafetyConcerns {
			if seen[c] {
				continue
			}
			seen[c] = true
			merged = append(merged, c)
		}
	}
	return merged
}

// insights maps every role to its reasoning. All seven keys are always
// present on a non-vetoed round.
func insights(responses map[core.Role]core.Response) map[core.Role]string {
	out := make(map[core.Role]string, len(core.Roles()))
	for _, role := range core.Roles() {
		if resp, ok := responses[role]; ok {
			out[role] = resp.Reasoning
		} else {
			out[role] = "No evaluation available"
		}
	}
	return out
}
