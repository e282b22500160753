// SPDX-License-Identifier: Apache-2.0
// Package consensus implements the weighted agreement aggregator. It folds the
// seven per-role verdicts of a round into a single ConsensusResult: an overall
// agreement level, conflict diagnostics, and a confidence score.
package consensus

import (
	"fmt"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Role weights for the aggregate. Safety carries full weight; the others
// taper by how directly they gate action.
func defaultWeights() map[core.Role]float64 {
	return map[core.Role]float64{
		core.RoleSafety:  1.0,
		core.RoleMind:    0.9,
		core.RoleBody:    0.8,
		core.RolePurpose: 0.7,
		core.RoleBelong:  0.6,
		core.RoleRest:    0.6,
		core.RoleFuel:    0.5,
	}
}

// Cut-points for mapping the weighted aggregate back to a level. Compared
// with >= in descending order.
const (
	strongThreshold   = 0.8
	agreeThreshold    = 0.6
	neutralThreshold  = 0.4
	disagreeThreshold = 0.2
)

// Aggregator folds role responses into a consensus. A zero-value Aggregator
// is not usable; construct with New.
type Aggregator struct {
	weights map[core.Role]float64
}

// New returns an aggregator with the standard role weights.
func New() *Aggregator {
	return &Aggregator{weights: defaultWeights()}
}

// LevelScore maps an agreement level to its numeric score. The safety_block
// sentinel scores -1.0 so any block drags the aggregate hard negative even if
// a caller feeds one through the numeric path.
func LevelScore(level core.AgreementLevel) float64 {
	switch level {
	case core.AgreementStrong:
		return 1.0
	case core.AgreementAgree:
		return 0.8
	case core.AgreementNeutral:
		return 0.5
	case core.AgreementDisagree:
		return 0.2
	case core.AgreementStrongDisagree:
		return 0.0
	case core.AgreementSafetyBlock:
		return -1.0
	default:
		return 0.5
	}
}

// Aggregate folds the round's responses into a ConsensusResult. A safety
// block in the response set short-circuits everything else; this is a second
// line of defense behind the council's own veto check.
func (a *Aggregator) Aggregate(responses map[core.Role]core.Response) core.ConsensusResult {
	now := time.Now().UTC()

	if safety, ok := responses[core.RoleSafety]; ok && safety.Level == core.AgreementSafetyBlock {
		return core.ConsensusResult{
			Overall:    core.AgreementSafetyBlock,
			ByRole:     map[core.Role]core.AgreementLevel{core.RoleSafety: core.AgreementSafetyBlock},
			Conflicts:  []string{"Safety domain blocked recommendation"},
			Confidence: safety.Confidence,
			Reasoning:  "SAFETY BLOCK: " + safety.Reasoning,
			Timestamp:  now,
		}
	}

	byRole := make(map[core.Role]core.AgreementLevel, len(responses))
	var weightedSum, weightTotal float64
	for role, resp := range responses {
		byRole[role] = resp.Level
		w := a.weights[role]
		weightedSum += w * LevelScore(resp.Level)
		weightTotal += w
	}

	overall := core.AgreementNeutral
	if weightTotal > 0 {
		overall = levelFromScore(weightedSum / weightTotal)
	}

	conflicts := detectConflicts(responses)

	return core.ConsensusResult{
		Overall:    overall,
		ByRole:     byRole,
		Conflicts:  conflicts,
		Confidence: confidence(responses, len(conflicts)),
		Reasoning:  reasoning(responses, conflicts),
		Timestamp:  now,
	}
}

// levelFromScore maps the weighted aggregate back to a level through the
// descending cut-points.
func levelFromScore(score float64) core.AgreementLevel {
	switch {
	case score >= strongThreshold:
		return core.AgreementStrong
	case score >= agreeThreshold:
		return core.AgreementAgree
	case score >= neutralThreshold:
		return core.AgreementNeutral
	case score >= disagreeThreshold:
		return core.AgreementDisagree
	default:
		return core.AgreementStrongDisagree
	}
}

// conflictPair names two roles whose exact agreement/disagreement split is a
// known tension worth surfacing.
type conflictPair struct {
	a, b    core.Role
	message string
}

func conflictPairs() []conflictPair {
	return []conflictPair{
		{core.RoleMind, core.RoleBody, "Mind-Body conflict: Mental needs vs physical limitations"},
		{core.RoleRest, core.RolePurpose, "Rest-Purpose conflict: Recovery needs vs achievement goals"},
		{core.RoleFuel, core.RoleBody, "Fuel-Body conflict: Nutritional needs vs physical state"},
	}
}

// detectConflicts surfaces the three diagnostic categories: roles in strong
// disagreement, insufficient agreement breadth, and the named pairwise
// tensions. Ordering is deterministic: strong-disagreement first, breadth
// second, pairs in their declared order.
func detectConflicts(responses map[core.Role]core.Response) []string {
	var conflicts []string

	var strongDisagree []string
	agreeing := 0
	for _, role := range core.Roles() {
		resp, ok := responses[role]
		if !ok {
			continue
		}
		if resp.Level == core.AgreementStrongDisagree {
			strongDisagree = append(strongDisagree, string(role))
		}
		if resp.Level.AtLeastAgreement() {
			agreeing++
		}
	}
	if len(strongDisagree) > 0 {
		conflicts = append(conflicts, "Strong disagreement from: "+strings.Join(strongDisagree, ", "))
	}
	if agreeing < 3 {
		conflicts = append(conflicts, "Insufficient domain agreement")
	}

	for _, pair := range conflictPairs() {
		ra, okA := responses[pair.a]
		rb, okB := responses[pair.b]
		if !okA || !okB {
			continue
		}
		if opposed(ra.Level, rb.Level) {
			conflicts = append(conflicts, pair.message)
		}
	}
	return conflicts
}

// opposed reports an exact agreement-vs-disagreement split in the pair's
// declared direction only; the reverse split stays silent. Strong variants
// do not trigger pairwise conflicts; those already surface through the
// strong-disagreement diagnostic.
func opposed(a, b core.AgreementLevel) bool {
	return a == core.AgreementAgree && b == core.AgreementDisagree
}

// confidence derives round confidence from the spread of unweighted level
// scores: 0.7 minus a variance penalty capped at 0.5, minus 0.1 per conflict,
// floored at zero.
func confidence(responses map[core.Role]core.Response, numConflicts int) float64 {
	if len(responses) == 0 {
		return 0
	}
	var sum float64
	for _, resp := range responses {
		sum += LevelScore(resp.Level)
	}
	mean := sum / float64(len(responses))

	var variance float64
	for _, resp := range responses {
		d := LevelScore(resp.Level) - mean
		variance += d * d
	}
	variance /= float64(len(responses))

	penalty := 2 * variance
	if penalty > 0.5 {
		penalty = 0.5
	}
	conf := 0.7 - penalty - 0.1*float64(numConflicts)
	if conf < 0 {
		return 0
	}
	return conf
}

// reasoning renders the per-level tallies as a single sentence.
func reasoning(responses map[core.Role]core.Response, conflicts []string) string {
	counts := map[core.AgreementLevel]int{}
	for _, resp := range responses {
		counts[resp.Level]++
	}

	var parts []string
	if n := counts[core.AgreementStrong]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d domains strongly agree", n))
	}
	if n := counts[core.AgreementAgree]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d domains agree", n))
	}
	if n := counts[core.AgreementDisagree]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d domains disagree", n))
	}
	if n := counts[core.AgreementStrongDisagree]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d domains strongly disagree", n))
	}
	if len(conflicts) > 0 {
		parts = append(parts, "Conflicts detected: "+strings.Join(conflicts, "; "))
	}
	if len(parts) == 0 {
		return "Council consensus: All domains neutral"
	}
	return "Council consensus: " + strings.Join(parts, "; ")
}
