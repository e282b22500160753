// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Rest covers sleep, recovery, restoration, and processing time.
type Rest struct {
	base
}

func defaultRestLexicon() Lexicon {
	return Lexicon{
		"sleep_debt": {"sleepy", "insomnia", "no sleep", "sleep deprived", "awake all night"},
		"recovery":   {"rest", "break", "recover", "recharge", "pause"},
		"overwork":   {"nonstop", "overtime", "all-nighter", "no breaks", "grinding"},
		"restored":   {"rested", "refreshed", "recovered", "recharged"},
	}
}

// NewRest builds the rest evaluator with its default tables.
func NewRest(opts ...Option) *Rest {
	return &Rest{base: newBase(
		core.RoleRest,
		"Sleep, recovery, restoration, and processing time",
		defaultRestLexicon(),
		opts,
	)}
}

// Evaluate scores input from the recovery perspective.
func (r *Rest) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	sleepDebt := r.assessSleepDebt(text, state)
	restNeed := r.assessRestNeed(text, state)

	recommendation := r.recommend(sleepDebt, restNeed)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.5, 0.12, sleepDebt > 0.6, restNeed > 0.5)

	return core.Response{
		Role:           r.Role(),
		Recommendation: recommendation,
		Reasoning:      r.reason(sleepDebt, restNeed),
		Level:          cascade(maxOf(sleepDebt, restNeed)),
		Metrics: core.Metrics{
			Role:        r.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(sleepDebt, restNeed),
			Impact:      0.6,
			DataQuality: 0.9,
			Timestamp:   now,
			Metadata: map[string]any{
				"sleep_pressure": sleepDebt,
				"rest_need":      restNeed,
			},
		},
		Alternatives:   r.alternatives(sleepDebt, restNeed),
		SafetyConcerns: r.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the recovery
// perspective.
func (r *Rest) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	addressesRest := containsAny(text, "rest", "sleep", "break", "nap", "recover")

	restNeed := state.Float("rest_need", 0.5)
	sleepPressure := state.Float("sleep_pressure", 0.5)

	switch {
	case addressesRest && sleepPressure > 0.7:
		return core.AgreementStrong, nil
	case addressesRest && restNeed > 0.6:
		return core.AgreementAgree, nil
	case strings.Contains(text, "work") && sleepPressure > 0.8:
		return core.AgreementDisagree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the rest metrics from context alone.
func (r *Rest) Metrics(state core.Context) core.Metrics {
	sleepPressure := state.Float("sleep_pressure", 0.5)
	restNeed := state.Float("rest_need", 0.5)

	return core.Metrics{
		Role:        r.Role(),
		Confidence:  0.8,
		Urgency:     maxOf(sleepPressure, restNeed),
		Impact:      0.6,
		DataQuality: 0.9,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"sleep_pressure": sleepPressure,
			"rest_need":      restNeed,
		},
	}
}

// SafetyConcerns scans for recovery-related hazards.
func (r *Rest) SafetyConcerns(recommendation string, state core.Context) []string {
	var concerns []string
	text := strings.ToLower(recommendation)

	if state.Float("sleep_pressure", 0) > 0.8 && containsAny(text, "work", "drive") {
		concerns = append(concerns, "Severe sleep deprivation - demanding activity may be hazardous")
	}
	return concerns
}

func (r *Rest) assessSleepDebt(text string, state core.Context) float64 {
	score := float64(countHits(text, r.lex.terms("sleep_debt"))) * 0.2
	score += float64(countHits(text, r.lex.terms("overwork"))) * 0.15
	score -= float64(countHits(text, r.lex.terms("restored"))) * 0.15
	return clamp01(blend(score, state, "sleep_pressure"))
}

func (r *Rest) assessRestNeed(text string, state core.Context) float64 {
	score := float64(countHits(text, r.lex.terms("recovery"))) * 0.15
	score += float64(countHits(text, r.lex.terms("overwork"))) * 0.2
	return clamp01(blend(score, state, "rest_need"))
}

func (r *Rest) recommend(sleepDebt, restNeed float64) string {
	switch {
	case sleepDebt > 0.7:
		return "Prioritize sleep tonight - your recovery debt is high"
	case restNeed > 0.6:
		return "Consider taking a rest break"
	default:
		return "Your recovery needs appear balanced"
	}
}

func (r *Rest) alternatives(sleepDebt, restNeed float64) []string {
	var alts []string
	if sleepDebt > 0.5 {
		alts = append(alts, "Take a short nap", "Plan an earlier bedtime tonight")
	}
	if restNeed > 0.5 {
		alts = append(alts, "Practice relaxation", "Step away from screens for ten minutes")
	}
	return alts
}

func (r *Rest) reason(sleepDebt, restNeed float64) string {
	var reasons []string
	if sleepDebt > 0.6 {
		reasons = append(reasons, "Sleep pressure elevated ("+pct(sleepDebt)+")")
	}
	if restNeed > 0.5 {
		reasons = append(reasons, "Recovery needs detected ("+pct(restNeed)+")")
	}
	if len(reasons) == 0 {
		return "Rest domain analysis: Recovery state appears balanced"
	}
	return "Rest domain analysis: " + strings.Join(reasons, "; ")
}
