// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Purpose covers meaning, goals, contribution, and legacy building.
type Purpose struct {
	base
}

func defaultPurposeLexicon() Lexicon {
	return Lexicon{
		"meaning_loss": {"pointless", "meaningless", "why bother", "stuck", "aimless"},
		"goals":        {"goal", "project", "finish", "achieve", "deadline"},
		"drive":        {"motivated", "inspired", "driven", "excited", "committed"},
		"contribution": {"help others", "contribute", "give back", "volunteer", "legacy"},
	}
}

// NewPurpose builds the purpose evaluator with its default tables.
func NewPurpose(opts ...Option) *Purpose {
	return &Purpose{base: newBase(
		core.RolePurpose,
		"Meaning, goals, contribution, and legacy building",
		defaultPurposeLexicon(),
		opts,
	)}
}

// Evaluate scores input from the meaning and goals perspective.
func (p *Purpose) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	meaningNeed := p.assessMeaningNeed(text, state)
	goalPressure := p.assessGoalPressure(text, state)

	recommendation := p.recommend(meaningNeed, goalPressure)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.5, 0.12, meaningNeed > 0.5, goalPressure > 0.6)

	return core.Response{
		Role:           p.Role(),
		Recommendation: recommendation,
		Reasoning:      p.reason(meaningNeed, goalPressure),
		Level:          cascade(maxOf(meaningNeed, goalPressure)),
		Metrics: core.Metrics{
			Role:        p.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(meaningNeed, goalPressure),
			Impact:      0.7,
			DataQuality: 0.9,
			Timestamp:   now,
			Metadata: map[string]any{
				"meaning_need":  meaningNeed,
				"goal_pressure": goalPressure,
			},
		},
		Alternatives:   p.alternatives(meaningNeed, goalPressure),
		SafetyConcerns: p.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the meaning
// perspective.
func (p *Purpose) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	addressesPurpose := containsAny(text, "goal", "meaning", "value", "purpose", "progress")

	meaningNeed := state.Float("meaning_need", 0.5)
	goalAlignment := state.Float("goal_alignment", 0.5)

	switch {
	case addressesPurpose && meaningNeed > 0.6:
		return core.AgreementAgree, nil
	case containsAny(text, "give up", "quit") && goalAlignment > 0.7:
		return core.AgreementDisagree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the purpose metrics from context alone.
func (p *Purpose) Metrics(state core.Context) core.Metrics {
	meaningNeed := state.Float("meaning_need", 0.5)
	goalAlignment := state.Float("goal_alignment", 0.5)

	return core.Metrics{
		Role:        p.Role(),
		Confidence:  0.8,
		Urgency:     maxOf(meaningNeed, 1-goalAlignment),
		Impact:      0.7,
		DataQuality: 0.9,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"meaning_need":   meaningNeed,
			"goal_alignment": goalAlignment,
		},
	}
}

// SafetyConcerns scans for meaning-related hazards.
func (p *Purpose) SafetyConcerns(_ string, state core.Context) []string {
	var concerns []string
	if state.Float("meaning_need", 0) > 0.8 {
		concerns = append(concerns, "Strong loss-of-meaning signals - consider professional support")
	}
	return concerns
}

func (p *Purpose) assessMeaningNeed(text string, state core.Context) float64 {
	score := float64(countHits(text, p.lex.terms("meaning_loss"))) * 0.25
	score -= float64(countHits(text, p.lex.terms("drive"))) * 0.1
	return clamp01(blend(score, state, "meaning_need"))
}

func (p *Purpose) assessGoalPressure(text string, state core.Context) float64 {
	score := float64(countHits(text, p.lex.terms("goals"))) * 0.15
	score += float64(countHits(text, p.lex.terms("contribution"))) * 0.1
	return clamp01(blend(score, state, "goal_pressure"))
}

func (p *Purpose) recommend(meaningNeed, goalPressure float64) string {
	switch {
	case meaningNeed > 0.6:
		return "Reconnect with what matters to you before pushing forward"
	case goalPressure > 0.6:
		return "Consider your goals and values"
	default:
		return "Your sense of purpose appears balanced"
	}
}

func (p *Purpose) alternatives(meaningNeed, goalPressure float64) []string {
	var alts []string
	if meaningNeed > 0.5 {
		alts = append(alts, "Reflect on your values", "Revisit why this work matters to you")
	}
	if goalPressure > 0.5 {
		alts = append(alts, "Set clear goals", "Break the goal into one next step")
	}
	return alts
}

func (p *Purpose) reason(meaningNeed, goalPressure float64) string {
	var reasons []string
	if meaningNeed > 0.5 {
		reasons = append(reasons, "Meaning need detected ("+pct(meaningNeed)+")")
	}
	if goalPressure > 0.5 {
		reasons = append(reasons, "Goal alignment detected ("+pct(goalPressure)+")")
	}
	if len(reasons) == 0 {
		return "Purpose domain analysis: Sense of purpose appears balanced"
	}
	return "Purpose domain analysis: " + strings.Join(reasons, "; ")
}
