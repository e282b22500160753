// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Mind covers cognitive health, emotional processing, mental clarity,
// learning, and decision-making patterns.
type Mind struct {
	base
}

func defaultMindLexicon() Lexicon {
	return Lexicon{
		"stress":    {"stressed", "anxious", "worried", "overwhelmed"},
		"fatigue":   {"tired", "exhausted", "drained", "burnout"},
		"clarity":   {"clear", "focused", "sharp", "alert"},
		"confusion": {"confused", "unclear", "foggy", "scattered"},
		"high_load": {"complex", "difficult", "challenging", "complicated"},
		"low_load":  {"simple", "easy", "straightforward", "basic"},
		"learning":  {"learn", "study", "understand", "figure out"},
		"decision":  {"decide", "choose", "determine", "figure out"},
		"mental_fatigue": {
			"exhausted", "tired", "burnout", "overwhelmed", "stressed",
			"can't think", "brain fog", "mental fatigue", "drained",
		},
		"crisis": {"harm myself", "suicide", "end it all", "can't go on"},
	}
}

// NewMind builds the mind evaluator with its default tables.
func NewMind(opts ...Option) *Mind {
	return &Mind{base: newBase(
		core.RoleMind,
		"Cognitive health, emotional processing, mental clarity, learning, and decision-making patterns",
		defaultMindLexicon(),
		opts,
	)}
}

// Evaluate scores input from the cognitive and emotional perspective.
func (m *Mind) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	load := m.assessCognitiveLoad(text, state)
	emotional := m.assessEmotionalState(text, state)
	fatigue := m.assessMentalFatigue(text, state)

	recommendation := m.recommend(load, emotional, fatigue)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.5, 0.15, load > 0.6, emotional > 0.5, fatigue > 0.6)

	return core.Response{
		Role:           m.Role(),
		Recommendation: recommendation,
		Reasoning:      m.reason(load, emotional, fatigue),
		Level:          cascade(maxOf(load, emotional, fatigue)),
		Metrics: core.Metrics{
			Role:        m.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(load, emotional, fatigue),
			Impact:      0.8,
			DataQuality: 0.9,
			Timestamp:   now,
			Metadata: map[string]any{
				"cognitive_load":    load,
				"emotional_state":   emotional,
				"fatigue_level":     fatigue,
				"keywords_detected": m.detectKeywords(text),
			},
		},
		Alternatives:   m.alternatives(load, emotional, fatigue),
		SafetyConcerns: m.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the cognitive
// perspective.
func (m *Mind) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	addressesCognitive := containsAny(text, "think", "focus", "clarity", "mental")
	addressesEmotional := containsAny(text, "stress", "calm", "relax", "emotional")
	addressesFatigue := containsAny(text, "rest", "break", "recovery", "sleep")

	load := state.Float("cognitive_load", 0.5)
	stress := state.Float("stress_level", 0.5)
	fatigue := state.Float("mental_fatigue", 0.5)

	switch {
	case addressesCognitive && load > 0.7:
		return core.AgreementAgree, nil
	case addressesEmotional && stress > 0.6:
		return core.AgreementAgree, nil
	case addressesFatigue && fatigue > 0.6:
		return core.AgreementAgree, nil
	case strings.Contains(text, "work") && fatigue > 0.8:
		return core.AgreementDisagree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the mind metrics from context alone.
func (m *Mind) Metrics(state core.Context) core.Metrics {
	load := state.Float("cognitive_load", 0.5)
	stress := state.Float("stress_level", 0.5)
	fatigue := state.Float("mental_fatigue", 0.5)

	return core.Metrics{
		Role:        m.Role(),
		Confidence:  0.8,
		Urgency:     maxOf(load, stress, fatigue),
		Impact:      0.8,
		DataQuality: 0.9,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"cognitive_load": load,
			"stress_level":   stress,
			"mental_fatigue": fatigue,
		},
	}
}

// SafetyConcerns scans for cognitive hazards.
func (m *Mind) SafetyConcerns(recommendation string, state core.Context) []string {
	var concerns []string
	text := strings.ToLower(recommendation)

	if state.Float("cognitive_load", 0) > 0.9 {
		concerns = append(concerns, "Extreme cognitive overload detected")
	}
	if countHits(text, m.lex.terms("crisis")) > 0 {
		concerns = append(concerns, "Potential mental health crisis indicators detected")
	}
	if state.Float("mental_fatigue", 0) > 0.8 && strings.Contains(text, "work") {
		concerns = append(concerns, "High burnout risk - work recommendation may be harmful")
	}
	return concerns
}

// detectKeywords lists the emotional and cognitive lexicon terms present in
// the input, in category order. A term carried by two categories appears
// twice, matching how the scoring counts it.
func (m *Mind) detectKeywords(text string) []string {
	categories := []string{
		"stress", "fatigue", "clarity", "confusion",
		"high_load", "low_load", "learning", "decision",
	}
	var keywords []string
	for _, category := range categories {
		for _, term := range m.lex.terms(category) {
			if strings.Contains(text, term) {
				keywords = append(keywords, term)
			}
		}
	}
	return keywords
}

func (m *Mind) assessCognitiveLoad(text string, state core.Context) float64 {
	score := 0.5
	score += float64(countHits(text, m.lex.terms("high_load"))) * 0.1
	score += float64(countHits(text, m.lex.terms("learning"))) * 0.05
	return clamp01(blend(score, state, "cognitive_load"))
}

func (m *Mind) assessEmotionalState(text string, state core.Context) float64 {
	score := float64(countHits(text, m.lex.terms("stress"))) * 0.2
	score += float64(countHits(text, m.lex.terms("fatigue"))) * 0.15
	return clamp01(blend(score, state, "stress_level"))
}

func (m *Mind) assessMentalFatigue(text string, state core.Context) float64 {
	score := float64(countHits(text, m.lex.terms("mental_fatigue"))) * 0.2
	return clamp01(blend(score, state, "mental_fatigue"))
}

func (m *Mind) recommend(load, emotional, fatigue float64) string {
	switch {
	case fatigue > 0.7:
		return "Consider taking a mental break to restore cognitive clarity"
	case emotional > 0.6:
		return "Focus on stress management techniques before continuing"
	case load > 0.8:
		return "Break down complex tasks into smaller, manageable steps"
	default:
		return "Your cognitive state appears balanced for current activities"
	}
}

func (m *Mind) alternatives(load, emotional, fatigue float64) []string {
	var alts []string
	if fatigue > 0.6 {
		alts = append(alts, "Take a 15-minute meditation break", "Switch to a less demanding task temporarily")
	}
	if emotional > 0.5 {
		alts = append(alts, "Practice deep breathing exercises", "Step away for a brief walk")
	}
	if load > 0.7 {
		alts = append(alts, "Create a prioritized task list", "Ask for help or collaboration")
	}
	return alts
}

func (m *Mind) reason(load, emotional, fatigue float64) string {
	var reasons []string
	if fatigue > 0.6 {
		reasons = append(reasons, "Mental fatigue detected ("+pct(fatigue)+")")
	}
	if emotional > 0.5 {
		reasons = append(reasons, "Elevated stress levels ("+pct(emotional)+")")
	}
	if load > 0.7 {
		reasons = append(reasons, "High cognitive load ("+pct(load)+")")
	}
	if len(reasons) == 0 {
		return "Mind domain analysis: Cognitive state appears balanced"
	}
	return "Mind domain analysis: " + strings.Join(reasons, "; ")
}
