// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Body covers physical health, movement, medical needs, pain management, and
// energy levels.
type Body struct {
	base
}

func defaultBodyLexicon() Lexicon {
	return Lexicon{
		"pain":     {"pain", "ache", "sore", "hurt", "discomfort", "tension"},
		"fatigue":  {"tired", "exhausted", "drained", "weak", "heavy"},
		"energy":   {"energetic", "strong", "vital", "powerful", "active"},
		"movement": {"exercise", "workout", "walk", "run", "stretch", "move"},
		"posture":  {"sit", "stand", "hunch", "slouch", "ergonomic"},
		"medical":  {"sick", "ill", "injury", "symptom", "doctor", "medical"},

		"musculoskeletal": {"muscle", "bone", "joint", "back", "neck", "shoulder"},
		"cardiovascular":  {"heart", "blood", "circulation", "breath", "chest"},
		"digestive":       {"stomach", "digest", "nausea", "appetite", "gut"},
		"nervous":         {"nervous", "tremor", "numbness", "tingling", "headache"},

		"emergency": {"chest pain", "difficulty breathing", "severe injury", "bleeding"},
		"strenuous": {"heavy lifting", "intense exercise", "strenuous activity"},
	}
}

var bodySystems = []string{"musculoskeletal", "cardiovascular", "digestive", "nervous"}

// NewBody builds the body evaluator with its default tables.
func NewBody(opts ...Option) *Body {
	return &Body{base: newBase(
		core.RoleBody,
		"Physical health, movement, medical needs, pain management, and energy levels",
		defaultBodyLexicon(),
		opts,
	)}
}

// Evaluate scores input from the physical health perspective.
func (b *Body) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	energy := b.assessEnergy(text, state)
	pain := b.assessPain(text, state)
	movement := b.assessMovementNeed(text, state)
	medical := b.assessMedicalConcern(text, state)

	recommendation := b.recommend(energy, pain, movement, medical)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.5, 0.12, energy < 0.4, pain > 0.5, movement > 0.5, medical > 0.6)

	return core.Response{
		Role:           b.Role(),
		Recommendation: recommendation,
		Reasoning:      b.reason(energy, pain, movement, medical),
		Level:          cascade(maxOf(1-energy, pain, movement, medical)),
		Metrics: core.Metrics{
			Role:        b.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(energy, pain, movement, medical),
			Impact:      0.7,
			DataQuality: 0.9,
			Timestamp:   now,
			Metadata: map[string]any{
				"energy_level":    energy,
				"pain_level":      pain,
				"movement_need":   movement,
				"medical_concern": medical,
				"systems":         b.affectedSystems(text),
			},
		},
		Alternatives:   b.alternatives(energy, pain, movement, medical),
		SafetyConcerns: b.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the physical
// perspective.
func (b *Body) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	addressesEnergy := containsAny(text, "rest", "sleep", "energy", "recovery")
	addressesPain := containsAny(text, "pain", "comfort", "relief", "stretch")
	addressesMovement := containsAny(text, "move", "exercise", "walk", "stretch")
	addressesMedical := containsAny(text, "doctor", "medical", "health", "symptom")

	energy := state.Float("energy_level", 0.5)
	pain := state.Float("pain_level", 0.0)
	movement := state.Float("movement_level", 0.5)

	switch {
	case addressesMedical && pain > 0.7:
		return core.AgreementStrong, nil
	case addressesEnergy && energy < 0.3:
		return core.AgreementAgree, nil
	case addressesPain && pain > 0.5:
		return core.AgreementAgree, nil
	case addressesMovement && movement < 0.3:
		return core.AgreementAgree, nil
	case strings.Contains(text, "work") && energy < 0.2:
		return core.AgreementDisagree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the body metrics from context alone.
func (b *Body) Metrics(state core.Context) core.Metrics {
	energy := state.Float("energy_level", 0.5)
	pain := state.Float("pain_level", 0.0)
	movement := state.Float("movement_level", 0.5)

	return core.Metrics{
		Role:        b.Role(),
		Confidence:  0.8,
		Urgency:     maxOf(1-energy, pain, 1-movement),
		Impact:      0.7,
		DataQuality: 0.9,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"energy_level":   energy,
			"pain_level":     pain,
			"movement_level": movement,
		},
	}
}

// SafetyConcerns scans for physical hazards.
func (b *Body) SafetyConcerns(recommendation string, state core.Context) []string {
	var concerns []string
	text := strings.ToLower(recommendation)

	if state.Float("pain_level", 0) > 0.8 {
		concerns = append(concerns, "Severe pain detected - may require medical attention")
	}
	if countHits(text, b.lex.terms("strenuous")) > 0 {
		if state.Float("energy_level", 0.5) < 0.3 {
			concerns = append(concerns, "Low energy level - strenuous activity may be dangerous")
		}
		if state.Float("pain_level", 0) > 0.5 {
			concerns = append(concerns, "Pain present - strenuous activity may cause injury")
		}
	}
	if countHits(text, b.lex.terms("emergency")) > 0 {
		concerns = append(concerns, "Potential medical emergency indicators detected")
	}
	return concerns
}

func (b *Body) assessEnergy(text string, state core.Context) float64 {
	score := 0.5
	score -= float64(countHits(text, b.lex.terms("fatigue"))) * 0.15
	score += float64(countHits(text, b.lex.terms("energy"))) * 0.1
	return clamp01(blend(score, state, "energy_level"))
}

func (b *Body) assessPain(text string, state core.Context) float64 {
	score := float64(countHits(text, b.lex.terms("pain"))) * 0.2
	return clamp01(blend(score, state, "pain_level"))
}

func (b *Body) assessMovementNeed(text string, state core.Context) float64 {
	score := float64(countHits(text, b.lex.terms("movement"))) * 0.15
	score += float64(countHits(text, b.lex.terms("posture"))) * 0.1
	return clamp01(blend(score, state, "movement_level"))
}

func (b *Body) assessMedicalConcern(text string, state core.Context) float64 {
	score := float64(countHits(text, b.lex.terms("medical"))) * 0.25
	for _, system := range bodySystems {
		score += float64(countHits(text, b.lex.terms(system))) * 0.1
	}
	return clamp01(blend(score, state, "medical_concern"))
}

func (b *Body) affectedSystems(text string) []string {
	var affected []string
	for _, system := range bodySystems {
		if countHits(text, b.lex.terms(system)) > 0 {
			affected = append(affected, system)
		}
	}
	return affected
}

func (b *Body) recommend(energy, pain, movement, medical float64) string {
	switch {
	case medical > 0.7:
		return "Consider consulting a healthcare professional about your symptoms"
	case pain > 0.6:
		return "Focus on pain management and physical comfort before continuing"
	case energy < 0.3:
		return "Prioritize physical rest and recovery to restore energy"
	case movement > 0.6:
		return "Consider gentle movement or stretching to improve physical comfort"
	default:
		return "Your physical state appears balanced for current activities"
	}
}

func (b *Body) alternatives(energy, pain, movement, medical float64) []string {
	var alts []string
	if energy < 0.4 {
		alts = append(alts, "Take a 10-minute rest break", "Hydrate and have a light snack")
	}
	if pain > 0.5 {
		alts = append(alts, "Try gentle stretching exercises", "Apply heat or cold therapy")
	}
	if movement > 0.5 {
		alts = append(alts, "Take a short walk", "Do some light stretching")
	}
	if medical > 0.6 {
		alts = append(alts, "Monitor symptoms closely", "Consider telemedicine consultation")
	}
	return alts
}

func (b *Body) reason(energy, pain, movement, medical float64) string {
	var reasons []string
	if energy < 0.4 {
		reasons = append(reasons, "Low energy level ("+pct(energy)+")")
	}
	if pain > 0.5 {
		reasons = append(reasons, "Pain detected ("+pct(pain)+")")
	}
	if movement > 0.5 {
		reasons = append(reasons, "Movement need identified ("+pct(movement)+")")
	}
	if medical > 0.6 {
		reasons = append(reasons, "Medical concern detected ("+pct(medical)+")")
	}
	if len(reasons) == 0 {
		return "Body domain analysis: Physical state appears balanced"
	}
	return "Body domain analysis: " + strings.Join(reasons, "; ")
}
