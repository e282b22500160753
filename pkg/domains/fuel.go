// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Fuel covers nutrition, resources, energy inputs, and sustainable
// consumption patterns.
type Fuel struct {
	base
}

func defaultFuelLexicon() Lexicon {
	return Lexicon{
		"hunger":      {"hungry", "starving", "appetite", "food", "eat"},
		"nutrition":   {"protein", "vitamins", "nutrients", "healthy", "balanced"},
		"energy_food": {"energy", "fuel", "sustaining", "nourishing"},
		"dehydration": {"thirsty", "dehydrated", "water", "drink", "hydrate"},
		"cravings":    {"crave", "want", "need", "desire", "taste"},

		"financial": {"money", "cost", "budget", "expensive", "afford"},
		"time":      {"time", "schedule", "busy", "rushed", "deadline"},
		"energy":    {"energy", "tired", "drained", "exhausted", "fatigue"},
		"materials": {"supplies", "materials", "resources", "equipment", "tools"},

		"extreme_diet": {"fast", "starve", "extreme diet", "no food"},
	}
}

var fuelResourceCategories = []string{"financial", "time", "energy", "materials"}

// NewFuel builds the fuel evaluator with its default tables.
func NewFuel(opts ...Option) *Fuel {
	return &Fuel{base: newBase(
		core.RoleFuel,
		"Nutrition, resources, energy inputs, and sustainable consumption patterns",
		defaultFuelLexicon(),
		opts,
	)}
}

// Evaluate scores input from the nutrition and resource perspective.
func (f *Fuel) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	nutrition := f.assessNutritionNeed(text, state)
	resources := f.assessResourceAvailability(text, state)
	hydration := f.assessHydrationNeed(text, state)
	optimization := f.assessEnergyOptimization(text, state)

	recommendation := f.recommend(nutrition, resources, hydration, optimization)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.5, 0.12, nutrition > 0.5, hydration > 0.6, resources < 0.4, optimization > 0.5)

	return core.Response{
		Role:           f.Role(),
		Recommendation: recommendation,
		Reasoning:      f.reason(nutrition, resources, hydration, optimization),
		Level:          cascade(maxOf(nutrition, hydration, optimization, 1-resources)),
		Metrics: core.Metrics{
			Role:        f.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(nutrition, resources, hydration, optimization),
			Impact:      0.6,
			DataQuality: 0.9,
			Timestamp:   now,
			Metadata: map[string]any{
				"nutrition_need":        nutrition,
				"resource_availability": resources,
				"hydration_need":        hydration,
				"energy_optimization":   optimization,
			},
		},
		Alternatives:   f.alternatives(nutrition, resources, hydration, optimization),
		SafetyConcerns: f.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the fuel
// perspective.
func (f *Fuel) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	addressesNutrition := containsAny(text, "eat", "food", "nutrition", "meal")
	addressesHydration := containsAny(text, "drink", "water", "hydrate", "fluid")
	addressesResources := containsAny(text, "resource", "budget", "time", "energy")

	nutrition := state.Float("nutrition_need", 0.5)
	hydration := state.Float("hydration_need", 0.5)
	resources := state.Float("resource_availability", 0.5)

	switch {
	case addressesNutrition && nutrition > 0.6:
		return core.AgreementAgree, nil
	case addressesHydration && hydration > 0.7:
		return core.AgreementAgree, nil
	case addressesResources && resources < 0.4:
		return core.AgreementAgree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the fuel metrics from context alone.
func (f *Fuel) Metrics(state core.Context) core.Metrics {
	nutrition := state.Float("nutrition_need", 0.5)
	hydration := state.Float("hydration_need", 0.5)
	resources := state.Float("resource_availability", 0.5)

	return core.Metrics{
		Role:        f.Role(),
		Confidence:  0.8,
		Urgency:     maxOf(nutrition, hydration, 1-resources),
		Impact:      0.6,
		DataQuality: 0.9,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"nutrition_need":        nutrition,
			"hydration_need":        hydration,
			"resource_availability": resources,
		},
	}
}

// SafetyConcerns scans for fuel and resource hazards.
func (f *Fuel) SafetyConcerns(recommendation string, state core.Context) []string {
	var concerns []string
	text := strings.ToLower(recommendation)

	if countHits(text, f.lex.terms("extreme_diet")) > 0 {
		concerns = append(concerns, "Extreme dietary restriction may be harmful")
	}
	if state.Float("resource_availability", 0.5) < 0.2 {
		concerns = append(concerns, "Very low resource availability - may cause stress")
	}
	return concerns
}

func (f *Fuel) assessNutritionNeed(text string, state core.Context) float64 {
	score := float64(countHits(text, f.lex.terms("hunger"))) * 0.2
	score += float64(countHits(text, f.lex.terms("nutrition"))) * 0.15
	return clamp01(blend(score, state, "nutrition_need"))
}

func (f *Fuel) assessResourceAvailability(text string, state core.Context) float64 {
	score := 0.5
	for _, category := range fuelResourceCategories {
		score -= float64(countHits(text, f.lex.terms(category))) * 0.1
	}
	return clamp01(blend(score, state, "resource_availability"))
}

func (f *Fuel) assessHydrationNeed(text string, state core.Context) float64 {
	score := float64(countHits(text, f.lex.terms("dehydration"))) * 0.25
	return clamp01(blend(score, state, "hydration_need"))
}

func (f *Fuel) assessEnergyOptimization(text string, state core.Context) float64 {
	score := float64(countHits(text, f.lex.terms("energy_food"))) * 0.15
	return clamp01(blend(score, state, "energy_optimization"))
}

func (f *Fuel) recommend(nutrition, resources, hydration, optimization float64) string {
	switch {
	case hydration > 0.7:
		return "Prioritize hydration - drink water or electrolyte-rich fluids"
	case nutrition > 0.6:
		return "Consider having a balanced meal or nutritious snack"
	case resources < 0.3:
		return "Focus on resource conservation and efficient use of available resources"
	case optimization > 0.5:
		return "Consider energy-rich foods to support your current activities"
	default:
		return "Your fuel and resource needs appear balanced"
	}
}

func (f *Fuel) alternatives(nutrition, resources, hydration, optimization float64) []string {
	var alts []string
	if hydration > 0.6 {
		alts = append(alts, "Have a glass of water", "Try herbal tea or electrolyte drink")
	}
	if nutrition > 0.5 {
		alts = append(alts, "Have a protein-rich snack", "Consider a balanced meal")
	}
	if resources < 0.4 {
		alts = append(alts, "Prioritize essential resource use", "Look for cost-effective alternatives")
	}
	if optimization > 0.5 {
		alts = append(alts, "Include complex carbohydrates in your meal", "Consider energy-boosting foods")
	}
	return alts
}

func (f *Fuel) reason(nutrition, resources, hydration, optimization float64) string {
	var reasons []string
	if hydration > 0.6 {
		reasons = append(reasons, "Hydration need detected ("+pct(hydration)+")")
	}
	if nutrition > 0.5 {
		reasons = append(reasons, "Nutrition need identified ("+pct(nutrition)+")")
	}
	if resources < 0.4 {
		reasons = append(reasons, "Resource constraint detected ("+pct(resources)+")")
	}
	if optimization > 0.5 {
		reasons = append(reasons, "Energy optimization needed ("+pct(optimization)+")")
	}
	if len(reasons) == 0 {
		return "Fuel domain analysis: Fuel and resource needs appear balanced"
	}
	return "Fuel domain analysis: " + strings.Join(reasons, "; ")
}
