// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// crisisBlockThreshold is the crisis-feature score above which the safety
// evaluator asserts the safety_block sentinel.
const crisisBlockThreshold = 0.7

// Safety covers physical/emotional security, risk assessment, boundary
// protection, and harm prevention. It is the only role permitted to emit
// AgreementSafetyBlock.
type Safety struct {
	base
}

func defaultSafetyLexicon() Lexicon {
	return Lexicon{
		"physical_threat":    {"hurt", "harm", "danger", "attack", "violence", "abuse"},
		"emotional_threat":   {"manipulate", "control", "pressure", "coerce", "threaten"},
		"crisis":             {"suicide", "self-harm", "emergency", "crisis", "desperate"},
		"boundary_violation": {"push", "force", "insist", "demand", "pressure"},
		"exploitation":       {"exploit", "use", "manipulate", "take advantage", "trick"},
		"instability":        {"unstable", "volatile", "dangerous", "risky", "unsafe"},

		"self_harm":           {"kill myself", "end it all", "don't want to live", "better off dead"},
		"harm_others":         {"hurt them", "attack", "revenge", "get back at"},
		"substance_abuse":     {"drink too much", "drugs", "overdose", "substance"},
		"financial_risk":      {"gamble", "loan", "debt", "financial risk"},
		"relationship_danger": {"abusive", "controlling", "manipulative partner"},

		"dangerous_activity": {"driving while impaired", "substance abuse", "reckless behavior"},
		"violation":          {"ignore safety", "take risk", "dangerous", "harmful"},
		"risk_increasing":    {"ignore", "risk", "dangerous", "harmful", "unsafe"},
	}
}

// protectionPatterns are the crisis pattern categories scanned during the
// crisis assessment, each adding a fixed increment per hit.
var protectionPatterns = []string{
	"self_harm", "harm_others", "substance_abuse", "financial_risk", "relationship_danger",
}

// NewSafety builds the safety evaluator with its default tables.
func NewSafety(opts ...Option) *Safety {
	return &Safety{base: newBase(
		core.RoleSafety,
		"Physical/emotional security, risk assessment, boundary protection, and harm prevention (Protected Class)",
		defaultSafetyLexicon(),
		opts,
	)}
}

// Evaluate scores input from the safety perspective. A crisis feature above
// crisisBlockThreshold vetoes the round.
func (s *Safety) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	risk := s.assessRisk(text, state)
	crisis := s.assessCrisis(text, state)
	boundary := s.assessBoundaryConcern(text, state)
	stability := s.assessStability(text, state)

	recommendation := s.recommend(risk, crisis, boundary, stability)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.6, 0.1, crisis > 0.6, risk > 0.6, boundary > 0.5, stability < 0.5)

	return core.Response{
		Role:           s.Role(),
		Recommendation: recommendation,
		Reasoning:      s.reason(risk, crisis, boundary, stability),
		Level:          s.level(risk, crisis, boundary, stability),
		Metrics: core.Metrics{
			Role:        s.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(risk, crisis, boundary, 1-stability),
			Impact:      1.0,
			DataQuality: 0.95,
			Timestamp:   now,
			Metadata: map[string]any{
				"risk_level":       risk,
				"crisis_level":     crisis,
				"boundary_concern": boundary,
				"stability_level":  stability,
				"patterns":         s.detectPatterns(text),
			},
		},
		Alternatives:   s.alternatives(risk, crisis, boundary, stability),
		SafetyConcerns: s.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the safety
// perspective and may veto it.
func (s *Safety) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	if s.violatesProtocols(text, state) {
		return core.AgreementSafetyBlock, nil
	}

	addressesRisk := containsAny(text, "safe", "secure", "protect", "risk")
	addressesCrisis := containsAny(text, "crisis", "emergency", "help", "support")
	addressesBoundary := containsAny(text, "boundary", "respect", "consent", "choice")

	risk := state.Float("risk_level", 0.0)
	crisis := state.Float("crisis_level", 0.0)
	boundary := state.Float("boundary_concern", 0.0)

	switch {
	case addressesCrisis && crisis > 0.6:
		return core.AgreementStrong, nil
	case addressesRisk && risk > 0.5:
		return core.AgreementAgree, nil
	case addressesBoundary && boundary > 0.4:
		return core.AgreementAgree, nil
	case countHits(text, s.lex.terms("risk_increasing")) > 0:
		return core.AgreementStrongDisagree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the safety metrics from context alone.
func (s *Safety) Metrics(state core.Context) core.Metrics {
	risk := state.Float("risk_level", 0.0)
	crisis := state.Float("crisis_level", 0.0)
	boundary := state.Float("boundary_concern", 0.0)
	stability := state.Float("stability_level", 1.0)

	return core.Metrics{
		Role:        s.Role(),
		Confidence:  0.9,
		Urgency:     maxOf(risk, crisis, boundary, 1-stability),
		Impact:      1.0,
		DataQuality: 0.95,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"risk_level":       risk,
			"crisis_level":     crisis,
			"boundary_concern": boundary,
			"stability_level":  stability,
		},
	}
}

// SafetyConcerns is the primary hazard scan for the council.
func (s *Safety) SafetyConcerns(recommendation string, state core.Context) []string {
	var concerns []string
	text := strings.ToLower(recommendation)

	if state.Float("crisis_level", 0) > 0.7 {
		concerns = append(concerns, "CRISIS: Immediate intervention may be required")
	}
	if state.Float("self_harm_risk", 0) > 0.6 {
		concerns = append(concerns, "SELF-HARM RISK: Professional mental health support needed")
	}
	if state.Float("harm_others_risk", 0) > 0.6 {
		concerns = append(concerns, "HARM TO OTHERS RISK: Safety intervention required")
	}
	if state.Float("exploitation_risk", 0) > 0.7 {
		concerns = append(concerns, "EXPLOITATION RISK: Recommendation may enable harm")
	}
	if state.Float("boundary_violation", 0) > 0.5 {
		concerns = append(concerns, "BOUNDARY VIOLATION: Recommendation may disrespect autonomy")
	}
	if countHits(text, s.lex.terms("dangerous_activity")) > 0 {
		concerns = append(concerns, "DANGEROUS ACTIVITY: Recommendation may cause harm")
	}
	return concerns
}

// level applies the safety cascade. The veto check runs before the shared
// cut-points so a crisis always wins.
func (s *Safety) level(risk, crisis, boundary, stability float64) core.AgreementLevel {
	if crisis > crisisBlockThreshold {
		return core.AgreementSafetyBlock
	}
	return cascade(maxOf(risk, crisis, boundary, 1-stability))
}

func (s *Safety) assessRisk(text string, state core.Context) float64 {
	score := float64(countHits(text, s.lex.terms("physical_threat"))) * 0.2
	score += float64(countHits(text, s.lex.terms("emotional_threat"))) * 0.15
	score += float64(countHits(text, s.lex.terms("exploitation"))) * 0.25
	score += float64(countHits(text, s.lex.terms("instability"))) * 0.2
	return clamp01(blend(score, state, "risk_level"))
}

func (s *Safety) assessCrisis(text string, state core.Context) float64 {
	score := float64(countHits(text, s.lex.terms("crisis"))) * 0.3
	for _, pattern := range protectionPatterns {
		score += float64(countHits(text, s.lex.terms(pattern))) * 0.25
	}
	return clamp01(blend(score, state, "crisis_level"))
}

func (s *Safety) assessBoundaryConcern(text string, state core.Context) float64 {
	score := float64(countHits(text, s.lex.terms("boundary_violation"))) * 0.2
	return clamp01(blend(score, state, "boundary_concern"))
}

func (s *Safety) assessStability(text string, state core.Context) float64 {
	score := 1.0
	score -= float64(countHits(text, s.lex.terms("instability"))) * 0.15
	return clamp01(blend(score, state, "stability_level"))
}

func (s *Safety) detectPatterns(text string) []string {
	var detected []string
	for _, pattern := range protectionPatterns {
		if countHits(text, s.lex.terms(pattern)) > 0 {
			detected = append(detected, pattern)
		}
	}
	return detected
}

func (s *Safety) violatesProtocols(text string, state core.Context) bool {
	if state.Float("crisis_level", 0) > crisisBlockThreshold {
		return true
	}
	return countHits(text, s.lex.terms("violation")) > 0
}

func (s *Safety) recommend(risk, crisis, boundary, stability float64) string {
	switch {
	case crisis > 0.8:
		return "CRISIS: Please contact emergency services or a crisis hotline immediately"
	case crisis > 0.6:
		return "Consider reaching out to a mental health professional or crisis support"
	case risk > 0.7:
		return "Focus on safety first - avoid any activities that could cause harm"
	case boundary > 0.6:
		return "Respect your boundaries and don't feel pressured to do anything unsafe"
	case stability < 0.4:
		return "Prioritize creating a safe, stable environment before making decisions"
	default:
		return "Your safety appears secure for current activities"
	}
}

func (s *Safety) alternatives(risk, crisis, boundary, stability float64) []string {
	var alts []string
	if crisis > 0.6 {
		alts = append(alts,
			"Contact National Suicide Prevention Lifeline: 988",
			"Reach out to a trusted friend or family member")
	}
	if risk > 0.6 {
		alts = append(alts,
			"Remove yourself from potentially dangerous situations",
			"Create a safety plan with trusted individuals")
	}
	if boundary > 0.5 {
		alts = append(alts,
			"Practice saying 'no' to requests that feel unsafe",
			"Set clear boundaries with others")
	}
	if stability < 0.5 {
		alts = append(alts,
			"Focus on creating a safe, predictable routine",
			"Avoid major life changes until stability improves")
	}
	return alts
}

func (s *Safety) reason(risk, crisis, boundary, stability float64) string {
	var reasons []string
	if crisis > 0.6 {
		reasons = append(reasons, "CRISIS DETECTED ("+pct(crisis)+")")
	}
	if risk > 0.6 {
		reasons = append(reasons, "Safety risk identified ("+pct(risk)+")")
	}
	if boundary > 0.5 {
		reasons = append(reasons, "Boundary concern detected ("+pct(boundary)+")")
	}
	if stability < 0.5 {
		reasons = append(reasons, "Instability detected ("+pct(stability)+")")
	}
	if len(reasons) == 0 {
		return "Safety domain analysis: No immediate safety concerns detected"
	}
	return "SAFETY ALERT: " + strings.Join(reasons, "; ")
}
