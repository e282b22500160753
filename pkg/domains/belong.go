// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"strings"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Belong covers connection, relationships, community, and shared purpose.
type Belong struct {
	base
}

func defaultBelongLexicon() Lexicon {
	return Lexicon{
		"isolation":  {"lonely", "alone", "isolated", "disconnected", "left out"},
		"connection": {"friend", "family", "together", "community", "team"},
		"conflict":   {"argument", "fight", "ignored", "rejected", "excluded"},
		"support":    {"support", "listen", "talk", "share", "belong"},
	}
}

// NewBelong builds the belong evaluator with its default tables.
func NewBelong(opts ...Option) *Belong {
	return &Belong{base: newBase(
		core.RoleBelong,
		"Connection, relationships, community, and shared purpose",
		defaultBelongLexicon(),
		opts,
	)}
}

// Evaluate scores input from the connection perspective.
func (b *Belong) Evaluate(_ context.Context, input string, state core.Context) (core.Response, error) {
	text := strings.ToLower(input)

	connectionNeed := b.assessConnectionNeed(text, state)
	relationshipStrain := b.assessRelationshipStrain(text, state)

	recommendation := b.recommend(connectionNeed, relationshipStrain)
	now := time.Now().UTC()
	confidence := confidenceFrom(0.5, 0.12, connectionNeed > 0.6, relationshipStrain > 0.5)

	return core.Response{
		Role:           b.Role(),
		Recommendation: recommendation,
		Reasoning:      b.reason(connectionNeed, relationshipStrain),
		Level:          cascade(maxOf(connectionNeed, relationshipStrain)),
		Metrics: core.Metrics{
			Role:        b.Role(),
			Confidence:  confidence,
			Urgency:     maxOf(connectionNeed, relationshipStrain),
			Impact:      0.6,
			DataQuality: 0.9,
			Timestamp:   now,
			Metadata: map[string]any{
				"connection_need":     connectionNeed,
				"relationship_strain": relationshipStrain,
			},
		},
		Alternatives:   b.alternatives(connectionNeed, relationshipStrain),
		SafetyConcerns: b.SafetyConcerns(recommendation, state),
		Confidence:     confidence,
		Timestamp:      now,
	}, nil
}

// EvaluateCandidate judges a proposed recommendation from the connection
// perspective.
func (b *Belong) EvaluateCandidate(_ context.Context, recommendation string, state core.Context) (core.AgreementLevel, error) {
	text := strings.ToLower(recommendation)

	addressesConnection := containsAny(text, "connect", "friend", "community", "together", "reach out")

	connectionNeed := state.Float("connection_need", 0.5)

	switch {
	case addressesConnection && connectionNeed > 0.6:
		return core.AgreementAgree, nil
	case containsAny(text, "alone", "isolate") && connectionNeed > 0.7:
		return core.AgreementDisagree, nil
	default:
		return core.AgreementNeutral, nil
	}
}

// Metrics derives the belong metrics from context alone.
func (b *Belong) Metrics(state core.Context) core.Metrics {
	connectionNeed := state.Float("connection_need", 0.5)
	relationshipStrain := state.Float("relationship_strain", 0.5)

	return core.Metrics{
		Role:        b.Role(),
		Confidence:  0.8,
		Urgency:     maxOf(connectionNeed, relationshipStrain),
		Impact:      0.6,
		DataQuality: 0.9,
		Timestamp:   time.Now().UTC(),
		Metadata: map[string]any{
			"connection_need":     connectionNeed,
			"relationship_strain": relationshipStrain,
		},
	}
}

// SafetyConcerns scans for connection-related hazards.
func (b *Belong) SafetyConcerns(_ string, state core.Context) []string {
	var concerns []string
	if state.Float("connection_need", 0) > 0.8 {
		concerns = append(concerns, "Prolonged isolation may be affecting wellbeing")
	}
	return concerns
}

func (b *Belong) assessConnectionNeed(text string, state core.Context) float64 {
	score := float64(countHits(text, b.lex.terms("isolation"))) * 0.2
	score += float64(countHits(text, b.lex.terms("support"))) * 0.1
	return clamp01(blend(score, state, "connection_need"))
}

func (b *Belong) assessRelationshipStrain(text string, state core.Context) float64 {
	score := float64(countHits(text, b.lex.terms("conflict"))) * 0.2
	return clamp01(blend(score, state, "relationship_strain"))
}

func (b *Belong) recommend(connectionNeed, relationshipStrain float64) string {
	switch {
	case relationshipStrain > 0.6:
		return "Consider addressing the relationship tension with a calm conversation"
	case connectionNeed > 0.6:
		return "Consider connecting with others"
	default:
		return "Your social connections appear balanced"
	}
}

func (b *Belong) alternatives(connectionNeed, relationshipStrain float64) []string {
	var alts []string
	if connectionNeed > 0.5 {
		alts = append(alts, "Reach out to a friend", "Join a community")
	}
	if relationshipStrain > 0.5 {
		alts = append(alts, "Write down what you want to say before a difficult conversation", "Take space before responding")
	}
	return alts
}

func (b *Belong) reason(connectionNeed, relationshipStrain float64) string {
	var reasons []string
	if connectionNeed > 0.5 {
		reasons = append(reasons, "Social needs detected ("+pct(connectionNeed)+")")
	}
	if relationshipStrain > 0.5 {
		reasons = append(reasons, "Relationship strain detected ("+pct(relationshipStrain)+")")
	}
	if len(reasons) == 0 {
		return "Belong domain analysis: Social connections appear balanced"
	}
	return "Belong domain analysis: " + strings.Join(reasons, "; ")
}
