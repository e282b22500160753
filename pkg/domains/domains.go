// SPDX-License-Identifier: Apache-2.0
// Package domains implements the seven council evaluators. Each role scores
// lowercased input against its static lexicon tables, blends with same-named
// context values, and maps the dominant feature through a fixed threshold
// cascade. Scoring is deterministic lexical counting, not inference.
package domains

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Lexicon maps a feature category to its indicator terms.
type Lexicon map[string][]string

// terms returns the category's term list, or nil when absent.
func (l Lexicon) terms(category string) []string {
	if l == nil {
		return nil
	}
	return l[category]
}

// base carries the state shared by all seven evaluators.
type base struct {
	role        core.Role
	description string
	lex         Lexicon

	mu          sync.Mutex
	lastUpdated time.Time
}

// Role returns the evaluator's fixed identity.
func (b *base) Role() core.Role { return b.role }

// Describe returns the role's static focus description.
func (b *base) Describe() string { return b.description }

// OnContextUpdate records a fresh last-updated timestamp. Side effect only.
func (b *base) OnContextUpdate(_ core.Context) {
	b.mu.Lock()
	b.lastUpdated = time.Now().UTC()
	b.mu.Unlock()
}

// LastUpdated returns when this evaluator last observed a context broadcast.
func (b *base) LastUpdated() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUpdated
}

// Option configures an evaluator instance.
type Option func(*base)

// WithLexicon replaces the role's default lexicon, e.g. with one loaded from
// a YAML override file.
func WithLexicon(lex Lexicon) Option {
	return func(b *base) {
		if len(lex) > 0 {
			b.lex = lex
		}
	}
}

func newBase(role core.Role, description string, lex Lexicon, opts []Option) base {
	b := base{role: role, description: description, lex: lex, lastUpdated: time.Now().UTC()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Roster builds all seven evaluators with their default tables, keyed by role.
func Roster() map[core.Role]core.Evaluator {
	return map[core.Role]core.Evaluator{
		core.RoleMind:    NewMind(),
		core.RoleBody:    NewBody(),
		core.RoleFuel:    NewFuel(),
		core.RoleRest:    NewRest(),
		core.RoleBelong:  NewBelong(),
		core.RoleSafety:  NewSafety(),
		core.RolePurpose: NewPurpose(),
	}
}

// countHits counts lexicon terms contained in the lowercased text.
func countHits(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// containsAny reports whether any of the terms occurs in the text.
func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// blend averages a derived score with the same-named context value when one
// is set. A zero context value is treated as unset, matching the original
// council behavior.
func blend(score float64, state core.Context, key string) float64 {
	if v := state.Float(key, 0); v != 0 {
		return (score + v) / 2
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func floorAt(v, limit float64) float64 {
	if v < limit {
		return limit
	}
	return v
}

func maxOf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// cascade maps the dominant feature score to an agreement level through the
// fixed cut-points. This path never yields disagreement: roles state the
// intensity of a need when scoring raw input, not opposition.
func cascade(maxFeature float64) core.AgreementLevel {
	switch {
	case maxFeature > 0.8:
		return core.AgreementStrong
	case maxFeature > 0.6:
		return core.AgreementAgree
	case maxFeature > 0.4:
		return core.AgreementNeutral
	default:
		return core.AgreementNeutral
	}
}

// confidenceFrom is the shared confidence rule: a fixed base plus a fixed
// increment for every feature that crossed its own significance threshold,
// capped at 1.0.
func confidenceFrom(baseConf, step float64, crossed ...bool) float64 {
	conf := baseConf
	for _, c := range crossed {
		if c {
			conf += step
		}
	}
	return capAt(conf, 1.0)
}

// pct renders a score the way reasoning templates expect, e.g. "72.0%".
func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
