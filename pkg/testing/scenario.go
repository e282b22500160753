// SPDX-License-Identifier: Apache-2.0

// Package testing provides utilities for testing council deliberations.
//
// This package includes:
//   - Scenario definitions for declarative deliberation testing
//   - Matchers for recommendations, consensus levels, and conflicts
//
// Example usage:
//
//	scenario := testing.NewScenario("crisis veto").
//	    WithInput("I'm in crisis, this is an emergency").
//	    ExpectConsensus(core.AgreementSafetyBlock).
//	    ExpectVetoed()
//
//	result := scenario.Run(t, c)
//	result.Assert(t)
package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/council"
)

// Scenario defines a declarative test for one deliberation round.
type Scenario struct {
	name         string
	input        string
	state        core.Context
	ctx          context.Context
	timeout      time.Duration
	expectations []Expectation
}

// Expectation defines a condition to verify after running a scenario.
type Expectation interface {
	// Check verifies the expectation against the result.
	Check(result *ScenarioResult) error
	// Description returns a human-readable description of the expectation.
	Description() string
}

// ScenarioResult contains the outcome of running a scenario.
type ScenarioResult struct {
	Final     core.FinalRecommendation
	Consensus core.ConsensusResult
	Error     error
	Duration  time.Duration

	failures []string
}

// NewScenario creates a new test scenario with the given name.
func NewScenario(name string) *Scenario {
	return &Scenario{
		name:    name,
		ctx:     context.Background(),
		timeout: 30 * time.Second,
		state:   core.Context{},
	}
}

// WithInput sets the deliberation input text.
func (s *Scenario) WithInput(input string) *Scenario {
	s.input = input
	return s
}

// WithState sets the shared context state for the round.
func (s *Scenario) WithState(state core.Context) *Scenario {
	s.state = state
	return s
}

// WithContext sets the context.Context the round runs under.
func (s *Scenario) WithContext(ctx context.Context) *Scenario {
	s.ctx = ctx
	return s
}

// WithTimeout bounds the whole scenario run.
func (s *Scenario) WithTimeout(d time.Duration) *Scenario {
	s.timeout = d
	return s
}

// Expect appends a custom expectation.
func (s *Scenario) Expect(e Expectation) *Scenario {
	s.expectations = append(s.expectations, e)
	return s
}

// ExpectConsensus expects the round to land on the given consensus level.
func (s *Scenario) ExpectConsensus(level core.AgreementLevel) *Scenario {
	return s.Expect(consensusIs{level})
}

// ExpectVetoed expects the safety role to have blocked the round.
func (s *Scenario) ExpectVetoed() *Scenario {
	return s.Expect(vetoed{})
}

// ExpectRecommendation expects the final recommendation to satisfy the matcher.
func (s *Scenario) ExpectRecommendation(m Matcher) *Scenario {
	return s.Expect(recommendationMatches{m})
}

// ExpectConflict expects at least one conflict message to satisfy the matcher.
func (s *Scenario) ExpectConflict(m Matcher) *Scenario {
	return s.Expect(conflictMatches{m})
}

// ExpectNoConflicts expects a conflict-free round.
func (s *Scenario) ExpectNoConflicts() *Scenario {
	return s.Expect(noConflicts{})
}

// ExpectRoleVerdict expects the given role's consensus verdict.
func (s *Scenario) ExpectRoleVerdict(role core.Role, level core.AgreementLevel) *Scenario {
	return s.Expect(roleVerdict{role, level})
}

// ExpectConfidenceAtLeast expects the final confidence to reach the floor.
func (s *Scenario) ExpectConfidenceAtLeast(min float64) *Scenario {
	return s.Expect(confidenceAtLeast{min})
}

// Run executes the scenario against the council and checks every
// expectation, collecting failures into the result.
func (s *Scenario) Run(t *testing.T, c *council.Council) *ScenarioResult {
	t.Helper()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	final, cons, err := c.Deliberate(ctx, s.input, s.state)
	result := &ScenarioResult{
		Final:     final,
		Consensus: cons,
		Error:     err,
		Duration:  time.Since(started),
	}

	if err != nil {
		result.failures = append(result.failures,
			fmt.Sprintf("%s: deliberation failed: %v", s.name, err))
		return result
	}
	for _, e := range s.expectations {
		if checkErr := e.Check(result); checkErr != nil {
			result.failures = append(result.failures,
				fmt.Sprintf("%s: %s: %v", s.name, e.Description(), checkErr))
		}
	}
	return result
}

// Assert reports every collected failure on t.
func (r *ScenarioResult) Assert(t *testing.T) {
	t.Helper()
	for _, f := range r.failures {
		t.Error(f)
	}
}

// Passed reports whether all expectations held.
func (r *ScenarioResult) Passed() bool {
	return len(r.failures) == 0
}

type consensusIs struct {
	level core.AgreementLevel
}

func (e consensusIs) Check(r *ScenarioResult) error {
	if r.Consensus.Overall != e.level {
		return fmt.Errorf("got %s", r.Consensus.Overall)
	}
	return nil
}

func (e consensusIs) Description() string {
	return fmt.Sprintf("expect consensus %s", e.level)
}

type vetoed struct{}

func (vetoed) Check(r *ScenarioResult) error {
	if r.Consensus.Overall != core.AgreementSafetyBlock {
		return fmt.Errorf("round was not vetoed, consensus %s", r.Consensus.Overall)
	}
	return nil
}

func (vetoed) Description() string { return "expect safety veto" }

type recommendationMatches struct {
	m Matcher
}

func (e recommendationMatches) Check(r *ScenarioResult) error {
	return e.m.Match(r.Final.Recommendation)
}

func (e recommendationMatches) Description() string {
	return fmt.Sprintf("expect recommendation %s", e.m.Description())
}

type conflictMatches struct {
	m Matcher
}

func (e conflictMatches) Check(r *ScenarioResult) error {
	for _, c := range r.Consensus.Conflicts {
		if e.m.Match(c) == nil {
			return nil
		}
	}
	return fmt.Errorf("no conflict in %v matched", r.Consensus.Conflicts)
}

func (e conflictMatches) Description() string {
	return fmt.Sprintf("expect conflict %s", e.m.Description())
}

type noConflicts struct{}

func (noConflicts) Check(r *ScenarioResult) error {
	if len(r.Consensus.Conflicts) > 0 {
		return fmt.Errorf("got %v", r.Consensus.Conflicts)
	}
	return nil
}

func (noConflicts) Description() string { return "expect no conflicts" }

type roleVerdict struct {
	role  core.Role
	level core.AgreementLevel
}

func (e roleVerdict) Check(r *ScenarioResult) error {
	if got := r.Consensus.ByRole[e.role]; got != e.level {
		return fmt.Errorf("got %s", got)
	}
	return nil
}

func (e roleVerdict) Description() string {
	return fmt.Sprintf("expect %s verdict %s", e.role, e.level)
}

type confidenceAtLeast struct {
	min float64
}

func (e confidenceAtLeast) Check(r *ScenarioResult) error {
	if r.Final.Confidence < e.min {
		return fmt.Errorf("got %.3f", r.Final.Confidence)
	}
	return nil
}

func (e confidenceAtLeast) Description() string {
	return fmt.Sprintf("expect confidence >= %.2f", e.min)
}
