// SPDX-License-Identifier: Apache-2.0

package council

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
	"github.com/Stevenfgonzalez/HHAC/pkg/journal"
	"github.com/Stevenfgonzalez/HHAC/pkg/resilience"
)

// stubEvaluator is a scriptable evaluator for orchestration tests.
type stubEvaluator struct {
	role           core.Role
	level          core.AgreementLevel
	err            error
	panics         bool
	delay          time.Duration
	failFirst      int // fail this many Evaluate calls with a recoverable error
	candidateLevel core.AgreementLevel
	candidateErr   error

	mu      sync.Mutex
	calls   int
	updates int
}

func (s *stubEvaluator) Role() core.Role  { return s.role }
func (s *stubEvaluator) Describe() string { return fmt.Sprintf("%s stub", s.role) }

func (s *stubEvaluator) Evaluate(_ context.Context, _ string, _ core.Context) (core.Response, error) {
	if s.panics {
		panic("scripted panic")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.calls++
	transient := s.calls <= s.failFirst
	s.mu.Unlock()
	if transient {
		return core.Response{}, errors.New(errors.CodeEvaluation, "transient failure", nil).WithRecoverable(true)
	}
	if s.err != nil {
		return core.Response{}, s.err
	}
	now := time.Now().UTC()
	return core.Response{
		Role:           s.role,
		Recommendation: fmt.Sprintf("%s recommendation", s.role),
		Reasoning:      fmt.Sprintf("%s reasoning", s.role),
		Level:          s.level,
		Confidence:     0.7,
		Timestamp:      now,
		Metrics:        core.Metrics{Role: s.role, Confidence: 0.7, Impact: 0.5, Timestamp: now},
	}, nil
}

func (s *stubEvaluator) EvaluateCandidate(_ context.Context, _ string, _ core.Context) (core.AgreementLevel, error) {
	if s.candidateErr != nil {
		return "", s.candidateErr
	}
	if s.candidateLevel == "" {
		return core.AgreementNeutral, nil
	}
	return s.candidateLevel, nil
}

func (s *stubEvaluator) Metrics(_ core.Context) core.Metrics {
	return core.Metrics{Role: s.role, Confidence: 0.7}
}

func (s *stubEvaluator) SafetyConcerns(_ string, _ core.Context) []string { return nil }

func (s *stubEvaluator) OnContextUpdate(_ core.Context) {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
}

func (s *stubEvaluator) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

func stubRoster(levels map[core.Role]core.AgreementLevel) map[core.Role]core.Evaluator {
	roster := make(map[core.Role]core.Evaluator, len(core.Roles()))
	for _, role := range core.Roles() {
		level, ok := levels[role]
		if !ok {
			level = core.AgreementNeutral
		}
		roster[role] = &stubEvaluator{role: role, level: level, candidateLevel: level}
	}
	return roster
}

func TestDeliberateRejectsEmptyInput(t *testing.T) {
	c := New(WithEvaluators(stubRoster(nil)))
	_, _, err := c.Deliberate(context.Background(), "", core.Context{})
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	ce := errors.AsCouncilError(err)
	if ce.Code != errors.CodeInvalidInput {
		t.Errorf("expected invalid-input code, got %s", ce.Code)
	}
}

func TestDeliberateBarrierCollectsAllRoles(t *testing.T) {
	c := New(WithEvaluators(stubRoster(map[core.Role]core.AgreementLevel{
		core.RoleSafety:  core.AgreementAgree,
		core.RoleMind:    core.AgreementAgree,
		core.RoleBody:    core.AgreementAgree,
		core.RolePurpose: core.AgreementAgree,
		core.RoleBelong:  core.AgreementAgree,
	})))

	final, cons, err := c.Deliberate(context.Background(), "should I push on?", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.Overall != core.AgreementAgree {
		t.Errorf("expected agreement, got %s", cons.Overall)
	}
	if len(final.Insights) != 7 {
		t.Errorf("expected 7 insights, got %d", len(final.Insights))
	}
	if len(cons.ByRole) != 7 {
		t.Errorf("expected 7 by-role verdicts, got %d", len(cons.ByRole))
	}
}

func TestDeliberateIsolatesFailingEvaluator(t *testing.T) {
	roster := stubRoster(map[core.Role]core.AgreementLevel{
		core.RoleSafety: core.AgreementAgree,
		core.RoleMind:   core.AgreementAgree,
		core.RoleBody:   core.AgreementAgree,
	})
	roster[core.RoleFuel] = &stubEvaluator{
		role: core.RoleFuel,
		err:  errors.New(errors.CodeEvaluation, "scripted failure", nil),
	}
	c := New(WithEvaluators(roster))

	final, cons, err := c.Deliberate(context.Background(), "what should I do?", core.Context{})
	if err != nil {
		t.Fatalf("one failing role must not sink the round: %v", err)
	}
	if cons.ByRole[core.RoleFuel] != core.AgreementNeutral {
		t.Errorf("failed role must degrade to neutral, got %s", cons.ByRole[core.RoleFuel])
	}
	if final.Insights[core.RoleFuel] != "Technical issue in domain evaluation" {
		t.Errorf("expected fallback reasoning for fuel, got %q", final.Insights[core.RoleFuel])
	}
}

func TestDeliberateIsolatesPanickingEvaluator(t *testing.T) {
	roster := stubRoster(nil)
	roster[core.RoleBelong] = &stubEvaluator{role: core.RoleBelong, panics: true}
	c := New(WithEvaluators(roster))

	final, cons, err := c.Deliberate(context.Background(), "anything", core.Context{})
	if err != nil {
		t.Fatalf("a panicking role must not sink the round: %v", err)
	}
	if cons.ByRole[core.RoleBelong] != core.AgreementNeutral {
		t.Errorf("panicked role must degrade to neutral, got %s", cons.ByRole[core.RoleBelong])
	}
	if final.Insights[core.RoleBelong] != "Technical issue in domain evaluation" {
		t.Errorf("expected fallback reasoning, got %q", final.Insights[core.RoleBelong])
	}
}

func TestSafetyVetoOverridesUnanimousAgreement(t *testing.T) {
	roster := stubRoster(map[core.Role]core.AgreementLevel{
		core.RoleMind:    core.AgreementStrong,
		core.RoleBody:    core.AgreementStrong,
		core.RoleFuel:    core.AgreementStrong,
		core.RoleRest:    core.AgreementStrong,
		core.RoleBelong:  core.AgreementStrong,
		core.RolePurpose: core.AgreementStrong,
		core.RoleSafety:  core.AgreementSafetyBlock,
	})
	c := New(WithEvaluators(roster))

	final, cons, err := c.Deliberate(context.Background(), "risky plan", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.Overall != core.AgreementSafetyBlock {
		t.Fatalf("veto must win over unanimous agreement, got %s", cons.Overall)
	}
	if final.Recommendation != "safety recommendation" {
		t.Errorf("final must carry only safety content, got %q", final.Recommendation)
	}
	if !strings.HasPrefix(final.Reasoning, "SAFETY BLOCK: ") {
		t.Errorf("expected SAFETY BLOCK prefix, got %q", final.Reasoning)
	}
	if len(final.Insights) != 7 {
		t.Errorf("vetoed round must keep 7 insight keys, got %d", len(final.Insights))
	}
	if final.Insights[core.RoleMind] != "Superseded by safety block" {
		t.Errorf("non-safety insight must be superseded, got %q", final.Insights[core.RoleMind])
	}
}

func TestStatusTracksRounds(t *testing.T) {
	c := New(WithEvaluators(stubRoster(nil)))

	st := c.Status()
	if st.Rounds != 0 {
		t.Fatalf("fresh council must report 0 rounds, got %d", st.Rounds)
	}
	if len(st.Descriptions) != 7 {
		t.Errorf("expected 7 descriptions, got %d", len(st.Descriptions))
	}

	if _, _, err := c.Deliberate(context.Background(), "first", core.Context{}); err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if _, _, err := c.Deliberate(context.Background(), "second", core.Context{}); err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}

	st = c.Status()
	if st.Rounds != 2 {
		t.Errorf("expected 2 rounds, got %d", st.Rounds)
	}
	if st.LastRound.IsZero() {
		t.Error("last round timestamp must be set")
	}
}

func TestUpdateContextBroadcasts(t *testing.T) {
	roster := stubRoster(nil)
	c := New(WithEvaluators(roster))

	c.UpdateContext(core.Context{"stress_level": 0.7})

	for role, ev := range roster {
		stub := ev.(*stubEvaluator)
		if stub.updateCount() != 1 {
			t.Errorf("%s: expected 1 context update, got %d", role, stub.updateCount())
		}
	}
}

func TestDeliberateBroadcastsContextEachRound(t *testing.T) {
	roster := stubRoster(nil)
	c := New(WithEvaluators(roster))

	state := core.Context{"stress_level": 0.4}
	if _, _, err := c.Deliberate(context.Background(), "first", state); err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if _, _, err := c.Deliberate(context.Background(), "second", state); err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}

	for role, ev := range roster {
		stub := ev.(*stubEvaluator)
		if stub.updateCount() != 2 {
			t.Errorf("%s: expected one broadcast per round, got %d", role, stub.updateCount())
		}
	}
}

func TestEvaluateCandidateBroadcastsContext(t *testing.T) {
	roster := stubRoster(nil)
	c := New(WithEvaluators(roster))

	if _, err := c.EvaluateCandidate(context.Background(), "take a walk", core.Context{"energy": 0.5}); err != nil {
		t.Fatalf("EvaluateCandidate failed: %v", err)
	}

	for role, ev := range roster {
		stub := ev.(*stubEvaluator)
		if stub.updateCount() != 1 {
			t.Errorf("%s: expected 1 context update, got %d", role, stub.updateCount())
		}
	}
}

func TestEvaluateCandidateDegradesFailuresToNeutral(t *testing.T) {
	roster := stubRoster(map[core.Role]core.AgreementLevel{
		core.RoleMind: core.AgreementAgree,
	})
	roster[core.RoleRest] = &stubEvaluator{
		role:         core.RoleRest,
		candidateErr: errors.New(errors.CodeEvaluation, "scripted failure", nil),
	}
	c := New(WithEvaluators(roster))

	levels, err := c.EvaluateCandidate(context.Background(), "take a walk", core.Context{})
	if err != nil {
		t.Fatalf("EvaluateCandidate failed: %v", err)
	}
	if len(levels) != 7 {
		t.Fatalf("expected 7 verdicts, got %d", len(levels))
	}
	if levels[core.RoleRest] != core.AgreementNeutral {
		t.Errorf("failed role must degrade to neutral, got %s", levels[core.RoleRest])
	}
	if levels[core.RoleMind] != core.AgreementAgree {
		t.Errorf("healthy role verdict lost, got %s", levels[core.RoleMind])
	}
}

func TestRetryRecoversTransientFailure(t *testing.T) {
	roster := stubRoster(map[core.Role]core.AgreementLevel{
		core.RoleMind: core.AgreementAgree,
	})
	roster[core.RoleMind] = &stubEvaluator{
		role:      core.RoleMind,
		level:     core.AgreementAgree,
		failFirst: 2,
	}
	c := New(WithEvaluators(roster),
		WithRetry(resilience.DefaultRetryConfig().WithInitialDelay(time.Millisecond)))

	_, cons, err := c.Deliberate(context.Background(), "try again", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.ByRole[core.RoleMind] != core.AgreementAgree {
		t.Errorf("retried role must recover, got %s", cons.ByRole[core.RoleMind])
	}
}

func TestRetryExhaustionDegradesToFallback(t *testing.T) {
	roster := stubRoster(nil)
	roster[core.RoleFuel] = &stubEvaluator{role: core.RoleFuel, failFirst: 10}
	c := New(WithEvaluators(roster),
		WithRetry(resilience.DefaultRetryConfig().WithInitialDelay(time.Millisecond)))

	final, cons, err := c.Deliberate(context.Background(), "keep failing", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.ByRole[core.RoleFuel] != core.AgreementNeutral {
		t.Errorf("exhausted role must degrade to neutral, got %s", cons.ByRole[core.RoleFuel])
	}
	if final.Insights[core.RoleFuel] != "Technical issue in domain evaluation" {
		t.Errorf("expected fallback reasoning, got %q", final.Insights[core.RoleFuel])
	}
}

func TestEvaluationTimeoutDegradesSlowRole(t *testing.T) {
	roster := stubRoster(map[core.Role]core.AgreementLevel{
		core.RoleMind: core.AgreementAgree,
	})
	roster[core.RoleRest] = &stubEvaluator{role: core.RoleRest, delay: 500 * time.Millisecond}
	c := New(WithEvaluators(roster), WithEvaluationTimeout(20*time.Millisecond))

	_, cons, err := c.Deliberate(context.Background(), "slow role", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.ByRole[core.RoleRest] != core.AgreementNeutral {
		t.Errorf("timed-out role must degrade to neutral, got %s", cons.ByRole[core.RoleRest])
	}
	if cons.ByRole[core.RoleMind] != core.AgreementAgree {
		t.Errorf("fast role verdict lost, got %s", cons.ByRole[core.RoleMind])
	}
}

func TestEvaluateCandidateRejectsEmpty(t *testing.T) {
	c := New(WithEvaluators(stubRoster(nil)))
	if _, err := c.EvaluateCandidate(context.Background(), "", core.Context{}); err == nil {
		t.Fatal("expected error for empty recommendation")
	}
}

func TestDeliberateRecordsJournalEntry(t *testing.T) {
	store := &memoryJournal{}
	c := New(WithEvaluators(stubRoster(nil)), WithJournal(store))

	if _, _, err := c.Deliberate(context.Background(), "note this", core.Context{}); err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}

	entries := store.entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Input != "note this" {
		t.Errorf("entry input = %q", e.Input)
	}
	if e.ID == "" {
		t.Error("entry must carry a round id")
	}
	if e.Consensus != core.AgreementNeutral {
		t.Errorf("entry consensus = %s", e.Consensus)
	}
}

func TestRealRosterEndToEnd(t *testing.T) {
	c := New()

	final, cons, err := c.Deliberate(context.Background(),
		"I'm in crisis and desperate, this is an emergency", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.Overall != core.AgreementSafetyBlock {
		t.Fatalf("crisis input must veto, got %s", cons.Overall)
	}
	if !strings.HasPrefix(final.Reasoning, "SAFETY BLOCK: ") {
		t.Errorf("unexpected reasoning: %q", final.Reasoning)
	}

	final, cons, err = c.Deliberate(context.Background(), "hello there", core.Context{})
	if err != nil {
		t.Fatalf("Deliberate failed: %v", err)
	}
	if cons.Overall != core.AgreementNeutral {
		t.Errorf("benign input should be neutral, got %s", cons.Overall)
	}
	if len(final.Insights) != 7 {
		t.Errorf("expected 7 insights, got %d", len(final.Insights))
	}
}

// memoryJournal collects entries in memory for assertions.
type memoryJournal struct {
	mu   sync.Mutex
	list []journal.Entry
}

func (m *memoryJournal) Append(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, e)
	return nil
}

func (m *memoryJournal) List(_ context.Context, _ journal.Filter) ([]journal.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.Entry(nil), m.list...), nil
}

func (m *memoryJournal) Close() error { return nil }

func (m *memoryJournal) entries() []journal.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.Entry(nil), m.list...)
}
