// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"testing"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/council"
)

func TestScenarioCrisisVeto(t *testing.T) {
	c := council.New()

	result := NewScenario("crisis veto").
		WithInput("I'm in crisis and desperate, this is an emergency").
		ExpectVetoed().
		ExpectConsensus(core.AgreementSafetyBlock).
		ExpectRecommendation(Contains("crisis")).
		Run(t, c)

	result.Assert(t)
	if !result.Passed() {
		t.Logf("final: %+v", result.Final)
	}
}

func TestScenarioNeutralRound(t *testing.T) {
	c := council.New()

	result := NewScenario("benign input").
		WithInput("hello there").
		ExpectConsensus(core.AgreementNeutral).
		ExpectRoleVerdict(core.RoleSafety, core.AgreementNeutral).
		ExpectConflict(Equals("Insufficient domain agreement")).
		Run(t, c)

	result.Assert(t)
}

func TestScenarioFatigueAgreement(t *testing.T) {
	c := council.New()

	result := NewScenario("mental fatigue").
		WithInput("I'm exhausted and tired, totally overwhelmed and stressed").
		ExpectRoleVerdict(core.RoleMind, core.AgreementAgree).
		Run(t, c)

	result.Assert(t)
}

func TestScenarioFailureIsCollected(t *testing.T) {
	c := council.New()

	result := NewScenario("wrong expectation").
		WithInput("hello there").
		ExpectVetoed().
		Run(t, c)

	if result.Passed() {
		t.Fatal("scenario must fail when expectations do not hold")
	}
}

func TestMatchers(t *testing.T) {
	if err := Contains("block").Match("safety block"); err != nil {
		t.Errorf("Contains: %v", err)
	}
	if err := Contains("veto").Match("safety block"); err == nil {
		t.Error("Contains must fail on missing substring")
	}
	if err := HasPrefix("SAFETY").Match("SAFETY BLOCK: stop"); err != nil {
		t.Errorf("HasPrefix: %v", err)
	}
	if err := Equals("neutral").Match("neutral"); err != nil {
		t.Errorf("Equals: %v", err)
	}
	if err := MatchesPattern(`^\d+ domains`).Match("3 domains agree"); err != nil {
		t.Errorf("MatchesPattern: %v", err)
	}
}
