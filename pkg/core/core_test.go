// SPDX-License-Identifier: Apache-2.0

package core

import "testing"

func TestRolesCanonicalOrder(t *testing.T) {
	want := []Role{RoleMind, RoleBody, RoleFuel, RoleRest, RoleBelong, RoleSafety, RolePurpose}
	got := Roles()
	if len(got) != len(want) {
		t.Fatalf("expected %d roles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		parsed, err := ParseRole(string(role))
		if err != nil {
			t.Errorf("ParseRole(%s) failed: %v", role, err)
		}
		if parsed != role {
			t.Errorf("ParseRole(%s) = %s", role, parsed)
		}
	}
	if _, err := ParseRole("spirit"); err == nil {
		t.Error("expected error for unknown role")
	}
	if Role("spirit").Valid() {
		t.Error("unknown role must not be valid")
	}
}

func TestAtLeastAgreement(t *testing.T) {
	cases := map[AgreementLevel]bool{
		AgreementStrong:         true,
		AgreementAgree:          true,
		AgreementNeutral:        false,
		AgreementDisagree:       false,
		AgreementStrongDisagree: false,
		AgreementSafetyBlock:    false,
	}
	for level, want := range cases {
		if got := level.AtLeastAgreement(); got != want {
			t.Errorf("%s.AtLeastAgreement() = %v, want %v", level, got, want)
		}
	}
}

func TestContextFloat(t *testing.T) {
	state := Context{
		"f64":    0.7,
		"f32":    float32(0.5),
		"int":    1,
		"int64":  int64(2),
		"string": "not a number",
	}

	if got := state.Float("f64", 0); got != 0.7 {
		t.Errorf("f64 = %v", got)
	}
	if got := state.Float("f32", 0); got != 0.5 {
		t.Errorf("f32 = %v", got)
	}
	if got := state.Float("int", 0); got != 1.0 {
		t.Errorf("int = %v", got)
	}
	if got := state.Float("int64", 0); got != 2.0 {
		t.Errorf("int64 = %v", got)
	}
	if got := state.Float("string", 0.3); got != 0.3 {
		t.Errorf("non-numeric must fall back to default, got %v", got)
	}
	if got := state.Float("absent", 0.9); got != 0.9 {
		t.Errorf("absent key must fall back to default, got %v", got)
	}
}

func TestContextClone(t *testing.T) {
	original := Context{"stress_level": 0.6}
	clone := original.Clone()
	clone["stress_level"] = 0.1

	if original.Float("stress_level", 0) != 0.6 {
		t.Error("mutating clone must not affect the original")
	}
}
