// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

// LexiconFile is the on-disk shape of a lexicon override. Each section
// replaces the corresponding role's default tables wholesale; absent
// sections leave the defaults in place.
type LexiconFile struct {
	Mind    Lexicon `yaml:"mind"`
	Body    Lexicon `yaml:"body"`
	Fuel    Lexicon `yaml:"fuel"`
	Rest    Lexicon `yaml:"rest"`
	Belong  Lexicon `yaml:"belong"`
	Safety  Lexicon `yaml:"safety"`
	Purpose Lexicon `yaml:"purpose"`
}

// LoadLexicons parses a YAML lexicon override file.
func LoadLexicons(path string) (*LexiconFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfig, "reading lexicon file", err).
			WithContext("path", path)
	}
	var lf LexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, errors.New(errors.CodeConfig, "parsing lexicon file", err).
			WithContext("path", path)
	}
	return &lf, nil
}

// byRole returns the override for a role, nil when the file has none.
func (lf *LexiconFile) byRole(role core.Role) Lexicon {
	if lf == nil {
		return nil
	}
	switch role {
	case core.RoleMind:
		return lf.Mind
	case core.RoleBody:
		return lf.Body
	case core.RoleFuel:
		return lf.Fuel
	case core.RoleRest:
		return lf.Rest
	case core.RoleBelong:
		return lf.Belong
	case core.RoleSafety:
		return lf.Safety
	case core.RolePurpose:
		return lf.Purpose
	default:
		return nil
	}
}

// RosterFrom builds the seven evaluators, applying any per-role lexicon
// overrides from the file. A nil file yields the default Roster.
func RosterFrom(lf *LexiconFile) map[core.Role]core.Evaluator {
	return map[core.Role]core.Evaluator{
		core.RoleMind:    NewMind(WithLexicon(lf.byRole(core.RoleMind))),
		core.RoleBody:    NewBody(WithLexicon(lf.byRole(core.RoleBody))),
		core.RoleFuel:    NewFuel(WithLexicon(lf.byRole(core.RoleFuel))),
		core.RoleRest:    NewRest(WithLexicon(lf.byRole(core.RoleRest))),
		core.RoleBelong:  NewBelong(WithLexicon(lf.byRole(core.RoleBelong))),
		core.RoleSafety:  NewSafety(WithLexicon(lf.byRole(core.RoleSafety))),
		core.RolePurpose: NewPurpose(WithLexicon(lf.byRole(core.RolePurpose))),
	}
}
