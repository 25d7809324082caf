package content

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
	"github.com/cory-johannsen/skirmish/internal/yamldir"
)

// SpellDef defines an attack spell loaded from YAML.
type SpellDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Level      int    `yaml:"level"` // 0 = cantrip
	DamageDice string `yaml:"damage_dice"`
	DamageType string `yaml:"damage_type"`
	// Range is in feet; 0 is a touch spell.
	Range      float64 `yaml:"range"`
	UpcastDice int     `yaml:"upcast_dice"`
}

// Validate checks that the SpellDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid; otherwise the error
// wraps rules.ErrValidation and lists every violation.
func (s *SpellDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, err := combat.SpellLevelOf(s.Level); err != nil {
		errs = append(errs, err)
	}
	if s.Range < 0 {
		errs = append(errs, errors.New("range must be >= 0"))
	}
	if s.UpcastDice < 0 {
		errs = append(errs, errors.New("upcast_dice must be >= 0"))
	}
	if s.Level == 0 && s.UpcastDice > 0 {
		errs = append(errs, errors.New("cantrips cannot upcast"))
	}
	if _, err := dice.Parse(s.DamageDice); err != nil {
		errs = append(errs, err)
	}
	if _, err := damage.ParseType(s.DamageType); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell %q: %w: %w", s.ID, rules.ErrValidation, errors.Join(errs...))
	}
	return nil
}

// Spell converts the definition into an attack spell.
func (s *SpellDef) Spell() (combat.AttackSpell, error) {
	if err := s.Validate(); err != nil {
		return combat.AttackSpell{}, err
	}
	level, _ := combat.SpellLevelOf(s.Level)
	expr, _ := dice.Parse(s.DamageDice)
	dt, _ := damage.ParseType(s.DamageType)
	return combat.AttackSpell{
		Name:       s.Name,
		DamageType: dt,
		Damage:     expr,
		Range:      spatial.Feet(s.Range),
		Level:      level,
		UpcastDice: s.UpcastDice,
	}, nil
}

// LoadSpells reads all *.yaml files from dir as SpellDefs.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid SpellDefs or the first encountered error.
func LoadSpells(dir string) ([]*SpellDef, error) {
	var spells []*SpellDef
	err := yamldir.Each(dir, func(path string, data []byte) error {
		var s SpellDef
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("LoadSpells: cannot parse file %q: %w", path, err)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("LoadSpells: invalid spell in %q: %w", path, err)
		}
		spells = append(spells, &s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spells, nil
}
