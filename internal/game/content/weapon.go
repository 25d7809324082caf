// Package content provides YAML definitions and loaders for the weapons and
// spells combatants attack with.
package content

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
	"github.com/cory-johannsen/skirmish/internal/yamldir"
)

// WeaponKind distinguishes melee from ranged weapons.
type WeaponKind string

const (
	WeaponKindMelee  WeaponKind = "melee"
	WeaponKindRanged WeaponKind = "ranged"
)

// WeaponDef defines the static properties of a weapon loaded from YAML.
type WeaponDef struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Kind       WeaponKind `yaml:"kind"`
	Category   string     `yaml:"category"`
	DamageDice string     `yaml:"damage_dice"`
	DamageType string     `yaml:"damage_type"`
	// Ability defaults to strength for melee and dexterity for ranged.
	Ability     string  `yaml:"ability"`
	Reach       float64 `yaml:"reach"` // melee only; 0 = 5ft
	NormalRange float64 `yaml:"normal_range"`
	LongRange   float64 `yaml:"long_range"` // 0 = no long range
}

// IsMelee reports whether the weapon is a melee weapon.
func (w *WeaponDef) IsMelee() bool {
	return w.Kind == WeaponKindMelee
}

// Validate checks that the WeaponDef satisfies its invariants.
//
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid; otherwise the error
// wraps rules.ErrValidation and lists every violation.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch w.Kind {
	case WeaponKindMelee:
		if w.Reach < 0 {
			errs = append(errs, errors.New("reach must be >= 0"))
		}
	case WeaponKindRanged:
		if w.NormalRange <= 0 {
			errs = append(errs, errors.New("ranged normal_range must be > 0"))
		}
		if w.LongRange != 0 && w.LongRange < w.NormalRange {
			errs = append(errs, errors.New("long_range must be 0 or >= normal_range"))
		}
	default:
		errs = append(errs, fmt.Errorf("kind %q must be melee or ranged", w.Kind))
	}
	if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, err)
	}
	if _, err := damage.ParseType(w.DamageType); err != nil {
		errs = append(errs, err)
	}
	if w.Ability != "" {
		if _, err := ability.ParseAbility(w.Ability); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w: %w", w.ID, rules.ErrValidation, errors.Join(errs...))
	}
	return nil
}

// Source converts the definition into an attack source.
//
// Postcondition: Returns a combat.MeleeWeapon or combat.RangedWeapon, or the
// Validate error.
func (w *WeaponDef) Source() (combat.Source, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	expr, _ := dice.Parse(w.DamageDice)
	dt, _ := damage.ParseType(w.DamageType)

	ab := ability.Strength
	if !w.IsMelee() {
		ab = ability.Dexterity
	}
	if w.Ability != "" {
		ab, _ = ability.ParseAbility(w.Ability)
	}

	if w.IsMelee() {
		return combat.MeleeWeapon{
			Name:       w.Name,
			Category:   w.Category,
			DamageType: dt,
			Ability:    ab,
			Damage:     expr,
			Reach:      spatial.Feet(w.Reach),
		}, nil
	}
	return combat.RangedWeapon{
		Name:       w.Name,
		Category:   w.Category,
		DamageType: dt,
		Ability:    ab,
		Damage:     expr,
		Normal:     spatial.Feet(w.NormalRange),
		Long:       spatial.Feet(w.LongRange),
	}, nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	var weapons []*WeaponDef
	err := yamldir.Each(dir, func(path string, data []byte) error {
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return weapons, nil
}
