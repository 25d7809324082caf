package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/reach"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

// MaxSpellLevel is the highest spell slot level.
const MaxSpellLevel = 9

// Profile is the attack-relevant view of a Source.
type Profile struct {
	Name string
	// Category groups sources for proficiency, e.g. "martial" or "simple".
	Category   string
	DamageType damage.Type
	// Ability is the attack ability. It is ignored when Spellcasting is set.
	Ability ability.Ability
	// Spellcasting means the caster's spellcasting ability is used instead.
	Spellcasting bool
	Damage       dice.Expression
	Range        reach.Checker
}

// Source is a closed set of attack sources: MeleeWeapon, RangedWeapon and
// AttackSpell.
type Source interface {
	Profile() Profile
	sealed()
}

// MeleeWeapon attacks adjacent targets. A zero Reach means 5ft.
type MeleeWeapon struct {
	Name       string
	Category   string
	DamageType damage.Type
	Ability    ability.Ability
	Damage     dice.Expression
	Reach      spatial.Feet
}

// Profile implements Source.
func (w MeleeWeapon) Profile() Profile {
	checker := reach.DefaultMelee
	if w.Reach != 0 {
		checker = reach.Melee{Reach: w.Reach}
	}
	return Profile{
		Name:       w.Name,
		Category:   w.Category,
		DamageType: w.DamageType,
		Ability:    w.Ability,
		Damage:     w.Damage,
		Range:      checker,
	}
}

func (MeleeWeapon) sealed() {}

// RangedWeapon attacks at Normal range, or at Long range under disadvantage.
type RangedWeapon struct {
	Name       string
	Category   string
	DamageType damage.Type
	Ability    ability.Ability
	Damage     dice.Expression
	Normal     spatial.Feet
	Long       spatial.Feet
}

// Profile implements Source.
func (w RangedWeapon) Profile() Profile {
	return Profile{
		Name:       w.Name,
		Category:   w.Category,
		DamageType: w.DamageType,
		Ability:    w.Ability,
		Damage:     w.Damage,
		Range:      reach.Ranged{Normal: w.Normal, Long: w.Long},
	}
}

func (RangedWeapon) sealed() {}

// AttackSpell is a spell that makes an attack roll. A zero Range is a touch
// spell with 5ft reach.
type AttackSpell struct {
	Name       string
	DamageType damage.Type
	Damage     dice.Expression
	Range      spatial.Feet
	Level      SpellLevel
	// UpcastDice is the number of extra damage dice per slot above Level.
	UpcastDice int
}

// Profile implements Source.
func (s AttackSpell) Profile() Profile {
	var checker reach.Checker = reach.DefaultMelee
	if s.Range > 0 {
		checker = reach.Ranged{Normal: s.Range}
	}
	return Profile{
		Name:         s.Name,
		Category:     "spell",
		DamageType:   s.DamageType,
		Spellcasting: true,
		Damage:       s.Damage,
		Range:        checker,
	}
}

func (AttackSpell) sealed() {}

// SpellLevel is a closed set: Cantrip or Leveled.
type SpellLevel interface {
	// Number returns 0 for cantrips, 1–9 otherwise.
	Number() int
	String() string
	sealed()
}

// Cantrip is a spell castable without a slot.
type Cantrip struct{}

func (Cantrip) Number() int    { return 0 }
func (Cantrip) String() string { return "cantrip" }
func (Cantrip) sealed()        {}

// Leveled is a spell that consumes a slot of at least its level.
type Leveled int

// NewLeveled returns the spell level n.
//
// Postcondition: Returns an error wrapping rules.ErrValidation unless 1 <= n <= 9.
func NewLeveled(n int) (Leveled, error) {
	if n < 1 || n > MaxSpellLevel {
		return 0, fmt.Errorf("combat: spell level must be in [1, %d], got %d: %w", MaxSpellLevel, n, rules.ErrValidation)
	}
	return Leveled(n), nil
}

func (l Leveled) Number() int    { return int(l) }
func (l Leveled) String() string { return fmt.Sprintf("level %d", int(l)) }
func (Leveled) sealed()          {}

// SpellLevelOf maps 0 to Cantrip and 1–9 to Leveled.
func SpellLevelOf(n int) (SpellLevel, error) {
	if n == 0 {
		return Cantrip{}, nil
	}
	l, err := NewLeveled(n)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ValidateCastingLevel checks that spell can be cast at requested.
// Cantrips are only cast at 0; leveled spells at their level or higher, up to 9.
//
// Postcondition: Returns nil or an error wrapping rules.ErrValidation.
func ValidateCastingLevel(spell AttackSpell, requested int) error {
	switch l := spell.Level.(type) {
	case Cantrip:
		if requested != 0 {
			return fmt.Errorf("combat: cantrip %q cast at level %d: %w", spell.Name, requested, rules.ErrValidation)
		}
	case Leveled:
		if requested < int(l) || requested > MaxSpellLevel {
			return fmt.Errorf("combat: %s spell %q cast at level %d: %w", l, spell.Name, requested, rules.ErrValidation)
		}
	case nil:
		return fmt.Errorf("combat: spell %q has no level: %w", spell.Name, rules.ErrValidation)
	default:
		panic(fmt.Sprintf("combat: unhandled spell level %T", l))
	}
	return nil
}

// AtLevel returns spell as cast in a slot of level requested, with
// UpcastDice added per slot above its base level.
//
// Precondition: ValidateCastingLevel(spell, requested) == nil.
func (s AttackSpell) AtLevel(requested int) AttackSpell {
	extra := requested - s.Level.Number()
	if extra > 0 && s.UpcastDice > 0 && s.Damage.Count > 0 {
		s.Damage = s.Damage.WithCount(s.Damage.Count + extra*s.UpcastDice)
	}
	return s
}

// ValidateSource checks that s is usable for an attack.
//
// Postcondition: Returns nil or an error wrapping rules.ErrValidation.
func ValidateSource(s Source) error {
	if s == nil {
		return fmt.Errorf("combat: nil attack source: %w", rules.ErrValidation)
	}
	p := s.Profile()
	if p.Name == "" {
		return fmt.Errorf("combat: attack source has no name: %w", rules.ErrValidation)
	}
	if !p.Spellcasting && !p.Ability.Valid() {
		return fmt.Errorf("combat: %q has unknown attack ability %d: %w", p.Name, int(p.Ability), rules.ErrValidation)
	}
	if !p.DamageType.Valid() {
		return fmt.Errorf("combat: %q has unknown damage type %q: %w", p.Name, p.DamageType, rules.ErrValidation)
	}
	if err := p.Damage.Validate(); err != nil {
		return fmt.Errorf("combat: %q damage: %w", p.Name, err)
	}
	if err := reach.Validate(p.Range); err != nil {
		return fmt.Errorf("combat: %q range: %w", p.Name, err)
	}
	if spell, ok := s.(AttackSpell); ok {
		if spell.Level == nil {
			return fmt.Errorf("combat: spell %q has no level: %w", spell.Name, rules.ErrValidation)
		}
		if spell.UpcastDice < 0 {
			return fmt.Errorf("combat: spell %q upcast dice must be >= 0: %w", spell.Name, rules.ErrValidation)
		}
	}
	return nil
}
