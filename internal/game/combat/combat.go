// Package combat resolves single attacks between two combatants.
//
// Resolution is a pure computation over its inputs: it rolls dice through an
// injected dice.Roller, reads positions through a spatial.PositionProvider,
// and returns an immutable Outcome. It never mutates hit points.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/reach"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

// Attacker is anything that can make an attack roll.
type Attacker interface {
	CombatantID() string
	AbilityModifier(a ability.Ability) ability.Modifier
	// ProficiencyFor returns the bonus the attacker adds when attacking with s,
	// or ability.None when untrained.
	ProficiencyFor(s Source) ability.Proficiency
}

// Defender is anything that can be the target of an attack.
type Defender interface {
	CombatantID() string
	ArmourClass() int
	DamageModifiers() damage.Modifiers
}

// Caster is an Attacker that can cast attack spells.
type Caster interface {
	Attacker
	SpellcastingAbility() ability.Ability
}

// Outcome is the immutable result of one resolved attack.
type Outcome struct {
	AttackerID string
	DefenderID string
	Source     Source
	Modifier   dice.RollModifier
	Distance   spatial.Feet
	Band       reach.Band
	// NaturalRoll is the kept d20 face; HitRoll adds ability and proficiency.
	NaturalRoll int
	HitRoll     int
	ArmourClass int
	Hit         bool
	Critical    bool
	// DamageRoll is empty on a miss.
	DamageRoll dice.RollResult
	// RawDamage is the rolled damage plus ability modifier, floored at 0.
	RawDamage int
	// Damage is RawDamage after the defender's resistances; 0 on a miss.
	Damage int
	Effect damage.Effect
}

// String renders a one-line combat log entry.
func (o Outcome) String() string {
	name := "<nil>"
	var dt damage.Type
	if o.Source != nil {
		p := o.Source.Profile()
		name, dt = p.Name, p.DamageType
	}
	if !o.Hit {
		return fmt.Sprintf("%s misses %s with %s (%d vs AC %d)", o.AttackerID, o.DefenderID, name, o.HitRoll, o.ArmourClass)
	}
	verb := "hits"
	if o.Critical {
		verb = "critically hits"
	}
	return fmt.Sprintf("%s %s %s with %s (%d vs AC %d) for %d %s", o.AttackerID, verb, o.DefenderID, name, o.HitRoll, o.ArmourClass, o.Damage, dt)
}
