// Package creature provides combatant records and the YAML templates they are
// spawned from.
package creature

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

var (
	_ combat.Caster   = (*Creature)(nil)
	_ combat.Defender = (*Creature)(nil)
)

// Creature is a live combatant.
//
// A Creature is not safe for concurrent mutation; the registry serializes
// writes per entry.
type Creature struct {
	// ID uniquely identifies this runtime creature.
	ID string
	// TemplateID is the source template's ID; empty for hand-built creatures.
	TemplateID string
	Name       string
	Level      int
	Stats      ability.StatBlock
	MaxHP      int
	CurrentHP  int
	AC         int
	Modifiers  damage.Modifiers
	Position   spatial.BoardPosition
	// Proficiencies holds trained source names and categories.
	Proficiencies map[string]bool
	// SpellAbility is the ability used for attack spells.
	SpellAbility ability.Ability
	// Weapons lists content weapon IDs this creature carries.
	Weapons []string
	// Spells lists content spell IDs this creature knows.
	Spells []string
}

// CombatantID implements combat.Attacker and combat.Defender.
func (c *Creature) CombatantID() string { return c.ID }

// AbilityModifier implements combat.Attacker.
func (c *Creature) AbilityModifier(a ability.Ability) ability.Modifier {
	return c.Stats.Modifier(a)
}

// ProficiencyFor implements combat.Attacker. The creature is trained with s
// when its proficiencies list the source's name or category; the bonus then
// follows the creature's level band.
func (c *Creature) ProficiencyFor(s combat.Source) ability.Proficiency {
	return combat.Proficient(c.Proficiencies, s, c.Level)
}

// SpellcastingAbility implements combat.Caster.
func (c *Creature) SpellcastingAbility() ability.Ability { return c.SpellAbility }

// ArmourClass implements combat.Defender.
func (c *Creature) ArmourClass() int { return c.AC }

// DamageModifiers implements combat.Defender.
func (c *Creature) DamageModifiers() damage.Modifiers { return c.Modifiers }

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP >= 0. Returns the remaining hit points, or an error
// wrapping rules.ErrValidation for a negative amount.
func (c *Creature) ApplyDamage(amount int) (int, error) {
	if amount < 0 {
		return c.CurrentHP, fmt.Errorf("creature %s: damage must be >= 0, got %d: %w", c.ID, amount, rules.ErrValidation)
	}
	c.CurrentHP = max(c.CurrentHP-amount, 0)
	return c.CurrentHP, nil
}

// Heal restores up to amount hit points without exceeding MaxHP.
//
// Postcondition: CurrentHP <= MaxHP. A negative amount returns an error
// wrapping rules.ErrValidation.
func (c *Creature) Heal(amount int) (int, error) {
	if amount < 0 {
		return c.CurrentHP, fmt.Errorf("creature %s: healing must be >= 0, got %d: %w", c.ID, amount, rules.ErrValidation)
	}
	c.CurrentHP = min(c.CurrentHP+amount, c.MaxHP)
	return c.CurrentHP, nil
}

// IsDead reports whether the creature has no hit points left.
func (c *Creature) IsDead() bool { return c.CurrentHP <= 0 }

// Clone returns a copy that shares no mutable state with c.
func (c *Creature) Clone() *Creature {
	cp := *c
	if c.Proficiencies != nil {
		cp.Proficiencies = make(map[string]bool, len(c.Proficiencies))
		for k, v := range c.Proficiencies {
			cp.Proficiencies[k] = v
		}
	}
	cp.Weapons = append([]string(nil), c.Weapons...)
	cp.Spells = append([]string(nil), c.Spells...)
	return &cp
}
