// Package ability models the six ability scores, their derived modifiers,
// and level-banded proficiency.
package ability

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Ability names one of the six core abilities.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// All lists the six abilities in canonical order.
var All = [...]Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var abilityNames = [...]string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// Valid reports whether a is one of the six abilities.
func (a Ability) Valid() bool {
	return a >= Strength && a <= Charisma
}

// String returns the lower-case ability name.
func (a Ability) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return abilityNames[a]
}

// ParseAbility accepts full names ("strength") and abbreviations ("str").
//
// Postcondition: Returns a valid Ability or an error wrapping rules.ErrValidation.
func ParseAbility(s string) (Ability, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range abilityNames {
		if key == name || (len(key) == 3 && strings.HasPrefix(name, key)) {
			return Ability(i), nil
		}
	}
	return 0, fmt.Errorf("ability: unknown ability %q: %w", s, rules.ErrValidation)
}

const (
	// MinScore is the lowest legal ability score.
	MinScore = 1
	// MaxScore is the highest legal ability score.
	MaxScore = 30
	// DefaultScore is the unremarkable score a missing ability takes.
	DefaultScore Score = 10
)

// Score is a raw ability score in [MinScore, MaxScore].
type Score int

// NewScore validates v as an ability score.
//
// Postcondition: Returns an error wrapping rules.ErrValidation when v is outside [1, 30].
func NewScore(v int) (Score, error) {
	if v < MinScore || v > MaxScore {
		return 0, fmt.Errorf("ability: score %d outside [%d, %d]: %w", v, MinScore, MaxScore, rules.ErrValidation)
	}
	return Score(v), nil
}

// Modifier returns floor((score - 10) / 2).
func (s Score) Modifier() Modifier {
	diff := int(s) - 10
	if diff < 0 {
		return Modifier((diff - 1) / 2)
	}
	return Modifier(diff / 2)
}

// Modifier is the bonus derived from a Score. It is added to rolls.
type Modifier int

// String renders the modifier with its sign, e.g. "+3" or "-1".
func (m Modifier) String() string {
	return fmt.Sprintf("%+d", int(m))
}

// StatBlock holds the six ability scores. It is immutable once built.
type StatBlock struct {
	scores [len(All)]Score
}

// NewStatBlock builds a StatBlock. Abilities missing from scores default to 10.
//
// Postcondition: Returns an error wrapping rules.ErrValidation if any score is
// outside [1, 30] or any key is not a known ability.
func NewStatBlock(scores map[Ability]int) (StatBlock, error) {
	var sb StatBlock
	for i := range sb.scores {
		sb.scores[i] = DefaultScore
	}
	for a, v := range scores {
		if !a.Valid() {
			return StatBlock{}, fmt.Errorf("ability: unknown ability %d: %w", int(a), rules.ErrValidation)
		}
		s, err := NewScore(v)
		if err != nil {
			return StatBlock{}, fmt.Errorf("ability: %s: %w", a, err)
		}
		sb.scores[a] = s
	}
	return sb, nil
}

// MustStatBlock is NewStatBlock for fixtures; it panics on invalid scores.
func MustStatBlock(scores map[Ability]int) StatBlock {
	sb, err := NewStatBlock(scores)
	if err != nil {
		panic(err.Error())
	}
	return sb
}

// Score returns the raw score for a. The zero StatBlock reports 0 for every
// ability, and an unknown ability scores 0.
func (sb StatBlock) Score(a Ability) Score {
	if !a.Valid() {
		return 0
	}
	return sb.scores[a]
}

// Modifier returns the derived modifier for a, or 0 for an unknown ability.
func (sb StatBlock) Modifier(a Ability) Modifier {
	if !a.Valid() {
		return 0
	}
	return sb.scores[a].Modifier()
}
