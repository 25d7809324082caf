package ability

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Proficiency is the flat bonus a trained combatant adds to a check.
// The zero value is None.
type Proficiency struct {
	bonus int
}

// None is the untrained proficiency; it contributes 0.
var None = Proficiency{}

// ProficiencyFromLevel returns the banded bonus for level:
// 1–4 → +2, 5–8 → +3, 9–12 → +4, 13–16 → +5, 17+ → +6.
//
// Postcondition: Returns an error wrapping rules.ErrValidation when level < 1.
func ProficiencyFromLevel(level int) (Proficiency, error) {
	if level < 1 {
		return None, fmt.Errorf("ability: proficiency level must be >= 1, got %d: %w", level, rules.ErrValidation)
	}
	return Proficiency{bonus: min(2+(level-1)/4, 6)}, nil
}

// Bonus returns the amount added to a check.
func (p Proficiency) Bonus() int { return p.bonus }

// Trained reports whether p contributes anything.
func (p Proficiency) Trained() bool { return p.bonus > 0 }

// NewProficiency returns a proficiency worth exactly bonus. Content uses it
// for creatures whose training does not follow the level bands.
//
// Postcondition: Returns an error wrapping rules.ErrValidation when bonus < 0.
func NewProficiency(bonus int) (Proficiency, error) {
	if bonus < 0 {
		return None, fmt.Errorf("ability: proficiency bonus must be >= 0, got %d: %w", bonus, rules.ErrValidation)
	}
	return Proficiency{bonus: bonus}, nil
}
