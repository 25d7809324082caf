// Package dice provides the core randomness abstraction and roll-result types
// for the skirmish rules engine.
package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Die is a polyhedral die identified by its face count.
type Die int

const (
	D4   Die = 4
	D6   Die = 6
	D8   Die = 8
	D10  Die = 10
	D12  Die = 12
	D20  Die = 20
	D100 Die = 100
)

// Sides returns the number of faces on d.
func (d Die) Sides() int { return int(d) }

// Valid reports whether d is one of the supported dice.
func (d Die) Valid() bool {
	switch d {
	case D4, D6, D8, D10, D12, D20, D100:
		return true
	default:
		return false
	}
}

// String returns the conventional die name, e.g. "d20".
func (d Die) String() string {
	return "d" + strconv.Itoa(int(d))
}

// ParseDie parses "d8", "D8" or "8" into a Die.
//
// Postcondition: Returns a valid Die or an error wrapping rules.ErrValidation.
func ParseDie(s string) (Die, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "d")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("dice: invalid die %q: %w", s, rules.ErrValidation)
	}
	d := Die(n)
	if !d.Valid() {
		return 0, fmt.Errorf("dice: unsupported die %q: %w", s, rules.ErrValidation)
	}
	return d, nil
}

// RollModifier selects how the primary check die is rolled.
// It never applies to damage dice.
type RollModifier int

const (
	// Normal rolls the check die once.
	Normal RollModifier = iota
	// Advantage rolls twice and keeps the higher face.
	Advantage
	// Disadvantage rolls twice and keeps the lower face.
	Disadvantage
)

// String returns a human-readable modifier label.
func (m RollModifier) String() string {
	switch m {
	case Normal:
		return "normal"
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	default:
		return "unknown"
	}
}

// ParseRollModifier parses "normal", "advantage" or "disadvantage"; the empty
// string is Normal.
func ParseRollModifier(s string) (RollModifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "advantage", "adv":
		return Advantage, nil
	case "disadvantage", "dis":
		return Disadvantage, nil
	default:
		return Normal, fmt.Errorf("dice: unknown roll modifier %q: %w", s, rules.ErrValidation)
	}
}

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Expr.Bonus.
type RollResult struct {
	Expr Expression // what was rolled
	Dice []int      // kept die faces before the bonus
}

// Total returns the sum of all kept die faces plus the flat bonus.
func (r RollResult) Total() int {
	total := r.Expr.Bonus
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expr, r.Dice, r.Expr.Bonus, r.Total())
}

// CheckResult is the outcome of rolling a single check die under a RollModifier.
type CheckResult struct {
	Die      Die
	Modifier RollModifier
	// Faces holds every face rolled: one for Normal, two otherwise.
	Faces []int
	// Natural is the kept face.
	Natural int
}

// Source is the randomness provider for dice rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// FaceSource is implemented by sources that hand out pre-programmed faces per
// die instead of uniform values. Roll prefers Face over Intn when available.
type FaceSource interface {
	Source
	// Face returns the next programmed face for d, or an error wrapping
	// rules.ErrHarnessMisuse once the sequence for d is exhausted.
	Face(d Die) (int, error)
}

// face draws one face of d from src.
func face(src Source, d Die) (int, error) {
	if fs, ok := src.(FaceSource); ok {
		return fs.Face(d)
	}
	return src.Intn(d.Sides()) + 1, nil
}
