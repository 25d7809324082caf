package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Expression represents a dice specification ready to be rolled: Count dice
// of type Die plus a flat Bonus. Count 0 is a flat amount.
type Expression struct {
	Count       int // number of dice, >= 0
	Die         Die // ignored when Count == 0
	Bonus       int // flat modifier (may be negative)
	KeepHighest int // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// Flat returns an expression that always totals bonus.
func Flat(bonus int) Expression {
	return Expression{Bonus: bonus}
}

// Of returns the expression count·die + bonus.
func Of(count int, die Die, bonus int) Expression {
	return Expression{Count: count, Die: die, Bonus: bonus}
}

// WithCount returns a copy of e rolling n dice. The bonus is unchanged and a
// keep-highest clause scales with the count.
func (e Expression) WithCount(n int) Expression {
	if e.KeepHighest > 0 && e.Count > 0 {
		e.KeepHighest = e.KeepHighest * n / e.Count
	}
	e.Count = n
	return e
}

// String renders the canonical form, e.g. "2d6+3", "1d20", "4d6kh3", "5".
func (e Expression) String() string {
	if e.Count == 0 {
		return strconv.Itoa(e.Bonus)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d%s", e.Count, e.Die)
	if e.KeepHighest > 0 {
		fmt.Fprintf(&b, "kh%d", e.KeepHighest)
	}
	if e.Bonus != 0 {
		fmt.Fprintf(&b, "%+d", e.Bonus)
	}
	return b.String()
}

// Validate checks the invariants Roll relies on.
//
// Postcondition: Returns nil or an error wrapping rules.ErrValidation.
func (e Expression) Validate() error {
	if e.Count < 0 {
		return fmt.Errorf("dice: die count must be >= 0, got %d: %w", e.Count, rules.ErrValidation)
	}
	if e.Count > 0 && !e.Die.Valid() {
		return fmt.Errorf("dice: unsupported die %s: %w", e.Die, rules.ErrValidation)
	}
	if e.KeepHighest < 0 || (e.KeepHighest > 0 && e.KeepHighest >= e.Count) {
		return fmt.Errorf("dice: kh value %d must be > 0 and < count %d: %w", e.KeepHighest, e.Count, rules.ErrValidation)
	}
	return nil
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "1d4+2", "4d8-2", "4d6kh3", "0d6+3", "5".
//
// Postcondition: Returns a valid Expression or an error wrapping rules.ErrValidation.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression: %w", rules.ErrValidation)
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid flat amount %q: %w", expr, rules.ErrValidation)
		}
		return Flat(flat), nil
	}

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, rules.ErrValidation)
		}
		count = n
	}

	rest := s[dIdx+1:]

	// Split off the modifier: the first '+' or '-' past position 0.
	modStr := ""
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modStr = rest[i:]
			rest = rest[:i]
			break
		}
	}

	keepHighest := 0
	if khIdx := strings.Index(rest, "kh"); khIdx >= 0 {
		kh, err := strconv.Atoi(rest[khIdx+2:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid kh value in %q: %w", expr, rules.ErrValidation)
		}
		keepHighest = kh
		rest = rest[:khIdx]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, rules.ErrValidation)
	}

	bonus := 0
	if modStr != "" {
		bonus, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, rules.ErrValidation)
		}
	}

	e := Expression{Count: count, Die: Die(sides), Bonus: bonus, KeepHighest: keepHighest}
	if count > 0 && !e.Die.Valid() {
		return Expression{}, fmt.Errorf("dice: unsupported die d%d in %q: %w", sides, expr, rules.ErrValidation)
	}
	if err := e.Validate(); err != nil {
		return Expression{}, fmt.Errorf("dice: parsing %q: %w", expr, err)
	}
	return e, nil
}

// MustParse parses expr and panics on error. Useful for package-level values.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
