package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// CritPredicate decides whether a natural face of a die with sides faces is a
// critical hit. It sees the raw face, never the modified total.
type CritPredicate func(face, sides int) bool

// CritOnMax is the default rule: only the highest face crits.
func CritOnMax(face, sides int) bool {
	return face == sides
}

// CritThreshold returns a predicate that crits on any d20 face >= n.
// CritThreshold(19) widens the range to 19–20.
//
// Postcondition: Returns an error wrapping rules.ErrValidation unless 2 <= n <= 20.
func CritThreshold(n int) (CritPredicate, error) {
	if n < 2 || n > 20 {
		return nil, fmt.Errorf("combat: critical threshold must be in [2, 20], got %d: %w", n, rules.ErrValidation)
	}
	return func(face, sides int) bool {
		return face >= n-20+sides && face <= sides
	}, nil
}
