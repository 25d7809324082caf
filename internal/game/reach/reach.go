// Package reach decides whether a target is within an attack's range.
//
// A Checker is a closed set of range rules: Melee and Ranged. Distances are
// always Euclidean over world coordinates, never grid squares.
package reach

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

// Band classifies a distance against a Checker.
type Band int

const (
	// BandNormal is within normal range; the attack proceeds unhindered.
	BandNormal Band = iota
	// BandLong is beyond normal range but within long range; the attack is
	// only legal under disadvantage.
	BandLong
	// BandOut is unreachable.
	BandOut
)

// String returns a human-readable band label.
func (b Band) String() string {
	switch b {
	case BandNormal:
		return "normal"
	case BandLong:
		return "long"
	case BandOut:
		return "out of range"
	default:
		return "unknown"
	}
}

// Checker is a range rule. The interface is sealed: Melee and Ranged are the
// only implementations.
type Checker interface {
	// Band classifies the distance between two world positions.
	Band(from, to spatial.Coordinate) Band
	// String describes the rule, e.g. "melee 5ft".
	String() string
	sealed()
}

// Melee reaches targets within Reach feet.
type Melee struct {
	Reach spatial.Feet
}

// Band implements Checker: BandNormal iff distance <= Reach.
func (m Melee) Band(from, to spatial.Coordinate) Band {
	if from.Distance(to) <= m.Reach {
		return BandNormal
	}
	return BandOut
}

func (m Melee) String() string { return fmt.Sprintf("melee %s", m.Reach) }

func (Melee) sealed() {}

// Ranged reaches targets within Normal feet at full efficiency, and targets
// within Long feet under disadvantage. Long <= Normal means no long range.
type Ranged struct {
	Normal spatial.Feet
	Long   spatial.Feet
}

// Band implements Checker.
func (r Ranged) Band(from, to spatial.Coordinate) Band {
	d := from.Distance(to)
	switch {
	case d <= r.Normal:
		return BandNormal
	case r.Long > r.Normal && d <= r.Long:
		return BandLong
	default:
		return BandOut
	}
}

func (r Ranged) String() string {
	if r.Long > r.Normal {
		return fmt.Sprintf("ranged %s/%s", r.Normal, r.Long)
	}
	return fmt.Sprintf("ranged %s", r.Normal)
}

func (Ranged) sealed() {}

// DefaultMelee is the standard 5ft melee reach.
var DefaultMelee = Melee{Reach: spatial.FeetPerSquare}

// Reachable reports whether to is within c's normal range from from.
func Reachable(c Checker, from, to spatial.Coordinate) bool {
	return c.Band(from, to) == BandNormal
}

// Validate checks that c's distances are usable.
//
// Postcondition: Returns nil or an error wrapping rules.ErrValidation.
func Validate(c Checker) error {
	switch v := c.(type) {
	case Melee:
		if v.Reach <= 0 {
			return fmt.Errorf("reach: melee reach must be > 0, got %s: %w", v.Reach, rules.ErrValidation)
		}
	case Ranged:
		if v.Normal <= 0 {
			return fmt.Errorf("reach: normal range must be > 0, got %s: %w", v.Normal, rules.ErrValidation)
		}
		if v.Long != 0 && v.Long < v.Normal {
			return fmt.Errorf("reach: long range %s below normal range %s: %w", v.Long, v.Normal, rules.ErrValidation)
		}
	case nil:
		return fmt.Errorf("reach: nil checker: %w", rules.ErrValidation)
	default:
		panic(fmt.Sprintf("reach: unhandled checker %T", c))
	}
	return nil
}

// Measurement is the result of checking an attacker against a defender.
type Measurement struct {
	From     spatial.Coordinate
	To       spatial.Coordinate
	Distance spatial.Feet
	Band     Band
}

// Check resolves both identities through provider and classifies their
// distance against c.
//
// Postcondition: Returns the provider's error (wrapping rules.ErrLookupFailure)
// when either identity has no position.
func Check(c Checker, provider spatial.PositionProvider, attackerID, defenderID string) (Measurement, error) {
	from, err := spatial.CoordinateOf(provider, attackerID)
	if err != nil {
		return Measurement{}, fmt.Errorf("reach: locating attacker: %w", err)
	}
	to, err := spatial.CoordinateOf(provider, defenderID)
	if err != nil {
		return Measurement{}, fmt.Errorf("reach: locating defender: %w", err)
	}
	return Measurement{From: from, To: to, Distance: from.Distance(to), Band: c.Band(from, to)}, nil
}
