// Package damage models typed damage and how a combatant's resistances,
// immunities, and vulnerabilities change it.
package damage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Type is a damage category. The set of types is closed.
type Type string

const (
	Acid        Type = "acid"
	Bludgeoning Type = "bludgeoning"
	Cold        Type = "cold"
	Fire        Type = "fire"
	Force       Type = "force"
	Lightning   Type = "lightning"
	Necrotic    Type = "necrotic"
	Piercing    Type = "piercing"
	Poison      Type = "poison"
	Psychic     Type = "psychic"
	Radiant     Type = "radiant"
	Slashing    Type = "slashing"
	Thunder     Type = "thunder"
)

// Types lists every damage type in alphabetical order.
var Types = []Type{Acid, Bludgeoning, Cold, Fire, Force, Lightning, Necrotic, Piercing, Poison, Psychic, Radiant, Slashing, Thunder}

// Valid reports whether t is one of the known damage types.
func (t Type) Valid() bool {
	for _, k := range Types {
		if t == k {
			return true
		}
	}
	return false
}

// ParseType parses a case-insensitive damage type name.
//
// Postcondition: Returns a valid Type or an error wrapping rules.ErrValidation.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("damage: unknown damage type %q: %w", s, rules.ErrValidation)
	}
	return t, nil
}

// Effect names the rule that changed a damage amount.
type Effect int

const (
	Unmodified Effect = iota
	Resisted
	Immune
	Vulnerable
)

// String returns a human-readable effect label.
func (e Effect) String() string {
	switch e {
	case Unmodified:
		return "unmodified"
	case Resisted:
		return "resisted"
	case Immune:
		return "immune"
	case Vulnerable:
		return "vulnerable"
	default:
		return "unknown"
	}
}

type set map[Type]struct{}

func newSet(ts []Type) set {
	s := make(set, len(ts))
	for _, t := range ts {
		s[t] = struct{}{}
	}
	return s
}

func (s set) has(t Type) bool {
	_, ok := s[t]
	return ok
}

// Modifiers holds a combatant's resistances, immunities, and vulnerabilities.
// A type should appear in at most one set. When it appears in several,
// immunity beats vulnerability and vulnerability beats resistance.
//
// The zero value has no modifiers. Modifiers is immutable once built.
type Modifiers struct {
	resistances     set
	immunities      set
	vulnerabilities set
}

// NewModifiers builds Modifiers from the three type lists.
//
// Postcondition: Returns an error wrapping rules.ErrValidation if any entry is
// not a known damage type.
func NewModifiers(resistances, immunities, vulnerabilities []Type) (Modifiers, error) {
	for _, group := range [][]Type{resistances, immunities, vulnerabilities} {
		for _, t := range group {
			if !t.Valid() {
				return Modifiers{}, fmt.Errorf("damage: unknown damage type %q: %w", t, rules.ErrValidation)
			}
		}
	}
	return Modifiers{
		resistances:     newSet(resistances),
		immunities:      newSet(immunities),
		vulnerabilities: newSet(vulnerabilities),
	}, nil
}

// Resists reports whether t is in the resistance set.
func (m Modifiers) Resists(t Type) bool { return m.resistances.has(t) }

// ImmuneTo reports whether t is in the immunity set.
func (m Modifiers) ImmuneTo(t Type) bool { return m.immunities.has(t) }

// VulnerableTo reports whether t is in the vulnerability set.
func (m Modifiers) VulnerableTo(t Type) bool { return m.vulnerabilities.has(t) }

// Overlaps lists, alphabetically, the types declared in more than one set.
// Loaders report these so the precedence rule is never applied silently.
func (m Modifiers) Overlaps() []Type {
	var out []Type
	for _, t := range Types {
		n := 0
		for _, s := range []set{m.resistances, m.immunities, m.vulnerabilities} {
			if s.has(t) {
				n++
			}
		}
		if n > 1 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EffectFor returns the rule that applies to t: immunity, then vulnerability,
// then resistance.
func (m Modifiers) EffectFor(t Type) Effect {
	switch {
	case m.ImmuneTo(t):
		return Immune
	case m.VulnerableTo(t):
		return Vulnerable
	case m.Resists(t):
		return Resisted
	default:
		return Unmodified
	}
}

// Apply returns raw adjusted by m for damage of type t:
// immunity → 0, vulnerability → raw×2, resistance → floor(raw/2).
//
// Precondition: raw >= 0.
// Postcondition: Returns an error wrapping rules.ErrValidation when raw < 0;
// otherwise the result is >= 0.
func Apply(t Type, raw int, m Modifiers) (int, Effect, error) {
	if raw < 0 {
		return 0, Unmodified, fmt.Errorf("damage: raw %s damage must be >= 0, got %d: %w", t, raw, rules.ErrValidation)
	}
	e := m.EffectFor(t)
	switch e {
	case Immune:
		return 0, e, nil
	case Vulnerable:
		return raw * 2, e, nil
	case Resisted:
		return raw / 2, e, nil
	default:
		return raw, e, nil
	}
}
