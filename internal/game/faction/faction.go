// Package faction models faction allegiance and the symmetric stance between
// any two factions.
package faction

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Faction is a named allegiance. Factions compare by ID.
type Faction struct {
	ID   string
	Name string
}

// New creates a Faction named name with a fresh random ID.
func New(name string) Faction {
	return Faction{ID: uuid.NewString(), Name: name}
}

func (f Faction) String() string {
	if f.Name == "" {
		return f.ID
	}
	return f.Name
}

// Stance is how one faction regards another.
type Stance int

const (
	Friendly Stance = iota
	Neutral
	Hostile
)

// String returns the lowercase stance name.
func (s Stance) String() string {
	switch s {
	case Friendly:
		return "friendly"
	case Neutral:
		return "neutral"
	case Hostile:
		return "hostile"
	default:
		return "unknown"
	}
}

// ParseStance parses a case-insensitive stance name.
//
// Postcondition: Returns an error wrapping rules.ErrValidation for unknown names.
func ParseStance(s string) (Stance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "friendly":
		return Friendly, nil
	case "neutral":
		return Neutral, nil
	case "hostile":
		return Hostile, nil
	default:
		return 0, fmt.Errorf("faction: unknown stance %q: %w", s, rules.ErrValidation)
	}
}

// Relationship declares the stance between an unordered pair of factions.
type Relationship struct {
	A, B   Faction
	Stance Stance
}

type pair struct{ lo, hi string }

func pairOf(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}

// Relations is a symmetric stance table. Each unordered pair is declared at
// most once. Undeclared pairs are hostile; a faction is always friendly to
// itself.
//
// Relations is safe for concurrent use.
type Relations struct {
	mu      sync.RWMutex
	stances map[pair]Relationship
	order   []pair
}

// NewRelations returns an empty stance table.
func NewRelations() *Relations {
	return &Relations{stances: make(map[pair]Relationship)}
}

// Add declares the stance between a and b.
//
// Postcondition: Returns an error wrapping rules.ErrValidation when either ID
// is empty, when a and b are the same faction, or when the pair was already
// declared in either order.
func (r *Relations) Add(a, b Faction, stance Stance) error {
	if a.ID == "" || b.ID == "" {
		return fmt.Errorf("faction: relationship needs two faction ids: %w", rules.ErrValidation)
	}
	if a.ID == b.ID {
		return fmt.Errorf("faction: %s cannot declare a stance toward itself: %w", a, rules.ErrValidation)
	}
	if stance < Friendly || stance > Hostile {
		return fmt.Errorf("faction: unknown stance %d: %w", int(stance), rules.ErrValidation)
	}
	key := pairOf(a.ID, b.ID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stances[key]; ok {
		return fmt.Errorf("faction: stance between %s and %s already declared as %s: %w",
			existing.A, existing.B, existing.Stance, rules.ErrValidation)
	}
	r.stances[key] = Relationship{A: a, B: b, Stance: stance}
	r.order = append(r.order, key)
	return nil
}

// QueryStance returns how a regards b. The result is symmetric.
func (r *Relations) QueryStance(a, b Faction) Stance {
	return r.QueryStanceByID(a.ID, b.ID)
}

// QueryStanceByID is QueryStance keyed by faction ID.
func (r *Relations) QueryStanceByID(a, b string) Stance {
	if a == b {
		return Friendly
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rel, ok := r.stances[pairOf(a, b)]; ok {
		return rel.Stance
	}
	return Hostile
}

// Relationships returns every declared relationship in declaration order.
func (r *Relations) Relationships() []Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Relationship, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.stances[k])
	}
	return out
}
