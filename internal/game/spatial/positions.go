package spatial

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// PositionProvider maps a combatant identity to its current grid square.
// It is supplied by whatever session layer owns the board.
type PositionProvider interface {
	// Position returns the square occupied by id, or an error wrapping
	// rules.ErrLookupFailure when id has no known position.
	Position(id string) (BoardPosition, error)
}

// Positions is a PositionProvider backed by a map.
// All methods are safe for concurrent use.
type Positions struct {
	mu  sync.RWMutex
	pos map[string]BoardPosition
}

// NewPositions returns an empty Positions.
//
// Postcondition: Returns a non-nil *Positions ready for Set.
func NewPositions() *Positions {
	return &Positions{pos: make(map[string]BoardPosition)}
}

// Set records that id occupies p, replacing any earlier position.
func (ps *Positions) Set(id string, p BoardPosition) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.pos[id] = p
}

// Remove forgets id. Removing an unknown id is a no-op.
func (ps *Positions) Remove(id string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.pos, id)
}

// Position implements PositionProvider.
func (ps *Positions) Position(id string) (BoardPosition, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.pos[id]
	if !ok {
		return BoardPosition{}, fmt.Errorf("spatial: no position for %q: %w", id, rules.ErrLookupFailure)
	}
	return p, nil
}

// CoordinateOf resolves id through provider and converts the square to feet.
//
// Postcondition: Returns the provider's lookup error unchanged in the chain.
func CoordinateOf(provider PositionProvider, id string) (Coordinate, error) {
	p, err := provider.Position(id)
	if err != nil {
		return Coordinate{}, err
	}
	return p.Coordinate(), nil
}
