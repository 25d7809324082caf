// Package registry groups live combatants by faction and answers identity and
// stance queries over them.
package registry

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/faction"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

var _ spatial.PositionProvider = (*Registry)(nil)

// Entry is one registered combatant. Its creature and faction are guarded by
// the entry's own mutex so that writes to different entries never contend.
type Entry struct {
	id       string
	mu       sync.Mutex
	faction  faction.Faction
	creature *creature.Creature
}

// ID returns the combatant's identity.
func (e *Entry) ID() string { return e.id }

// Faction returns the entry's current faction.
func (e *Entry) Faction() faction.Faction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.faction
}

// Snapshot returns a copy of the entry's creature.
func (e *Entry) Snapshot() *creature.Creature {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.creature.Clone()
}

// Registry tracks combatant entries by identity and faction.
//
// Reads of the index take a shared lock; adding, removing and reassigning take
// the exclusive lock. Creature state is changed only through Update, which
// holds the single entry's mutex and never the registry lock.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	relations *faction.Relations
	byID      map[string]*Entry
	byFaction map[string][]*Entry // faction ID → entries in insertion order
	order     []*Entry
}

// NewRegistry creates an empty Registry whose stance queries use relations.
//
// Precondition: relations must be non-nil.
func NewRegistry(relations *faction.Relations) *Registry {
	if relations == nil {
		panic("registry: NewRegistry: precondition violated: relations must be non-nil")
	}
	return &Registry{
		relations: relations,
		byID:      make(map[string]*Entry),
		byFaction: make(map[string][]*Entry),
	}
}

// Add registers c as a member of f. The registry takes ownership of c; callers
// must change it only through Update.
//
// Postcondition: Returns the new Entry, or an error wrapping
// rules.ErrValidation when c is nil, c or f has no ID, or c.ID is taken.
func (r *Registry) Add(f faction.Faction, c *creature.Creature) (*Entry, error) {
	if c == nil || c.ID == "" {
		return nil, fmt.Errorf("registry: creature must have an id: %w", rules.ErrValidation)
	}
	if f.ID == "" {
		return nil, fmt.Errorf("registry: %s: faction must have an id: %w", c.ID, rules.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[c.ID]; exists {
		return nil, fmt.Errorf("registry: combatant %q already registered: %w", c.ID, rules.ErrValidation)
	}
	e := &Entry{id: c.ID, faction: f, creature: c}
	r.byID[c.ID] = e
	r.byFaction[f.ID] = append(r.byFaction[f.ID], e)
	r.order = append(r.order, e)
	return e, nil
}

// Remove unregisters the combatant with the given id.
//
// Postcondition: Returns an error wrapping rules.ErrLookupFailure if absent.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("registry: combatant %q: %w", id, rules.ErrLookupFailure)
	}
	delete(r.byID, id)
	r.order = without(r.order, e)
	fid := e.Faction().ID
	r.byFaction[fid] = without(r.byFaction[fid], e)
	if len(r.byFaction[fid]) == 0 {
		delete(r.byFaction, fid)
	}
	return nil
}

// Reassign moves the combatant to faction f. It keeps its place in the
// registry-wide insertion order and joins the end of f's member list.
//
// Postcondition: Returns an error wrapping rules.ErrLookupFailure for an
// unknown id, or rules.ErrValidation when f has no ID.
func (r *Registry) Reassign(id string, f faction.Faction) error {
	if f.ID == "" {
		return fmt.Errorf("registry: %s: faction must have an id: %w", id, rules.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("registry: combatant %q: %w", id, rules.ErrLookupFailure)
	}
	e.mu.Lock()
	old := e.faction
	e.faction = f
	e.mu.Unlock()
	if old.ID == f.ID {
		return nil
	}
	r.byFaction[old.ID] = without(r.byFaction[old.ID], e)
	if len(r.byFaction[old.ID]) == 0 {
		delete(r.byFaction, old.ID)
	}
	r.byFaction[f.ID] = append(r.byFaction[f.ID], e)
	return nil
}

// FindByID returns the entry for id.
//
// Postcondition: Returns an error wrapping rules.ErrLookupFailure if absent.
func (r *Registry) FindByID(id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("registry: combatant %q: %w", id, rules.ErrLookupFailure)
	}
	return e, nil
}

// FindAllWithStance returns, in insertion order, every entry whose faction
// stands in stance toward the reference entry's faction. A faction is always
// friendly to itself, so a Friendly query includes the reference entry.
//
// Postcondition: An unknown referenceID returns an error wrapping
// rules.ErrLookupFailure, never an empty result.
func (r *Registry) FindAllWithStance(referenceID string, stance faction.Stance) ([]*Entry, error) {
	return r.findWithStance(referenceID, stance, true)
}

// FindOthersWithStance is FindAllWithStance without the reference entry, for
// callers choosing targets or allies other than the combatant itself.
func (r *Registry) FindOthersWithStance(referenceID string, stance faction.Stance) ([]*Entry, error) {
	return r.findWithStance(referenceID, stance, false)
}

func (r *Registry) findWithStance(referenceID string, stance faction.Stance, includeSelf bool) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.byID[referenceID]
	if !ok {
		return nil, fmt.Errorf("registry: reference combatant %q: %w", referenceID, rules.ErrLookupFailure)
	}
	refFaction := ref.Faction()
	var out []*Entry
	for _, e := range r.order {
		if e == ref && !includeSelf {
			continue
		}
		if r.relations.QueryStance(refFaction, e.Faction()) == stance {
			out = append(out, e)
		}
	}
	return out, nil
}

// Members returns the entries of the faction with the given ID in the order
// they joined it.
func (r *Registry) Members(factionID string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Entry(nil), r.byFaction[factionID]...)
}

// All returns every entry in insertion order.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Entry(nil), r.order...)
}

// Len returns the number of registered combatants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Position implements spatial.PositionProvider from each creature's position.
func (r *Registry) Position(id string) (spatial.BoardPosition, error) {
	e, err := r.FindByID(id)
	if err != nil {
		return spatial.BoardPosition{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.creature.Position, nil
}

// Update runs fn on the combatant's creature while holding that entry's
// mutex, so concurrent updates to one entry never interleave.
//
// Precondition: fn must not call back into the registry for the same entry.
// Postcondition: Returns rules.ErrLookupFailure for an unknown id, or fn's error.
func (r *Registry) Update(id string, fn func(c *creature.Creature) error) error {
	e, err := r.FindByID(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.creature); err != nil {
		return fmt.Errorf("registry: updating %q: %w", id, err)
	}
	return nil
}

// ApplyDamage subtracts amount from the combatant's hit points.
//
// Postcondition: Returns the remaining hit points (>= 0).
func (r *Registry) ApplyDamage(id string, amount int) (int, error) {
	var remaining int
	err := r.Update(id, func(c *creature.Creature) error {
		var err error
		remaining, err = c.ApplyDamage(amount)
		return err
	})
	return remaining, err
}

// Move places the combatant at pos.
func (r *Registry) Move(id string, pos spatial.BoardPosition) error {
	return r.Update(id, func(c *creature.Creature) error {
		c.Position = pos
		return nil
	})
}

func without(entries []*Entry, e *Entry) []*Entry {
	out := entries[:0:0]
	for _, x := range entries {
		if x != e {
			out = append(out, x)
		}
	}
	return out
}
