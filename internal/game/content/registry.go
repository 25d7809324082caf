package content

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Registry holds all loaded weapon and spell definitions indexed by ID.
// It is built once at startup and read-only afterwards.
type Registry struct {
	weapons map[string]combat.Source
	spells  map[string]combat.AttackSpell
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]combat.Source),
		spells:  make(map[string]combat.AttackSpell),
	}
}

// Load builds a Registry from the weapon and spell directories. An empty
// directory path skips that loader.
func Load(weaponsDir, spellsDir string) (*Registry, error) {
	r := NewRegistry()
	if weaponsDir != "" {
		weapons, err := LoadWeapons(weaponsDir)
		if err != nil {
			return nil, err
		}
		for _, w := range weapons {
			if err := r.RegisterWeapon(w); err != nil {
				return nil, err
			}
		}
	}
	if spellsDir != "" {
		spells, err := LoadSpells(spellsDir)
		if err != nil {
			return nil, err
		}
		for _, s := range spells {
			if err := r.RegisterSpell(s); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// RegisterWeapon adds w to the registry.
//
// Precondition: w must not be nil.
// Postcondition: Weapon(w.ID) returns w's source; returns an error wrapping
// rules.ErrValidation if w is invalid or w.ID is already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("content: weapon ID %q already registered: %w", w.ID, rules.ErrValidation)
	}
	src, err := w.Source()
	if err != nil {
		return err
	}
	r.weapons[w.ID] = src
	return nil
}

// RegisterSpell adds s to the registry.
//
// Precondition: s must not be nil.
// Postcondition: Spell(s.ID) returns s's spell; returns an error wrapping
// rules.ErrValidation if s is invalid or s.ID is already registered.
func (r *Registry) RegisterSpell(s *SpellDef) error {
	if _, exists := r.spells[s.ID]; exists {
		return fmt.Errorf("content: spell ID %q already registered: %w", s.ID, rules.ErrValidation)
	}
	spell, err := s.Spell()
	if err != nil {
		return err
	}
	r.spells[s.ID] = spell
	return nil
}

// Weapon returns the attack source for the weapon id.
//
// Postcondition: Returns an error wrapping rules.ErrLookupFailure if absent.
func (r *Registry) Weapon(id string) (combat.Source, error) {
	w, ok := r.weapons[id]
	if !ok {
		return nil, fmt.Errorf("content: no weapon %q: %w", id, rules.ErrLookupFailure)
	}
	return w, nil
}

// Spell returns the attack spell for id.
//
// Postcondition: Returns an error wrapping rules.ErrLookupFailure if absent.
func (r *Registry) Spell(id string) (combat.AttackSpell, error) {
	s, ok := r.spells[id]
	if !ok {
		return combat.AttackSpell{}, fmt.Errorf("content: no spell %q: %w", id, rules.ErrLookupFailure)
	}
	return s, nil
}

// WeaponIDs returns every registered weapon ID, sorted.
func (r *Registry) WeaponIDs() []string {
	return sortedKeys(r.weapons)
}

// SpellIDs returns every registered spell ID, sorted.
func (r *Registry) SpellIDs() []string {
	return sortedKeys(r.spells)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
