package faction

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/yamldir"
)

// fileDef is the YAML layout of one faction file.
type fileDef struct {
	Factions []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"factions"`
	Relationships []struct {
		A      string `yaml:"a"`
		B      string `yaml:"b"`
		Stance string `yaml:"stance"`
	} `yaml:"relationships"`
}

// Catalog holds the factions and relations loaded from content.
type Catalog struct {
	factions  []Faction
	byID      map[string]Faction
	Relations *Relations
}

// NewCatalog returns an empty catalog whose relations declare nothing, so
// every pair of distinct factions is hostile.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]Faction), Relations: NewRelations()}
}

// Factions returns every faction in load order.
func (c *Catalog) Factions() []Faction {
	out := make([]Faction, len(c.factions))
	copy(out, c.factions)
	return out
}

// ByID returns the faction with the given ID.
//
// Postcondition: Returns an error wrapping rules.ErrLookupFailure when absent.
func (c *Catalog) ByID(id string) (Faction, error) {
	f, ok := c.byID[id]
	if !ok {
		return Faction{}, fmt.Errorf("faction: no faction %q: %w", id, rules.ErrLookupFailure)
	}
	return f, nil
}

// LoadDirectory reads every .yaml/.yml file in dir. Files are read in name
// order; all factions are registered before any relationship so a file may
// reference factions declared in another.
//
// Precondition: dir must be a readable directory.
// Postcondition: Missing or duplicate faction ids, relationships naming unknown
// factions, unknown stances and duplicate pairs return an error wrapping
// rules.ErrValidation.
func LoadDirectory(dir string) (*Catalog, error) {
	var (
		paths []string
		defs  []fileDef
	)
	err := yamldir.Each(dir, func(path string, data []byte) error {
		var def fileDef
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("parsing faction file %s: %w", path, err)
		}
		paths = append(paths, path)
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c := NewCatalog()
	for i, def := range defs {
		for _, fd := range def.Factions {
			// Relationships address factions by id; one without an id could
			// only ever be hostile to everything.
			if fd.ID == "" {
				return nil, fmt.Errorf("faction: %s: faction %q has no id: %w", paths[i], fd.Name, rules.ErrValidation)
			}
			f := Faction{ID: fd.ID, Name: fd.Name}
			if _, dup := c.byID[f.ID]; dup {
				return nil, fmt.Errorf("faction: %s: duplicate faction id %q: %w", paths[i], f.ID, rules.ErrValidation)
			}
			c.byID[f.ID] = f
			c.factions = append(c.factions, f)
		}
	}
	for i, def := range defs {
		for _, rd := range def.Relationships {
			a, okA := c.byID[rd.A]
			b, okB := c.byID[rd.B]
			if !okA || !okB {
				return nil, fmt.Errorf("faction: %s: relationship %q/%q names an unknown faction: %w", paths[i], rd.A, rd.B, rules.ErrValidation)
			}
			stance, err := ParseStance(rd.Stance)
			if err != nil {
				return nil, fmt.Errorf("faction: %s: %w", paths[i], err)
			}
			if err := c.Relations.Add(a, b, stance); err != nil {
				return nil, fmt.Errorf("faction: %s: %w", paths[i], err)
			}
		}
	}
	return c, nil
}
