package creature

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
	"github.com/cory-johannsen/skirmish/internal/yamldir"
)

// Template defines a reusable creature archetype loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       int    `yaml:"level"`
	MaxHP       int    `yaml:"max_hp"`
	AC          int    `yaml:"ac"`
	// Abilities maps ability names or abbreviations to scores; missing
	// abilities are 10.
	Abilities map[string]int `yaml:"abilities"`
	// SpellcastingAbility defaults to intelligence.
	SpellcastingAbility string   `yaml:"spellcasting_ability"`
	Proficiencies       []string `yaml:"proficiencies"`
	Resistances         []string `yaml:"resistances"`
	Immunities          []string `yaml:"immunities"`
	Vulnerabilities     []string `yaml:"vulnerabilities"`
	Weapons             []string `yaml:"weapons"`
	Spells              []string `yaml:"spells"`
}

type compiled struct {
	stats     ability.StatBlock
	modifiers damage.Modifiers
	casting   ability.Ability
}

func (t *Template) compile() (compiled, error) {
	scores := make(map[ability.Ability]int, len(t.Abilities))
	for name, v := range t.Abilities {
		a, err := ability.ParseAbility(name)
		if err != nil {
			return compiled{}, err
		}
		scores[a] = v
	}
	stats, err := ability.NewStatBlock(scores)
	if err != nil {
		return compiled{}, err
	}

	casting := ability.Intelligence
	if t.SpellcastingAbility != "" {
		if casting, err = ability.ParseAbility(t.SpellcastingAbility); err != nil {
			return compiled{}, err
		}
	}

	var groups [3][]damage.Type
	for i, names := range [][]string{t.Resistances, t.Immunities, t.Vulnerabilities} {
		for _, n := range names {
			dt, err := damage.ParseType(n)
			if err != nil {
				return compiled{}, err
			}
			groups[i] = append(groups[i], dt)
		}
	}
	mods, err := damage.NewModifiers(groups[0], groups[1], groups[2])
	if err != nil {
		return compiled{}, err
	}
	return compiled{stats: stats, modifiers: mods, casting: casting}, nil
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxHP >= 1, AC >= 1 and every ability, score and damage type is known;
// otherwise the error wraps rules.ErrValidation.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("creature template: id must not be empty: %w", rules.ErrValidation)
	}
	if t.Name == "" {
		return fmt.Errorf("creature template %q: name must not be empty: %w", t.ID, rules.ErrValidation)
	}
	if t.Level < 1 {
		return fmt.Errorf("creature template %q: level must be >= 1: %w", t.ID, rules.ErrValidation)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("creature template %q: max_hp must be >= 1: %w", t.ID, rules.ErrValidation)
	}
	if t.AC < 1 {
		return fmt.Errorf("creature template %q: ac must be >= 1: %w", t.ID, rules.ErrValidation)
	}
	if _, err := t.compile(); err != nil {
		return fmt.Errorf("creature template %q: %w", t.ID, err)
	}
	return nil
}

// Spawn creates a live creature from t at pos with a fresh random ID.
//
// Postcondition: CurrentHP equals MaxHP. Returns an error wrapping
// rules.ErrValidation when t is invalid.
func (t *Template) Spawn(pos spatial.BoardPosition) (*Creature, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	c, _ := t.compile()
	profs := make(map[string]bool, len(t.Proficiencies))
	for _, p := range t.Proficiencies {
		profs[p] = true
	}
	return &Creature{
		ID:            uuid.NewString(),
		TemplateID:    t.ID,
		Name:          t.Name,
		Level:         t.Level,
		Stats:         c.stats,
		MaxHP:         t.MaxHP,
		CurrentHP:     t.MaxHP,
		AC:            t.AC,
		Modifiers:     c.modifiers,
		Position:      pos,
		Proficiencies: profs,
		SpellAbility:  c.casting,
		Weapons:       append([]string(nil), t.Weapons...),
		Spells:        append([]string(nil), t.Spells...),
	}, nil
}

// LoadTemplateFromBytes parses and validates a single template.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all .yaml/.yml files in dir. Damage types declared in
// more than one modifier set are logged at warn level.
//
// Precondition: dir must be a readable directory. A nil logger is replaced
// with a no-op logger.
// Postcondition: Returns all templates or an error on the first parse,
// validation or duplicate-ID failure.
func LoadTemplates(dir string, logger *zap.Logger) ([]*Template, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := make(map[string]string)
	var templates []*Template
	err := yamldir.Each(dir, func(path string, data []byte) error {
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		if prev, dup := seen[tmpl.ID]; dup {
			return fmt.Errorf("loading %q: template id %q already defined in %q: %w", path, tmpl.ID, prev, rules.ErrValidation)
		}
		seen[tmpl.ID] = path
		if c, err := tmpl.compile(); err == nil {
			if overlaps := c.modifiers.Overlaps(); len(overlaps) > 0 {
				names := make([]string, len(overlaps))
				for i, o := range overlaps {
					names[i] = string(o)
				}
				logger.Warn("damage type declared in several modifier sets",
					zap.String("template", tmpl.ID),
					zap.Strings("types", names),
				)
			}
		}
		templates = append(templates, tmpl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading creature templates from %q: %w", dir, err)
	}
	return templates, nil
}
