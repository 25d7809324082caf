// Package main is the development harness for the skirmish rules engine. It
// loads content, spawns two creatures on a board and resolves a single attack.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/faction"
	"github.com/cory-johannsen/skirmish/internal/game/registry"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	attackerID := flag.String("attacker", "", "creature template ID of the attacker")
	defenderID := flag.String("defender", "", "creature template ID of the defender")
	attackerFaction := flag.String("attacker-faction", "", "faction ID of the attacker")
	defenderFaction := flag.String("defender-faction", "", "faction ID of the defender")
	weaponID := flag.String("weapon", "", "weapon ID; defaults to the attacker's first weapon")
	spellID := flag.String("spell", "", "attack spell ID; overrides -weapon")
	spellLevel := flag.Int("level", -1, "casting level for -spell; defaults to the spell's own level")
	distance := flag.Int("distance", 1, "squares between attacker and defender")
	modifierName := flag.String("modifier", "normal", "d20 roll modifier: normal, advantage, disadvantage")
	flag.Parse()

	if *attackerID == "" || *defenderID == "" {
		log.Fatal("usage: skirmish -attacker <template> -defender <template> [-weapon <id> | -spell <id> [-level n]]")
	}
	modifier, err := dice.ParseRollModifier(*modifierName)
	if err != nil {
		log.Fatalf("parsing modifier: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Content
	items, err := content.Load(cfg.Content.WeaponsDir, cfg.Content.SpellsDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	templates, err := loadTemplates(cfg.Content.CreaturesDir, observability.Component(logger, observability.ComponentContent))
	if err != nil {
		logger.Fatal("loading creature templates", zap.Error(err))
	}
	catalog, err := loadFactions(cfg.Content.FactionsDir)
	if err != nil {
		logger.Fatal("loading factions", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(items.WeaponIDs())),
		zap.Int("spells", len(items.SpellIDs())),
		zap.Int("templates", len(templates)),
		zap.Int("factions", len(catalog.Factions())),
	)

	// Board
	board := registry.NewRegistry(catalog.Relations)
	attacker := spawn(logger, board, templates, catalog, *attackerID, *attackerFaction, "attackers", spatial.BoardPosition{})
	defender := spawn(logger, board, templates, catalog, *defenderID, *defenderFaction, "defenders", spatial.BoardPosition{X: spatial.Square(*distance)})

	hostiles, err := board.FindOthersWithStance(attacker.ID(), faction.Hostile)
	if err != nil {
		logger.Fatal("querying hostiles", zap.Error(err))
	}
	logger.Info("board ready",
		zap.String("attacker", attacker.ID()),
		zap.String("defender", defender.ID()),
		zap.Int("hostile_to_attacker", len(hostiles)),
		zap.String("stance", catalog.Relations.QueryStance(attacker.Faction(), defender.Faction()).String()),
	)

	// Engine
	resolver, closeCrit, err := newResolver(cfg, logger)
	if err != nil {
		logger.Fatal("building resolver", zap.Error(err))
	}
	defer closeCrit()

	a, d := attacker.Snapshot(), defender.Snapshot()
	var outcome combat.Outcome
	if *spellID != "" {
		spell, err := items.Spell(*spellID)
		if err != nil {
			logger.Fatal("looking up spell", zap.Error(err))
		}
		level := *spellLevel
		if level < 0 {
			level = spell.Level.Number()
		}
		outcome, err = resolver.CastAttackSpell(a, d, spell, level, board, modifier)
		if err != nil {
			logger.Fatal("casting spell", zap.Error(err))
		}
	} else {
		id := *weaponID
		if id == "" {
			if len(a.Weapons) == 0 {
				logger.Fatal("attacker has no weapons", zap.String("template", a.TemplateID))
			}
			id = a.Weapons[0]
		}
		src, err := items.Weapon(id)
		if err != nil {
			logger.Fatal("looking up weapon", zap.Error(err))
		}
		outcome, err = resolver.ResolveAttack(a, d, src, board, modifier)
		if err != nil {
			logger.Fatal("resolving attack", zap.Error(err))
		}
	}

	remaining, err := board.ApplyDamage(defender.ID(), outcome.Damage)
	if err != nil {
		logger.Fatal("applying damage", zap.Error(err))
	}

	fmt.Println(outcome.String())
	fmt.Printf("%s has %d/%d HP\n", d.Name, remaining, d.MaxHP)
	logger.Info("skirmish complete", zap.Duration("elapsed", time.Since(start)))
}

// newResolver wires the dice source and critical-hit rule selected by cfg.
// The returned func releases the Lua state when a script is in use.
func newResolver(cfg config.Config, logger *zap.Logger) (*combat.Resolver, func(), error) {
	var src dice.Source
	switch cfg.Dice.Source {
	case config.DiceSourceSeeded:
		src = dice.NewSeededSource(cfg.Dice.Seed)
	default:
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, observability.Component(logger, observability.ComponentDice))

	threshold, err := combat.CritThreshold(cfg.Rules.CriticalThreshold)
	if err != nil {
		return nil, nil, err
	}
	closeCrit := func() {}
	crit := threshold
	if cfg.Rules.CriticalScript != "" {
		script, err := scripting.LoadCritPredicate(cfg.Rules.CriticalScript, cfg.Rules.ScriptInstructionLimit,
			threshold, observability.Component(logger, observability.ComponentScripting))
		if err != nil {
			return nil, nil, err
		}
		crit = script.Predicate()
		closeCrit = script.Close
	}

	resolver := combat.NewResolver(roller,
		combat.WithCritPredicate(crit),
		combat.WithLogger(observability.Component(logger, observability.ComponentCombat)),
	)
	return resolver, closeCrit, nil
}

func loadTemplates(dir string, logger *zap.Logger) (map[string]*creature.Template, error) {
	out := make(map[string]*creature.Template)
	if dir == "" {
		return out, nil
	}
	list, err := creature.LoadTemplates(dir, logger)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		out[t.ID] = t
	}
	return out, nil
}

func loadFactions(dir string) (*faction.Catalog, error) {
	if dir == "" {
		return faction.NewCatalog(), nil
	}
	return faction.LoadDirectory(dir)
}

// spawn places a creature from templateID on the board. When factionID is
// empty an ad-hoc faction named fallback is created; undeclared pairs are hostile.
func spawn(logger *zap.Logger, board *registry.Registry, templates map[string]*creature.Template,
	catalog *faction.Catalog, templateID, factionID, fallback string, pos spatial.BoardPosition) *registry.Entry {
	tmpl, ok := templates[templateID]
	if !ok {
		logger.Fatal("unknown creature template", zap.String("template", templateID))
	}
	f := faction.New(fallback)
	if factionID != "" {
		var err error
		if f, err = catalog.ByID(factionID); err != nil {
			logger.Fatal("looking up faction", zap.Error(err))
		}
	}
	c, err := tmpl.Spawn(pos)
	if err != nil {
		logger.Fatal("spawning creature", zap.Error(err))
	}
	entry, err := board.Add(f, c)
	if err != nil {
		logger.Fatal("placing creature", zap.Error(err))
	}
	return entry
}
