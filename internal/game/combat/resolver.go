package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/reach"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

// Resolver resolves attacks. It holds no mutable state of its own and is as
// safe for concurrent use as the dice source behind its roller; prefer one
// Resolver per goroutine with its own source.
type Resolver struct {
	roller *dice.Roller
	crit   CritPredicate
	logger *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCritPredicate replaces the default natural-maximum critical rule.
// A nil predicate is ignored.
func WithCritPredicate(p CritPredicate) Option {
	return func(r *Resolver) {
		if p != nil {
			r.crit = p
		}
	}
}

// WithLogger sets the resolver's logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver that rolls with roller.
//
// Precondition: roller must be non-nil.
func NewResolver(roller *dice.Roller, opts ...Option) *Resolver {
	if roller == nil {
		panic("combat: NewResolver: precondition violated: roller must be non-nil")
	}
	r := &Resolver{roller: roller, crit: CritOnMax, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveAttack resolves one attack by attacker against defender with src.
//
// Range is checked first: an unreachable defender, or a defender in long range
// without dice.Disadvantage, fails with rules.ErrRangeViolation. The d20 is
// rolled under modifier; a critical face always hits and doubles the damage
// dice but not the flat bonus. No hit points are changed.
//
// Precondition: attacker, defender and positions must be non-nil.
// Postcondition: On error the Outcome is zero. On a miss Damage == 0.
func (r *Resolver) ResolveAttack(attacker Attacker, defender Defender, src Source, positions spatial.PositionProvider, modifier dice.RollModifier) (Outcome, error) {
	checkParticipants(attacker, defender, positions)
	if err := ValidateSource(src); err != nil {
		return Outcome{}, r.fail(err, attacker, defender)
	}
	return r.resolve(attacker, defender, src, src.Profile(), positions, modifier)
}

// CastAttackSpell casts spell at requestedLevel, then resolves it as an attack
// using the caster's spellcasting ability. A leveled spell cast above its level
// gains its upcast dice.
//
// Precondition: caster, defender and positions must be non-nil.
// Postcondition: A casting level the spell cannot use fails with
// rules.ErrValidation before any range check or roll.
func (r *Resolver) CastAttackSpell(caster Caster, defender Defender, spell AttackSpell, requestedLevel int, positions spatial.PositionProvider, modifier dice.RollModifier) (Outcome, error) {
	checkParticipants(caster, defender, positions)
	if err := ValidateSource(spell); err != nil {
		return Outcome{}, r.fail(err, caster, defender)
	}
	if err := ValidateCastingLevel(spell, requestedLevel); err != nil {
		return Outcome{}, r.fail(err, caster, defender)
	}
	cast := spell.AtLevel(requestedLevel)
	return r.resolve(caster, defender, spell, cast.Profile(), positions, modifier)
}

func (r *Resolver) resolve(attacker Attacker, defender Defender, src Source, p Profile, positions spatial.PositionProvider, modifier dice.RollModifier) (Outcome, error) {
	attackAbility := p.Ability
	if p.Spellcasting {
		caster, ok := attacker.(Caster)
		if !ok {
			err := fmt.Errorf("combat: %s cannot cast %q: %w", attacker.CombatantID(), p.Name, rules.ErrValidation)
			return Outcome{}, r.fail(err, attacker, defender)
		}
		attackAbility = caster.SpellcastingAbility()
		if !attackAbility.Valid() {
			err := fmt.Errorf("combat: %s has unknown spellcasting ability %d: %w", attacker.CombatantID(), int(attackAbility), rules.ErrValidation)
			return Outcome{}, r.fail(err, attacker, defender)
		}
	}

	m, err := reach.Check(p.Range, positions, attacker.CombatantID(), defender.CombatantID())
	if err != nil {
		return Outcome{}, r.fail(fmt.Errorf("combat: %w", err), attacker, defender)
	}
	switch m.Band {
	case reach.BandNormal:
	case reach.BandLong:
		if modifier != dice.Disadvantage {
			err := fmt.Errorf("combat: %s at %s is in long range of %s and needs disadvantage: %w",
				defender.CombatantID(), m.Distance, p.Range, rules.ErrRangeViolation)
			return Outcome{}, r.fail(err, attacker, defender)
		}
	default:
		err := fmt.Errorf("combat: %s at %s is out of range of %s: %w",
			defender.CombatantID(), m.Distance, p.Range, rules.ErrRangeViolation)
		return Outcome{}, r.fail(err, attacker, defender)
	}

	check, err := r.roller.RollCheck(dice.D20, modifier)
	if err != nil {
		return Outcome{}, r.fail(fmt.Errorf("combat: attack roll: %w", err), attacker, defender)
	}

	abilityMod := attacker.AbilityModifier(attackAbility)
	prof := attacker.ProficiencyFor(src)
	ac := defender.ArmourClass()
	o := Outcome{
		AttackerID:  attacker.CombatantID(),
		DefenderID:  defender.CombatantID(),
		Source:      src,
		Modifier:    modifier,
		Distance:    m.Distance,
		Band:        m.Band,
		NaturalRoll: check.Natural,
		HitRoll:     check.Natural + int(abilityMod) + prof.Bonus(),
		ArmourClass: ac,
		Critical:    r.crit(check.Natural, dice.D20.Sides()),
	}
	o.Hit = o.Critical || o.HitRoll >= ac

	if o.Hit {
		expr := p.Damage
		if o.Critical {
			expr = expr.WithCount(expr.Count * 2)
		}
		roll, err := r.roller.RollExpression(expr)
		if err != nil {
			return Outcome{}, r.fail(fmt.Errorf("combat: damage roll: %w", err), attacker, defender)
		}
		o.DamageRoll = roll
		o.RawDamage = max(roll.Total()+int(abilityMod), 0)
		o.Damage, o.Effect, err = damage.Apply(p.DamageType, o.RawDamage, defender.DamageModifiers())
		if err != nil {
			return Outcome{}, r.fail(fmt.Errorf("combat: applying damage: %w", err), attacker, defender)
		}
	}

	r.logger.Debug("attack resolved",
		zap.String("attacker", o.AttackerID),
		zap.String("defender", o.DefenderID),
		zap.String("source", p.Name),
		zap.Stringer("ability", attackAbility),
		zap.Stringer("modifier", modifier),
		zap.Int("natural", o.NaturalRoll),
		zap.Int("total", o.HitRoll),
		zap.Int("ac", ac),
		zap.Bool("hit", o.Hit),
		zap.Bool("critical", o.Critical),
		zap.Int("damage", o.Damage),
		zap.Stringer("effect", o.Effect),
	)
	return o, nil
}

// fail logs err at info level and returns it unchanged.
func (r *Resolver) fail(err error, attacker Attacker, defender Defender) error {
	r.logger.Info("attack rejected",
		zap.String("attacker", attacker.CombatantID()),
		zap.String("defender", defender.CombatantID()),
		zap.Error(err),
	)
	return err
}

func checkParticipants(attacker Attacker, defender Defender, positions spatial.PositionProvider) {
	if attacker == nil || defender == nil || positions == nil {
		panic("combat: precondition violated: attacker, defender and positions must be non-nil")
	}
}

// Proficient is a helper for Attacker implementations that train by category
// or by source name.
func Proficient(trained map[string]bool, s Source, level int) ability.Proficiency {
	if s == nil {
		return ability.None
	}
	p := s.Profile()
	if !trained[p.Name] && (p.Category == "" || !trained[p.Category]) {
		return ability.None
	}
	prof, err := ability.ProficiencyFromLevel(level)
	if err != nil {
		return ability.None
	}
	return prof
}
