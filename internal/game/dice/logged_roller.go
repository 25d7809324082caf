package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, bonus, and total.
//
// A Roller is as concurrency-safe as its Source. The recommended use is one
// Roller per resolution goroutine.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced with a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice: NewLoggedRoller: precondition violated: src must be non-nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll rolls count dice of type die and adds bonus.
//
// Postcondition: count 0 returns bonus alone; a negative count returns an
// error wrapping rules.ErrValidation.
func (r *Roller) Roll(die Die, count, bonus int) (RollResult, error) {
	return r.RollExpression(Of(count, die, bonus))
}

// RollExpression evaluates expr and logs the result at debug level.
//
// Postcondition: result logged; returns RollResult or error.
func (r *Roller) RollExpression(expr Expression) (RollResult, error) {
	result, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.Stringer("expression", result.Expr),
		zap.Ints("dice", result.Dice),
		zap.Int("bonus", result.Expr.Bonus),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or a parse/roll error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.RollExpression(e)
}

// RollCheck rolls one check die under m and logs every face rolled.
func (r *Roller) RollCheck(d Die, m RollModifier) (CheckResult, error) {
	result, err := RollCheck(d, m, r.src)
	if err != nil {
		return CheckResult{}, err
	}
	r.logger.Debug("check roll",
		zap.Stringer("die", d),
		zap.Stringer("modifier", m),
		zap.Ints("faces", result.Faces),
		zap.Int("natural", result.Natural),
	)
	return result, nil
}
