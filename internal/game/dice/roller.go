package dice

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count when KeepHighest == 0, or
//
//	len(result.Dice) == expr.KeepHighest when KeepHighest > 0.
//	result.Total() == sum(result.Dice) + expr.Bonus.
//
// Returns an error wrapping rules.ErrValidation for an invalid expression, or
// rules.ErrHarnessMisuse when a FixedSource runs dry.
func Roll(expr Expression, src Source) (RollResult, error) {
	if err := expr.Validate(); err != nil {
		return RollResult{}, err
	}
	rolled := make([]int, expr.Count)
	for i := range rolled {
		v, err := face(src, expr.Die)
		if err != nil {
			return RollResult{}, fmt.Errorf("dice: rolling %s: %w", expr, err)
		}
		rolled[i] = v
	}

	kept := rolled
	if expr.KeepHighest > 0 {
		sorted := make([]int, len(rolled))
		copy(sorted, rolled)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		kept = sorted[:expr.KeepHighest]
	}

	return RollResult{Expr: expr, Dice: kept}, nil
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a RollResult or a parse/roll error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// RollCheck rolls a single die under m: once for Normal, twice keeping the
// higher face for Advantage, twice keeping the lower for Disadvantage.
//
// Precondition: src must be non-nil; d must be valid.
// Postcondition: Natural is one of Faces and lies in [1, d.Sides()].
func RollCheck(d Die, m RollModifier, src Source) (CheckResult, error) {
	if err := Of(1, d, 0).Validate(); err != nil {
		return CheckResult{}, err
	}
	if m != Normal && m != Advantage && m != Disadvantage {
		return CheckResult{}, fmt.Errorf("dice: unknown roll modifier %d: %w", int(m), rules.ErrValidation)
	}
	first, err := face(src, d)
	if err != nil {
		return CheckResult{}, fmt.Errorf("dice: rolling %s check: %w", d, err)
	}
	res := CheckResult{Die: d, Modifier: m, Faces: []int{first}, Natural: first}
	if m == Normal {
		return res, nil
	}

	second, err := face(src, d)
	if err != nil {
		return CheckResult{}, fmt.Errorf("dice: rolling %s check with %s: %w", d, m, err)
	}
	res.Faces = append(res.Faces, second)
	if m == Advantage {
		res.Natural = max(first, second)
	} else {
		res.Natural = min(first, second)
	}
	return res, nil
}
