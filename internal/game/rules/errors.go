// Package rules defines the error kinds shared by every rules-engine package.
//
// Every failure the engine returns wraps exactly one of these sentinels, so
// callers classify failures with errors.Is and translate them for users.
package rules

import "errors"

var (
	// ErrValidation marks malformed caller input: a negative dice count, a level
	// below 1, a duplicate faction relationship, a spell level mismatch.
	ErrValidation = errors.New("validation error")

	// ErrRangeViolation marks an attack attempted beyond the source's reachable range.
	ErrRangeViolation = errors.New("range violation")

	// ErrLookupFailure marks a query for an unknown combatant or position identity.
	ErrLookupFailure = errors.New("lookup failure")

	// ErrHarnessMisuse marks a test harness that ran out of pre-programmed dice.
	// Production sources never return it.
	ErrHarnessMisuse = errors.New("test harness misuse")
)
