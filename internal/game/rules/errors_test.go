package rules_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

func TestErrorKinds_AreDistinct(t *testing.T) {
	kinds := []error{rules.ErrValidation, rules.ErrRangeViolation, rules.ErrLookupFailure, rules.ErrHarnessMisuse}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestErrorKinds_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("combat: resolving attack: %w", fmt.Errorf("reach: 20ft beyond 5ft: %w", rules.ErrRangeViolation))
	assert.ErrorIs(t, err, rules.ErrRangeViolation)
	assert.NotErrorIs(t, err, rules.ErrValidation)
}
