package damage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

func mods(t testing.TB, res, imm, vul []damage.Type) damage.Modifiers {
	t.Helper()
	m, err := damage.NewModifiers(res, imm, vul)
	require.NoError(t, err)
	return m
}

func apply(t testing.TB, typ damage.Type, raw int, m damage.Modifiers) int {
	t.Helper()
	got, _, err := damage.Apply(typ, raw, m)
	require.NoError(t, err)
	return got
}

func TestApply_Resistance(t *testing.T) {
	m := mods(t, []damage.Type{damage.Fire}, nil, nil)
	assert.Equal(t, 5, apply(t, damage.Fire, 10, m))
	assert.Equal(t, 3, apply(t, damage.Fire, 7, m)) // floor, not round
	assert.Equal(t, 0, apply(t, damage.Fire, 1, m))
	assert.Equal(t, 7, apply(t, damage.Cold, 7, m))
}

func TestApply_Immunity(t *testing.T) {
	m := mods(t, nil, []damage.Type{damage.Poison}, nil)
	for _, raw := range []int{0, 1, 13, 999} {
		assert.Equal(t, 0, apply(t, damage.Poison, raw, m))
	}
}

func TestApply_Vulnerability(t *testing.T) {
	m := mods(t, nil, nil, []damage.Type{damage.Radiant})
	assert.Equal(t, 10, apply(t, damage.Radiant, 5, m))
}

func TestApply_Precedence(t *testing.T) {
	both := mods(t, []damage.Type{damage.Slashing}, nil, []damage.Type{damage.Slashing})
	got, effect, err := damage.Apply(damage.Slashing, 6, both)
	require.NoError(t, err)
	assert.Equal(t, 12, got, "vulnerability beats resistance")
	assert.Equal(t, damage.Vulnerable, effect)

	all := mods(t, []damage.Type{damage.Fire}, []damage.Type{damage.Fire}, []damage.Type{damage.Fire})
	got, effect, err = damage.Apply(damage.Fire, 6, all)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "immunity beats everything")
	assert.Equal(t, damage.Immune, effect)

	assert.Equal(t, []damage.Type{damage.Fire}, all.Overlaps())
	assert.Equal(t, []damage.Type{damage.Slashing}, both.Overlaps())
}

func TestApply_NegativeRawIsValidationError(t *testing.T) {
	_, _, err := damage.Apply(damage.Force, -1, damage.Modifiers{})
	assert.ErrorIs(t, err, rules.ErrValidation)
}

func TestApply_ZeroModifiersPassThrough(t *testing.T) {
	var none damage.Modifiers
	got, effect, err := damage.Apply(damage.Force, 9, none)
	require.NoError(t, err)
	assert.Equal(t, 9, got)
	assert.Equal(t, damage.Unmodified, effect)
	assert.Empty(t, none.Overlaps())
}

func TestApply_Property_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		typ := rapid.SampledFrom(damage.Types).Draw(rt, "type")
		raw := rapid.IntRange(0, 1000).Draw(rt, "raw")
		res := rapid.Bool().Draw(rt, "res")
		imm := rapid.Bool().Draw(rt, "imm")
		vul := rapid.Bool().Draw(rt, "vul")
		pick := func(b bool) []damage.Type {
			if b {
				return []damage.Type{typ}
			}
			return nil
		}
		m, err := damage.NewModifiers(pick(res), pick(imm), pick(vul))
		require.NoError(rt, err)
		got, _, err := damage.Apply(typ, raw, m)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, got, 0)
		assert.LessOrEqual(rt, got, 2*raw)
		if imm {
			assert.Equal(rt, 0, got)
		}
	})
}

func TestNewModifiers_UnknownType(t *testing.T) {
	_, err := damage.NewModifiers([]damage.Type{"sonic"}, nil, nil)
	assert.ErrorIs(t, err, rules.ErrValidation)
}

func TestParseType(t *testing.T) {
	got, err := damage.ParseType(" Fire ")
	require.NoError(t, err)
	assert.Equal(t, damage.Fire, got)
	_, err = damage.ParseType("sonic")
	assert.ErrorIs(t, err, rules.ErrValidation)
}
