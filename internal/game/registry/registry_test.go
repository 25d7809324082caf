package registry_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/faction"
	"github.com/cory-johannsen/skirmish/internal/game/registry"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

var (
	heroes  = faction.Faction{ID: "heroes", Name: "Heroes"}
	allies  = faction.Faction{ID: "allies", Name: "Allies"}
	bandits = faction.Faction{ID: "bandits", Name: "Bandits"}
	traders = faction.Faction{ID: "traders", Name: "Traders"}
)

func relations(t *testing.T) *faction.Relations {
	t.Helper()
	r := faction.NewRelations()
	require.NoError(t, r.Add(heroes, allies, faction.Friendly))
	require.NoError(t, r.Add(heroes, traders, faction.Neutral))
	return r
}

func mob(id string, hp int) *creature.Creature {
	return &creature.Creature{ID: id, Name: id, MaxHP: hp, CurrentHP: hp, Level: 1}
}

func ids(entries []*registry.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID()
	}
	return out
}

func populated(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry(relations(t))
	for _, add := range []struct {
		f  faction.Faction
		id string
	}{
		{heroes, "paladin"},
		{bandits, "cutthroat"},
		{allies, "squire"},
		{traders, "merchant"},
		{heroes, "ranger"},
		{bandits, "archer"},
	} {
		_, err := reg.Add(add.f, mob(add.id, 10))
		require.NoError(t, err)
	}
	return reg
}

func TestFindByID(t *testing.T) {
	reg := populated(t)
	e, err := reg.FindByID("squire")
	require.NoError(t, err)
	assert.Equal(t, "squire", e.ID())
	assert.Equal(t, allies, e.Faction())

	_, err = reg.FindByID("ghost")
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
}

func TestFindAllWithStance_InsertionOrder(t *testing.T) {
	reg := populated(t)

	hostile, err := reg.FindAllWithStance("paladin", faction.Hostile)
	require.NoError(t, err)
	assert.Equal(t, []string{"cutthroat", "archer"}, ids(hostile))

	friendly, err := reg.FindAllWithStance("paladin", faction.Friendly)
	require.NoError(t, err)
	assert.Equal(t, []string{"paladin", "squire", "ranger"}, ids(friendly), "self and own faction are friendly")

	neutral, err := reg.FindAllWithStance("paladin", faction.Neutral)
	require.NoError(t, err)
	assert.Equal(t, []string{"merchant"}, ids(neutral))

	// Unknown pairs default to hostile in both directions.
	fromBandit, err := reg.FindAllWithStance("cutthroat", faction.Hostile)
	require.NoError(t, err)
	assert.Equal(t, []string{"paladin", "squire", "merchant", "ranger"}, ids(fromBandit))
}

func TestFindOthersWithStance_ExcludesReference(t *testing.T) {
	reg := populated(t)

	friendly, err := reg.FindOthersWithStance("paladin", faction.Friendly)
	require.NoError(t, err)
	assert.Equal(t, []string{"squire", "ranger"}, ids(friendly))

	hostile, err := reg.FindOthersWithStance("paladin", faction.Hostile)
	require.NoError(t, err)
	all, err := reg.FindAllWithStance("paladin", faction.Hostile)
	require.NoError(t, err)
	assert.Equal(t, ids(all), ids(hostile), "self is never hostile")

	_, err = reg.FindOthersWithStance("ghost", faction.Friendly)
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
}

func TestFindAllWithStance_UnknownReference(t *testing.T) {
	reg := populated(t)
	got, err := reg.FindAllWithStance("ghost", faction.Hostile)
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
	assert.Nil(t, got)
}

func TestAdd_Validation(t *testing.T) {
	reg := populated(t)
	_, err := reg.Add(heroes, mob("paladin", 5))
	assert.ErrorIs(t, err, rules.ErrValidation)
	_, err = reg.Add(heroes, nil)
	assert.ErrorIs(t, err, rules.ErrValidation)
	_, err = reg.Add(heroes, mob("", 5))
	assert.ErrorIs(t, err, rules.ErrValidation)
	_, err = reg.Add(faction.Faction{}, mob("nobody", 5))
	assert.ErrorIs(t, err, rules.ErrValidation)
	assert.Equal(t, 6, reg.Len())
}

func TestRemove(t *testing.T) {
	reg := populated(t)
	require.NoError(t, reg.Remove("cutthroat"))
	assert.ErrorIs(t, reg.Remove("cutthroat"), rules.ErrLookupFailure)

	hostile, err := reg.FindAllWithStance("paladin", faction.Hostile)
	require.NoError(t, err)
	assert.Equal(t, []string{"archer"}, ids(hostile))
	assert.Equal(t, []string{"archer"}, ids(reg.Members("bandits")))
	assert.Equal(t, 5, reg.Len())
}

func TestReassign(t *testing.T) {
	reg := populated(t)
	require.NoError(t, reg.Reassign("merchant", bandits))

	hostile, err := reg.FindAllWithStance("paladin", faction.Hostile)
	require.NoError(t, err)
	assert.Equal(t, []string{"cutthroat", "merchant", "archer"}, ids(hostile), "keeps insertion position")
	assert.Empty(t, reg.Members("traders"))
	assert.Equal(t, []string{"cutthroat", "archer", "merchant"}, ids(reg.Members("bandits")))

	assert.ErrorIs(t, reg.Reassign("ghost", heroes), rules.ErrLookupFailure)
	assert.ErrorIs(t, reg.Reassign("merchant", faction.Faction{}), rules.ErrValidation)
	require.NoError(t, reg.Reassign("merchant", bandits))
	assert.Len(t, reg.Members("bandits"), 3)
}

func TestPosition_ProvidesBoardPositions(t *testing.T) {
	reg := populated(t)
	require.NoError(t, reg.Move("ranger", spatial.BoardPosition{X: 3, Y: -1}))
	p, err := reg.Position("ranger")
	require.NoError(t, err)
	assert.Equal(t, spatial.BoardPosition{X: 3, Y: -1}, p)

	_, err = spatial.CoordinateOf(reg, "ghost")
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
}

func TestUpdate_PropagatesErrors(t *testing.T) {
	reg := populated(t)
	boom := errors.New("boom")
	err := reg.Update("paladin", func(*creature.Creature) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, reg.Update("ghost", func(*creature.Creature) error { return nil }), rules.ErrLookupFailure)

	_, err = reg.ApplyDamage("paladin", -3)
	assert.ErrorIs(t, err, rules.ErrValidation)
}

func TestApplyDamage_ConcurrentHitsOnOneEntry(t *testing.T) {
	reg := registry.NewRegistry(faction.NewRelations())
	_, err := reg.Add(bandits, mob("ogre", 1000))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, err := reg.ApplyDamage("ogre", 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	e, err := reg.FindByID("ogre")
	require.NoError(t, err)
	assert.Equal(t, 500, e.Snapshot().CurrentHP)
}

func TestRegistry_ConcurrentReadsAndWrites(t *testing.T) {
	reg := populated(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := fmt.Sprintf("extra-%d-%d", i, j)
				_, err := reg.Add(bandits, mob(id, 1))
				assert.NoError(t, err)
				assert.NoError(t, reg.Remove(id))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := reg.FindAllWithStance("paladin", faction.Hostile)
				assert.NoError(t, err)
				_, err = reg.Position("ranger")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 6, reg.Len())
}

func TestSnapshot_IsACopy(t *testing.T) {
	reg := populated(t)
	e, err := reg.FindByID("paladin")
	require.NoError(t, err)
	snap := e.Snapshot()
	snap.CurrentHP = 0
	assert.Equal(t, 10, e.Snapshot().CurrentHP)
}

func TestFindAllWithStance_Property_OrderAndPartition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		factions := []faction.Faction{heroes, allies, bandits, traders}
		rel := faction.NewRelations()
		_ = rel.Add(heroes, allies, faction.Friendly)
		reg := registry.NewRegistry(rel)
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		var all []string
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("c%d", i)
			f := rapid.SampledFrom(factions).Draw(rt, "faction")
			_, err := reg.Add(f, mob(id, 1))
			require.NoError(rt, err)
			all = append(all, id)
		}
		ref := rapid.SampledFrom(all).Draw(rt, "ref")

		seen := map[string]bool{}
		for _, s := range []faction.Stance{faction.Friendly, faction.Neutral, faction.Hostile} {
			got, err := reg.FindAllWithStance(ref, s)
			require.NoError(rt, err)
			last := -1
			for _, e := range got {
				var idx int
				_, _ = fmt.Sscanf(e.ID(), "c%d", &idx)
				assert.Greater(rt, idx, last, "insertion order")
				last = idx
				assert.False(rt, seen[e.ID()], "stances partition the entries")
				seen[e.ID()] = true
			}
		}
		assert.Len(rt, seen, n)
		assert.True(rt, seen[ref], "the reference is friendly to itself")
	})
}
