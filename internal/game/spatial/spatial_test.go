package spatial_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
	"github.com/cory-johannsen/skirmish/internal/game/spatial"
)

func bp(x, y int) spatial.BoardPosition {
	return spatial.BoardPosition{X: spatial.Square(x), Y: spatial.Square(y)}
}

func TestBoardPosition_Distance_Chebyshev(t *testing.T) {
	assert.Equal(t, spatial.Square(2), bp(0, 0).Distance(bp(2, 1)))
	assert.Equal(t, spatial.Square(3), bp(0, 0).Distance(bp(0, 3)))
	assert.Equal(t, spatial.Square(4), bp(-2, 1).Distance(bp(2, -1)))
	assert.Equal(t, spatial.Square(0), bp(5, 5).Distance(bp(5, 5)))
}

func TestBoardPosition_Distance_Property_SymmetricAndDiagonalInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := bp(rapid.IntRange(-100, 100).Draw(rt, "ax"), rapid.IntRange(-100, 100).Draw(rt, "ay"))
		b := bp(rapid.IntRange(-100, 100).Draw(rt, "bx"), rapid.IntRange(-100, 100).Draw(rt, "by"))
		n := rapid.IntRange(0, 50).Draw(rt, "n")
		assert.Equal(rt, a.Distance(b), b.Distance(a))
		// n diagonal steps cost n squares, same as n orthogonal steps.
		assert.Equal(rt, spatial.Square(n), a.Distance(a.Add(bp(n, n))))
		assert.Equal(rt, spatial.Square(n), a.Distance(a.Add(bp(n, 0))))
	})
}

func TestBoardPosition_AddSub(t *testing.T) {
	assert.Equal(t, bp(3, 1), bp(1, 2).Add(bp(2, -1)))
	assert.Equal(t, bp(-1, 3), bp(1, 2).Sub(bp(2, -1)))
}

func TestCoordinate_Distance_Euclidean(t *testing.T) {
	a := spatial.Coordinate{X: 0, Y: 0}
	b := spatial.Coordinate{X: 30, Y: 40}
	assert.InDelta(t, 50.0, float64(a.Distance(b)), 1e-9)
	assert.InDelta(t, 50.0, float64(b.Distance(a)), 1e-9)
}

func TestCoordinate_AddSub(t *testing.T) {
	a := spatial.Coordinate{X: 2.5, Y: -5}
	b := spatial.Coordinate{X: 7.5, Y: 10}
	assert.Equal(t, spatial.Coordinate{X: 10, Y: 5}, a.Add(b))
	assert.Equal(t, spatial.Coordinate{X: -5, Y: -15}, a.Sub(b))
}

func TestConversions(t *testing.T) {
	assert.Equal(t, spatial.Coordinate{X: 10, Y: -15}, bp(2, -3).Coordinate())
	assert.Equal(t, bp(2, 0), spatial.Coordinate{X: 14.9, Y: 4.99}.BoardPosition())
	assert.Equal(t, bp(0, -1), spatial.Coordinate{X: -0.5, Y: -5.1}.BoardPosition())
	assert.Equal(t, spatial.Feet(20), spatial.Square(4).Feet())
	assert.Equal(t, spatial.Square(1), spatial.Feet(9.9).Squares())
}

func TestConversions_NegativeFloorsTowardOrigin(t *testing.T) {
	assert.Equal(t, spatial.Square(0), spatial.Feet(-3).Squares())
	assert.Equal(t, spatial.Square(-1), spatial.Feet(-9.9).Squares())
	assert.Equal(t, spatial.Square(-2), spatial.Feet(-10).Squares())
	assert.Equal(t, bp(0, -1), spatial.Coordinate{X: -3, Y: -7}.BoardPosition())
}

func TestConversions_Property_SymmetricAboutOrigin(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := spatial.Feet(rapid.Float64Range(0, 10000).Draw(rt, "feet"))
		assert.Equal(rt, -f.Squares(), (-f).Squares())
	})
}

func TestConversions_Property_GridRoundTripIsExact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := bp(rapid.IntRange(-1000, 1000).Draw(rt, "x"), rapid.IntRange(-1000, 1000).Draw(rt, "y"))
		assert.Equal(rt, p, p.Coordinate().BoardPosition())
	})
}

func TestMetricsDiffer_OnDiagonal(t *testing.T) {
	a, b := bp(0, 0), bp(3, 3)
	assert.Equal(t, spatial.Square(3), a.Distance(b))
	// The same two squares are ~21.2ft apart in world space, not 15ft.
	assert.Greater(t, float64(a.Coordinate().Distance(b.Coordinate())), float64(a.Distance(b).Feet()))
}

func TestPositions_LookupFailure(t *testing.T) {
	ps := spatial.NewPositions()
	_, err := ps.Position("ghost")
	assert.ErrorIs(t, err, rules.ErrLookupFailure)

	ps.Set("hero", bp(1, 2))
	p, err := ps.Position("hero")
	require.NoError(t, err)
	assert.Equal(t, bp(1, 2), p)

	c, err := spatial.CoordinateOf(ps, "hero")
	require.NoError(t, err)
	assert.Equal(t, spatial.Coordinate{X: 5, Y: 10}, c)

	ps.Remove("hero")
	_, err = spatial.CoordinateOf(ps, "hero")
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
}

func TestPositions_ConcurrentAccess(t *testing.T) {
	ps := spatial.NewPositions()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ps.Set("mover", bp(i, j))
				_, _ = ps.Position("mover")
			}
		}(i)
	}
	wg.Wait()
	_, err := ps.Position("mover")
	assert.NoError(t, err)
}
