// Package spatial provides the two distinct spatial domains of the engine:
// the discrete combat grid measured in squares and continuous world space
// measured in feet.
//
// The grid uses Chebyshev distance (a diagonal step costs one square) and
// world space uses Euclidean distance. The two metrics are never mixed.
package spatial

import (
	"fmt"
	"math"
)

// FeetPerSquare is the side length of one grid square.
const FeetPerSquare = 5

// Square is a whole number of grid squares.
type Square int

// Feet converts s to world feet exactly.
func (s Square) Feet() Feet { return Feet(int(s) * FeetPerSquare) }

// Feet is a continuous world distance.
type Feet float64

// Squares converts f to grid squares, flooring toward the origin: -3ft is
// square 0, not -1.
func (f Feet) Squares() Square {
	return Square(math.Trunc(float64(f) / FeetPerSquare))
}

// String renders f as e.g. "12.5ft".
func (f Feet) String() string {
	return fmt.Sprintf("%gft", float64(f))
}

// BoardPosition is a square on the combat grid.
type BoardPosition struct {
	X, Y Square
}

// Add returns p + o component-wise.
func (p BoardPosition) Add(o BoardPosition) BoardPosition {
	return BoardPosition{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o component-wise.
func (p BoardPosition) Sub(o BoardPosition) BoardPosition {
	return BoardPosition{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance returns the Chebyshev distance max(|dx|, |dy|) between p and o.
//
// Postcondition: Distance is symmetric and >= 0.
func (p BoardPosition) Distance(o BoardPosition) Square {
	d := p.Sub(o)
	return max(absSquare(d.X), absSquare(d.Y))
}

// Coordinate converts p to world feet; the square's corner maps to the coordinate.
func (p BoardPosition) Coordinate() Coordinate {
	return Coordinate{X: p.X.Feet(), Y: p.Y.Feet()}
}

// String renders p as "(x,y)".
func (p BoardPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Coordinate is a point in world space.
type Coordinate struct {
	X, Y Feet
}

// Add returns c + o component-wise.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns c - o component-wise.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{X: c.X - o.X, Y: c.Y - o.Y}
}

// Distance returns the Euclidean distance between c and o.
//
// Postcondition: Distance is symmetric and >= 0.
func (c Coordinate) Distance(o Coordinate) Feet {
	d := c.Sub(o)
	return Feet(math.Hypot(float64(d.X), float64(d.Y)))
}

// BoardPosition converts c to the grid square containing it. The conversion
// is lossy: each component is divided by FeetPerSquare and floored toward
// the origin.
func (c Coordinate) BoardPosition() BoardPosition {
	return BoardPosition{X: c.X.Squares(), Y: c.Y.Squares()}
}

// String renders c as "(x ft, y ft)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g ft, %g ft)", float64(c.X), float64(c.Y))
}

func absSquare(s Square) Square {
	if s < 0 {
		return -s
	}
	return s
}
