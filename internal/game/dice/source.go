package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It is safe for
// concurrent use.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a reproducible PCG source. It is not safe for concurrent
// use; create one per goroutine.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a reproducible Source: two sources built from the
// same seed produce the same sequence.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// FixedSource replays pre-programmed faces per die type: the Nth roll of a
// die returns the Nth face queued for that die. It is a test harness and is
// not safe for concurrent use; give each test its own instance.
type FixedSource struct {
	faces map[Die][]int
	next  map[Die]int
}

// NewFixedSource builds a FixedSource from per-die face sequences.
//
// Postcondition: Returns an error wrapping rules.ErrValidation if any die is
// unsupported or any face is outside [1, sides].
func NewFixedSource(seq map[Die][]int) (*FixedSource, error) {
	f := &FixedSource{faces: make(map[Die][]int), next: make(map[Die]int)}
	for d, faces := range seq {
		if err := f.Queue(d, faces...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Queue appends faces to the sequence for d.
//
// Postcondition: Returns an error wrapping rules.ErrValidation if d is
// unsupported or any face is outside [1, sides]; nothing is queued then.
func (f *FixedSource) Queue(d Die, faces ...int) error {
	if !d.Valid() {
		return fmt.Errorf("dice: FixedSource.Queue: unsupported die %s: %w", d, rules.ErrValidation)
	}
	for _, v := range faces {
		if v < 1 || v > d.Sides() {
			return fmt.Errorf("dice: FixedSource.Queue: face %d out of range for %s: %w", v, d, rules.ErrValidation)
		}
	}
	f.faces[d] = append(f.faces[d], faces...)
	return nil
}

// Remaining returns how many programmed faces are left for d.
func (f *FixedSource) Remaining(d Die) int {
	return len(f.faces[d]) - f.next[d]
}

// Face returns the next programmed face for d.
//
// Postcondition: Returns an error wrapping rules.ErrHarnessMisuse when the
// sequence for d is exhausted.
func (f *FixedSource) Face(d Die) (int, error) {
	i := f.next[d]
	if i >= len(f.faces[d]) {
		return 0, fmt.Errorf("dice: no programmed %s faces left (used %d): %w", d, i, rules.ErrHarnessMisuse)
	}
	f.next[d] = i + 1
	return f.faces[d][i], nil
}

// Intn satisfies Source for callers that bypass Face. n is treated as the
// face count of the die being rolled.
//
// Precondition: a face sequence for a die with n sides has values left.
// Panics otherwise, since Intn cannot report the harness error.
func (f *FixedSource) Intn(n int) int {
	v, err := f.Face(Die(n))
	if err != nil {
		panic(err.Error())
	}
	return v - 1
}
