package game

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/bellapacxx/squares-backend/models"
)

// Shuffler produces uniformly random permutations from a cryptographically
// secure source.
type Shuffler struct {
	rand io.Reader
}

// NewShuffler returns a Shuffler reading from r, or from crypto/rand when r
// is nil.
func NewShuffler(r io.Reader) *Shuffler {
	if r == nil {
		r = rand.Reader
	}
	return &Shuffler{rand: r}
}

// Shuffle returns a Fisher-Yates permutation of src. src is left untouched.
// rand.Int rejects out-of-range draws, so every index in [0, i] is equally
// likely.
func (s *Shuffler) Shuffle(src []int) ([]int, error) {
	out := make([]int, len(src))
	copy(out, src)

	for i := len(out) - 1; i > 0; i-- {
		n, err := rand.Int(s.rand, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("draw index for %d: %w", i, err)
		}
		j := int(n.Int64())
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Digits returns a fresh [0..9] sequence.
func Digits() []int {
	d := make([]int, models.GridSize)
	for i := range d {
		d[i] = i
	}
	return d
}

// NewGrid draws independent row and column permutations of 0..9.
func (s *Shuffler) NewGrid() (models.GridNumbers, error) {
	row, err := s.Shuffle(Digits())
	if err != nil {
		return models.GridNumbers{}, fmt.Errorf("shuffle rows: %w", err)
	}
	col, err := s.Shuffle(Digits())
	if err != nil {
		return models.GridNumbers{}, fmt.Errorf("shuffle cols: %w", err)
	}
	return models.GridNumbers{Row: row, Col: col}, nil
}
