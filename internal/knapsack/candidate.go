package knapsack

import (
	"fmt"
	"math/rand"
	"strings"
)

// Candidate is a bit vector with one inclusion flag per item.
type Candidate []bool

// RandomCandidate draws every bit with an independent fair coin.
func RandomCandidate(n int, rng *rand.Rand) Candidate {
	c := make(Candidate, n)
	for i := range c {
		c[i] = rng.Intn(2) == 1
	}
	return c
}

func (c Candidate) Clone() Candidate {
	out := make(Candidate, len(c))
	copy(out, c)
	return out
}

// Inverted returns a new candidate with every bit flipped.
func (c Candidate) Inverted() Candidate {
	out := make(Candidate, len(c))
	for i, on := range c {
		out[i] = !on
	}
	return out
}

func (c Candidate) Equal(other Candidate) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

func (c Candidate) Count() int {
	n := 0
	for _, on := range c {
		if on {
			n++
		}
	}
	return n
}

// String renders the candidate as a string of '0' and '1'.
func (c Candidate) String() string {
	var b strings.Builder
	b.Grow(len(c))
	for _, on := range c {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseCandidate is the inverse of Candidate.String.
func ParseCandidate(s string) (Candidate, error) {
	c := make(Candidate, len(s))
	for i, r := range s {
		switch r {
		case '0':
		case '1':
			c[i] = true
		default:
			return nil, fmt.Errorf("bit %d: unexpected character %q", i, r)
		}
	}
	return c, nil
}

// Evaluated caches the occupied size and fitness of a candidate. Both must be
// recomputed whenever Bits changes.
type Evaluated struct {
	Bits    Candidate
	Size    int
	Fitness float64
}

func (e Evaluated) Clone() Evaluated {
	return Evaluated{Bits: e.Bits.Clone(), Size: e.Size, Fitness: e.Fitness}
}
