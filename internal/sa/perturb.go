package sa

import (
	"math"
	"math/rand"

	"knapsack/internal/knapsack"
)

type perturbFunc func(c knapsack.Candidate, rng *rand.Rand) knapsack.Candidate

func perturber(p Perturbation) perturbFunc {
	n := p.N
	if p.Kind == PerturbNSlice {
		return func(c knapsack.Candidate, rng *rand.Rand) knapsack.Candidate { return perturbNSlice(c, n, rng) }
	}
	return func(c knapsack.Candidate, rng *rand.Rand) knapsack.Candidate { return perturbNPoint(c, n, rng) }
}

// perturbNPoint returns a neighbour with exactly min(n, len(c)) distinct bits
// flipped.
func perturbNPoint(c knapsack.Candidate, n int, rng *rand.Rand) knapsack.Candidate {
	out := c.Clone()
	for _, p := range knapsack.UniquePositions(rng, n, len(c)) {
		out[p] = !out[p]
	}
	return out
}

// perturbNSlice cuts the chromosome at min(n, len(c)-1) sorted positions and
// inverts every other segment. A coin decides whether the first segment is
// inverted or kept, so with cuts X the string 000X0000X000 becomes either
// 111X0000X111 or 000X1111X000.
func perturbNSlice(c knapsack.Candidate, n int, rng *rand.Rand) knapsack.Candidate {
	out := c.Clone()
	cuts := knapsack.SlicePoints(rng, n, len(c))

	inverting := rng.Intn(2) == 1
	start := 0
	for _, cut := range cuts {
		if inverting {
			for i := start; i <= cut; i++ {
				out[i] = !out[i]
			}
		}
		inverting = !inverting
		start = cut + 1
	}
	if inverting {
		for i := start; i < len(out); i++ {
			out[i] = !out[i]
		}
	}
	return out
}

// metropolisAccept reports whether a move from current to next fitness is
// taken. Improvements and ties always pass; worse moves pass with probability
// exp((next-current)/temp) unless foolish is set. No random number is drawn
// when the outcome is already decided.
func metropolisAccept(current, next, temp float64, foolish bool, rng *rand.Rand) bool {
	if next >= current {
		return true
	}
	if foolish {
		return false
	}
	return rng.Float64() < math.Exp((next-current)/temp)
}
