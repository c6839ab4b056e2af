package knapsack

import (
	"math/rand"
	"sort"
)

// UniquePositions draws k distinct positions from [0, bound) and returns them
// sorted. A draw that collides walks forward (wrapping at bound) to the next
// free slot, so the call always terminates for k <= bound. Callers cap k.
func UniquePositions(rng *rand.Rand, k, bound int) []int {
	if k <= 0 || bound <= 0 {
		return nil
	}
	if k > bound {
		k = bound
	}
	taken := make([]bool, bound)
	out := make([]int, 0, k)
	for len(out) < k {
		guess := rng.Intn(bound)
		for taken[guess] {
			guess = (guess + 1) % bound
		}
		taken[guess] = true
		out = append(out, guess)
	}
	sort.Ints(out)
	return out
}

// SlicePoints returns min(n, numItems-1) sorted cut positions in
// [0, numItems-2]. Cut p separates bit p from bit p+1.
func SlicePoints(rng *rand.Rand, n, numItems int) []int {
	k := n
	if k > numItems-1 {
		k = numItems - 1
	}
	return UniquePositions(rng, k, numItems-1)
}
