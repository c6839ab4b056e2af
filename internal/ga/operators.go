package ga

import (
	"math/rand"

	"knapsack/internal/knapsack"
)

type (
	selectFunc func(fitness []float64, rng *rand.Rand) []int
	crossFunc  func(pop []knapsack.Candidate, selected []int, rate float64, rng *rand.Rand) []knapsack.Candidate
	mutateFunc func(c knapsack.Candidate, rng *rand.Rand) knapsack.Candidate
)

// operators resolves the configured schemes once per run.
func operators(cfg Config) (selectFunc, crossFunc, mutateFunc) {
	var sel selectFunc
	switch cfg.Selection.Kind {
	case SelectionTournament:
		k := cfg.Selection.K
		sel = func(f []float64, rng *rand.Rand) []int { return tournamentSelect(f, k, rng) }
	default:
		sel = rouletteSelect
	}

	var cross crossFunc
	switch cfg.Crossover.Kind {
	case CrossoverUniform:
		cross = uniformCrossover
	default:
		n := cfg.Crossover.N
		cross = func(pop []knapsack.Candidate, selected []int, rate float64, rng *rand.Rand) []knapsack.Candidate {
			return nSliceCrossover(pop, selected, n, rate, rng)
		}
	}

	var mut mutateFunc
	switch cfg.Mutation.Kind {
	case MutationInvert:
		mut = func(c knapsack.Candidate, _ *rand.Rand) knapsack.Candidate { return invertMutate(c) }
	default:
		n := cfg.Mutation.N
		mut = func(c knapsack.Candidate, rng *rand.Rand) knapsack.Candidate { return nPointMutate(c, n, rng) }
	}
	return sel, cross, mut
}

// rouletteSelect draws len(fitness) indices with replacement, each with
// probability proportional to its fitness. Fitness values must be positive.
func rouletteSelect(fitness []float64, rng *rand.Rand) []int {
	n := len(fitness)
	total := 0.0
	for _, f := range fitness {
		total += f
	}

	selected := make([]int, n)
	for i := range selected {
		spot := rng.Float64()
		j := 0
		for j < n && spot > 0 {
			spot -= fitness[j] / total
			j++
		}
		idx := j - 1
		// float drift can leave spot positive after the last slot; a zero
		// draw never enters the loop
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		selected[i] = idx
	}
	return selected
}

// tournamentSelect pits two independently drawn entrants against each other
// for every slot and keeps the stronger one with probability k.
func tournamentSelect(fitness []float64, k float64, rng *rand.Rand) []int {
	n := len(fitness)
	selected := make([]int, n)
	for i := range selected {
		a := rng.Intn(n)
		b := rng.Intn(n)

		stronger, weaker := a, b
		switch {
		case fitness[a] < fitness[b]:
			stronger, weaker = b, a
		case fitness[a] == fitness[b] && rng.Intn(2) == 0:
			stronger, weaker = b, a
		}

		if rng.Float64() < k {
			selected[i] = stronger
		} else {
			selected[i] = weaker
		}
	}
	return selected
}

// pairAt returns the parents and child slots for the pair starting at slot i.
// With an odd pool the last parent is paired with the first selected parent
// and its second child lands in slot 0, overwriting the first child written
// there.
func pairAt(i int, selected []int) (p1, p2, c1, c2 int) {
	if i < len(selected)-1 {
		return selected[i], selected[i+1], i, i + 1
	}
	return selected[i], selected[0], i, 0
}

// nSliceCrossover recombines consecutive selected parents by cutting both at
// the same n sorted positions and alternating the source parent per segment.
// Parents are read only; every child is a fresh slice.
func nSliceCrossover(pop []knapsack.Candidate, selected []int, n int, rate float64, rng *rand.Rand) []knapsack.Candidate {
	children := make([]knapsack.Candidate, len(selected))
	for i := 0; i < len(selected); i += 2 {
		p1, p2, c1, c2 := pairAt(i, selected)
		par1, par2 := pop[p1], pop[p2]

		if rng.Float64() < rate {
			cuts := knapsack.SlicePoints(rng, n, len(par1))
			children[c1], children[c2] = sliceCross(par1, par2, cuts)
		} else {
			children[c1] = par1.Clone()
			children[c2] = par2.Clone()
		}
	}
	return children
}

// sliceCross builds two complementary children. Bits up to and including the
// first cut come from par1 for the first child, then the source flips at every
// cut.
func sliceCross(par1, par2 knapsack.Candidate, cuts []int) (knapsack.Candidate, knapsack.Candidate) {
	n := len(par1)
	chi1 := make(knapsack.Candidate, n)
	chi2 := make(knapsack.Candidate, n)

	fromFirst := true
	j := 0
	copySegment := func(end int) {
		for ; j < end; j++ {
			if fromFirst {
				chi1[j], chi2[j] = par1[j], par2[j]
			} else {
				chi1[j], chi2[j] = par2[j], par1[j]
			}
		}
	}
	for _, cut := range cuts {
		copySegment(cut + 1)
		fromFirst = !fromFirst
	}
	copySegment(n)
	return chi1, chi2
}

// uniformCrossover decides the source parent of every bit with a fair coin.
func uniformCrossover(pop []knapsack.Candidate, selected []int, rate float64, rng *rand.Rand) []knapsack.Candidate {
	children := make([]knapsack.Candidate, len(selected))
	for i := 0; i < len(selected); i += 2 {
		p1, p2, c1, c2 := pairAt(i, selected)
		par1, par2 := pop[p1], pop[p2]

		if rng.Float64() >= rate {
			children[c1] = par1.Clone()
			children[c2] = par2.Clone()
			continue
		}

		chi1 := make(knapsack.Candidate, len(par1))
		chi2 := make(knapsack.Candidate, len(par1))
		for j := range par1 {
			if rng.Intn(2) == 1 {
				chi1[j], chi2[j] = par1[j], par2[j]
			} else {
				chi1[j], chi2[j] = par2[j], par1[j]
			}
		}
		children[c1], children[c2] = chi1, chi2
	}
	return children
}

// nPointMutate flips n independently drawn positions in place. A position
// drawn twice is flipped back.
func nPointMutate(c knapsack.Candidate, n int, rng *rand.Rand) knapsack.Candidate {
	for i := 0; i < n; i++ {
		spot := rng.Intn(len(c))
		c[spot] = !c[spot]
	}
	return c
}

func invertMutate(c knapsack.Candidate) knapsack.Candidate {
	return c.Inverted()
}

// topTwo returns the indices of the highest and second highest fitness.
// Ties keep the earlier index. len(fitness) must be at least 2.
func topTwo(fitness []float64) (best, second int) {
	best, second = 0, 1
	for i := 1; i < len(fitness); i++ {
		if fitness[i] > fitness[best] {
			second = best
			best = i
		} else if fitness[i] > fitness[second] {
			second = i
		}
	}
	return best, second
}
