package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knapsack/internal/knapsack"
)

func TestRouletteSelectFrequenciesMatchFitnessShare(t *testing.T) {
	fitness := []float64{1, 2, 3, 4}
	rng := rand.New(rand.NewSource(42))

	counts := make([]int, len(fitness))
	const rounds = 20000
	for r := 0; r < rounds; r++ {
		for _, idx := range rouletteSelect(fitness, rng) {
			counts[idx]++
		}
	}
	total := float64(rounds * len(fitness))
	for i, f := range fitness {
		assert.InDelta(t, f/10, float64(counts[i])/total, 0.01, "index %d", i)
	}
}

func TestRouletteSelectStaysInRange(t *testing.T) {
	fitness := []float64{0.1, 0.1, 0.1}
	rng := rand.New(rand.NewSource(1))
	for r := 0; r < 1000; r++ {
		for _, idx := range rouletteSelect(fitness, rng) {
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, len(fitness))
		}
	}
}

func TestTournamentSelectKeepsStrongerWithProbabilityK(t *testing.T) {
	// Index 1 wins when the entrants differ with probability k and is drawn
	// twice with probability 1/4, so P(1) = k/2 + 1/4.
	fitness := []float64{1, 2}
	const k = 0.75
	rng := rand.New(rand.NewSource(7))

	ones, total := 0, 0
	for r := 0; r < 20000; r++ {
		for _, idx := range tournamentSelect(fitness, k, rng) {
			if idx == 1 {
				ones++
			}
			total++
		}
	}
	assert.InDelta(t, k/2+0.25, float64(ones)/float64(total), 0.01)
}

func TestTournamentSelectEqualFitnessIsUniform(t *testing.T) {
	fitness := []float64{3, 3, 3, 3}
	rng := rand.New(rand.NewSource(11))
	counts := make([]int, len(fitness))
	const rounds = 10000
	for r := 0; r < rounds; r++ {
		for _, idx := range tournamentSelect(fitness, 0.8, rng) {
			counts[idx]++
		}
	}
	for i := range counts {
		assert.InDelta(t, 0.25, float64(counts[i])/float64(rounds*len(fitness)), 0.01)
	}
}

func complementaryParents(n int) []knapsack.Candidate {
	ones := make(knapsack.Candidate, n)
	for i := range ones {
		ones[i] = true
	}
	return []knapsack.Candidate{ones, make(knapsack.Candidate, n)}
}

func transitions(c knapsack.Candidate) int {
	n := 0
	for i := 1; i < len(c); i++ {
		if c[i] != c[i-1] {
			n++
		}
	}
	return n
}

func TestNSliceCrossoverChildrenAreComplementary(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pop := []knapsack.Candidate{
		knapsack.RandomCandidate(16, rng),
		knapsack.RandomCandidate(16, rng),
		knapsack.RandomCandidate(16, rng),
		knapsack.RandomCandidate(16, rng),
	}
	selected := []int{2, 0, 1, 3}

	for trial := 0; trial < 200; trial++ {
		children := nSliceCrossover(pop, selected, 3, 1.0, rng)
		require.Len(t, children, 4)
		for i := 0; i < 4; i += 2 {
			p1, p2 := pop[selected[i]], pop[selected[i+1]]
			c1, c2 := children[i], children[i+1]
			for j := range p1 {
				if p1[j] == p2[j] {
					assert.Equal(t, p1[j], c1[j])
					assert.Equal(t, p1[j], c2[j])
				} else {
					assert.NotEqual(t, c1[j], c2[j], "position %d", j)
				}
			}
		}
	}
}

func TestNSliceCrossoverSegmentCount(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pop := complementaryParents(10)
	selected := []int{0, 1}

	for _, n := range []int{1, 2, 4, 9, 20} {
		children := nSliceCrossover(pop, selected, n, 1.0, rng)
		want := n
		if want > 9 {
			want = 9
		}
		assert.Equal(t, want, transitions(children[0]), "n=%d", n)
		assert.Equal(t, want, transitions(children[1]), "n=%d", n)
		assert.True(t, children[0][0], "first segment comes from parent 1")
		assert.True(t, children[0].Inverted().Equal(children[1]))
	}
}

func TestCrossoverWithoutRateCopiesParents(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pop := make([]knapsack.Candidate, 5)
	for i := range pop {
		pop[i] = knapsack.RandomCandidate(12, rng)
	}
	selected := []int{4, 4, 1, 0, 2}

	for name, cross := range map[string]crossFunc{
		"uniform": uniformCrossover,
		"nslice": func(p []knapsack.Candidate, s []int, rate float64, r *rand.Rand) []knapsack.Candidate {
			return nSliceCrossover(p, s, 2, rate, r)
		},
	} {
		children := cross(pop, selected, 0.0, rng)
		for i, c := range children {
			assert.True(t, c.Equal(pop[selected[i]]), "%s slot %d", name, i)
		}
		children[3][0] = !children[3][0]
		assert.NotEqual(t, children[3][0], pop[selected[3]][0], "%s children must not alias parents", name)
	}
}

func TestUniformCrossoverChildrenAreComplementary(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	pop := complementaryParents(64)
	children := uniformCrossover(pop, []int{0, 1}, 1.0, rng)
	assert.True(t, children[0].Inverted().Equal(children[1]))
	assert.Greater(t, children[0].Count(), 0)
	assert.Less(t, children[0].Count(), 64)
}

func TestOddPoolPairsLastParentWithFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	pop := complementaryParents(8)
	pop = append(pop, pop[0].Clone())
	// slots 0,1 come from parents (1,0); slot 2 pairs parent 2 with parent
	// selected[0] and its second child overwrites slot 0.
	selected := []int{1, 0, 2}

	children := nSliceCrossover(pop, selected, 2, 1.0, rng)
	require.Len(t, children, 3)
	assert.True(t, children[2].Inverted().Equal(children[0]))
	assert.True(t, children[2][0], "slot 2 starts from its own parent (all ones)")
	assert.False(t, children[0][0])

	children = uniformCrossover(pop, selected, 1.0, rng)
	assert.True(t, children[2].Inverted().Equal(children[0]))
}

func TestNPointMutateSinglePointFlipsExactlyOne(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	for trial := 0; trial < 100; trial++ {
		orig := knapsack.RandomCandidate(20, rng)
		got := nPointMutate(orig.Clone(), 1, rng)
		assert.Equal(t, 1, diff(orig, got))
	}
}

func TestNPointMutateAllowsRepeatedPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	cancelled := 0
	for trial := 0; trial < 400; trial++ {
		orig := knapsack.RandomCandidate(4, rng)
		d := diff(orig, nPointMutate(orig.Clone(), 2, rng))
		require.Contains(t, []int{0, 2}, d)
		if d == 0 {
			cancelled++
		}
	}
	assert.Greater(t, cancelled, 0, "a position drawn twice cancels out")
}

func TestInvertMutateTwiceIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	orig := knapsack.RandomCandidate(33, rng)
	once := invertMutate(orig)
	assert.Equal(t, 33, diff(orig, once))
	assert.True(t, invertMutate(once).Equal(orig))
}

func TestTopTwo(t *testing.T) {
	cases := []struct {
		fitness      []float64
		best, second int
	}{
		{[]float64{1, 2}, 1, 0},
		{[]float64{2, 1}, 0, 1},
		{[]float64{5, 1, 3}, 0, 2},
		{[]float64{1, 3, 7, 7, 2}, 2, 3},
		{[]float64{4, 4, 4}, 0, 1},
	}
	for _, tc := range cases {
		best, second := topTwo(tc.fitness)
		assert.Equal(t, tc.best, best, "%v", tc.fitness)
		assert.Equal(t, tc.second, second, "%v", tc.fitness)
	}
}

func diff(a, b knapsack.Candidate) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
