package opt

import (
	"context"
	"time"

	"knapsack/internal/knapsack"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *knapsack.Instance) (Result, error)
}

type Result struct {
	Solution knapsack.Candidate
	Value    int
	Size     int
	Fitness  float64
	Feasible bool

	// FoundAt is the generation (GA) or perturbation count (SA) at which the
	// incumbent was recorded.
	FoundAt int

	Evaluations int
	Iterations  int
	Duration    time.Duration
	Meta        map[string]any
}

// Comparison relates a result to the instance's known optimum.
type Comparison struct {
	OptimalFitness float64
	OptimalValue   int
	OptimalSize    int
	Percent        float64
	Matched        bool
}

// Compare scores res against inst.Optimal with eval. ok is false when the
// optimum is unknown.
func Compare(res Result, inst *knapsack.Instance, eval *knapsack.Evaluator) (Comparison, bool) {
	if inst == nil || len(inst.Optimal) == 0 {
		return Comparison{}, false
	}
	size := inst.Size(inst.Optimal)
	c := Comparison{
		OptimalFitness: eval.Fitness(inst.Optimal, size),
		OptimalValue:   inst.Value(inst.Optimal),
		OptimalSize:    size,
		Matched:        res.Solution.Equal(inst.Optimal),
	}
	if c.OptimalFitness > 0 {
		c.Percent = res.Fitness / c.OptimalFitness * 100
	}
	return c, true
}
