package ga

import (
	"knapsack/internal/knapsack"
	"knapsack/internal/opt"
)

func ToOptResult(inst *knapsack.Instance, best knapsack.Evaluated, foundAt, evals, gens int, meta map[string]any) opt.Result {
	return opt.Result{
		Solution:    best.Bits.Clone(),
		Value:       inst.Value(best.Bits),
		Size:        best.Size,
		Fitness:     best.Fitness,
		Feasible:    best.Size <= inst.Capacity,
		FoundAt:     foundAt,
		Evaluations: evals,
		Iterations:  gens,
		Meta:        meta,
	}
}
