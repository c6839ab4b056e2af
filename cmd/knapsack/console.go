package main

import (
	"fmt"
	"io"

	"knapsack/internal/knapsack"
	"knapsack/internal/opt"
)

type consoleReporter struct {
	w io.Writer
}

func (c consoleReporter) Report(p opt.Progress) {
	switch p.Algorithm {
	case "SA":
		fmt.Fprintf(c.w, "[SA] level %d T=%.4f perturbations=%d current=%.2f best=%.2f (value %d, size %d/%d, found at %d)\n",
			p.Step, p.Temperature, p.Perturbations, p.CurrentFitness, p.BestFitness, p.BestValue, p.BestSize, p.Capacity, p.FoundAt)
	default:
		fmt.Fprintf(c.w, "[%s] generation %d fittest=%.2f best=%.2f (value %d, size %d/%d, found at %d)\n",
			p.Algorithm, p.Step, p.CurrentFitness, p.BestFitness, p.BestValue, p.BestSize, p.Capacity, p.FoundAt)
	}
}

func printResult(w io.Writer, algo string, inst *knapsack.Instance, res opt.Result, cmp opt.Comparison, known bool) {
	fmt.Fprintf(w, "%s result\n", algo)
	fmt.Fprintf(w, "  solution:    %s\n", res.Solution)
	fmt.Fprintf(w, "  items:       %d of %d\n", res.Solution.Count(), inst.NumItems())
	fmt.Fprintf(w, "  value:       %d\n", res.Value)
	fmt.Fprintf(w, "  size:        %d / %d\n", res.Size, inst.Capacity)
	fmt.Fprintf(w, "  fitness:     %.2f\n", res.Fitness)
	fmt.Fprintf(w, "  feasible:    %t\n", res.Feasible)
	fmt.Fprintf(w, "  found at:    %d\n", res.FoundAt)
	fmt.Fprintf(w, "  evaluations: %d\n", res.Evaluations)
	fmt.Fprintf(w, "  time:        %s\n", res.Duration)
	if !known {
		return
	}
	fmt.Fprintf(w, "  optimum:     value %d, size %d, fitness %.2f\n", cmp.OptimalValue, cmp.OptimalSize, cmp.OptimalFitness)
	fmt.Fprintf(w, "  of optimum:  %.2f%%", cmp.Percent)
	if cmp.Matched {
		fmt.Fprint(w, " (exact match)")
	}
	fmt.Fprintln(w)
}
