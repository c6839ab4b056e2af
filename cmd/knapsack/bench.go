package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"knapsack/internal/bench"
	"knapsack/internal/ga"
	"knapsack/internal/knapsack"
	"knapsack/internal/logging"
	"knapsack/internal/opt"
	"knapsack/internal/sa"
)

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ga.New(cfg, rand.New(rand.NewSource(seed)), ga.WithLogger(logging.Discard()))
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)), sa.WithLogger(logging.Discard()))
		return solver
	}
}

func newBenchCmd(a *app) *cobra.Command {
	var (
		algos        string
		runs         int
		baseSeed     int64
		perRunTO     time.Duration
		out          string
		toySeeds     []int64
		random       string
		instanceSeed int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Repeat each algorithm over several seeds and instances and write a CSV summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Bench
			fs := cmd.Flags()
			if fs.Changed("runs") {
				cfg.Runs = runs
			}
			if fs.Changed("seed") {
				cfg.BaseSeed = baseSeed
			}
			if fs.Changed("per-run-timeout") {
				cfg.Timeout = perRunTO
			}
			if fs.Changed("out") {
				cfg.Out = out
			}
			if fs.Changed("toy-seeds") {
				cfg.ToySeeds = toySeeds
			}
			if fs.Changed("random") {
				specs, err := parseRandomSpecs(random)
				if err != nil {
					return err
				}
				cfg.Random = specs
			}
			if cfg.Runs < 1 {
				return fmt.Errorf("runs must be >= 1 (got %d)", cfg.Runs)
			}

			if err := a.cfg.GA.Validate(); err != nil {
				return fmt.Errorf("ga config: %w", err)
			}
			if err := a.cfg.SA.Validate(); err != nil {
				return fmt.Errorf("sa config: %w", err)
			}
			available := map[string]bench.Algorithm{
				"GA": {Name: "GA", Factory: newGAFactory(a.cfg.GA)},
				"SA": {Name: "SA", Factory: newSAFactory(a.cfg.SA)},
			}
			var selected []bench.Algorithm
			for _, name := range splitCSV(algos) {
				al, ok := available[strings.ToUpper(name)]
				if !ok {
					return fmt.Errorf("unknown algorithm %q; available: %v", name, keys(available))
				}
				selected = append(selected, al)
			}

			cases, err := buildCases(cfg.ToySeeds, cfg.Random, instanceSeed, a.cfg.OffsetFraction)
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				return fmt.Errorf("no benchmark instances configured")
			}

			runner := bench.Runner{Runs: cfg.Runs, BaseSeed: cfg.BaseSeed, PerRunTimeout: cfg.Timeout}
			var records []bench.Record
			for _, c := range cases {
				for _, al := range selected {
					a.logger.Info("benchmark started", "algorithm", al.Name, "dataset", c.Name, "runs", runner.Runs)
					fmt.Fprintf(a.out, "Running %s on %s (%d items, capacity %d, runs=%d)...\n",
						al.Name, c.Name, c.Instance.NumItems(), c.Instance.Capacity, runner.Runs)

					rec, err := runner.RunCase(cmd.Context(), c, al)
					if err != nil {
						return err
					}
					records = append(records, rec)

					fmt.Fprintf(a.out, "  fitness: best=%.2f mean=%.2f std=%.2f | feasible %d/%d, optimum hit %d | time: mean=%.2fms std=%.2fms\n",
						rec.FitnessBest, rec.FitnessMean, rec.FitnessStd,
						rec.FeasibleRuns, rec.Runs, rec.OptimalHits,
						rec.TimeMeanMs, rec.TimeStdMs,
					)
				}
			}

			if err := bench.WriteCSV(cfg.Out, records); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			fmt.Fprintln(a.out, "Saved:", cfg.Out)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&algos, "algos", "GA,SA", "comma separated algorithms: GA, SA")
	fs.IntVar(&runs, "runs", 0, "runs per algorithm and instance, each with its own seed")
	fs.Int64Var(&baseSeed, "seed", 0, "seed of the first run; run i uses seed+i")
	fs.DurationVar(&perRunTO, "per-run-timeout", 0, "timeout of a single run; 0 disables it")
	fs.StringVar(&out, "out", "", "CSV output path")
	fs.Int64SliceVar(&toySeeds, "toy-seeds", nil, "seeds of the toy instances to benchmark")
	fs.StringVar(&random, "random", "", "random instances as ITEMSxMEANSIZE, comma separated (e.g. 200x30,500x40)")
	fs.Int64Var(&instanceSeed, "instance-seed", 777, "base seed of the random instances")
	return cmd
}

func buildCases(toySeeds []int64, specs []knapsack.RandomSpec, instanceSeed int64, offsetFraction float64) ([]bench.Case, error) {
	cases := make([]bench.Case, 0, len(toySeeds)+len(specs))
	for _, seed := range toySeeds {
		c, err := bench.ToyCase(seed, offsetFraction)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	for i, spec := range specs {
		seed := instanceSeed + int64(i)*10_000 + int64(spec.Items)*100 + int64(spec.MeanSize)
		c, err := bench.RandomCase(spec, seed, offsetFraction)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// parseRandomSpecs reads "ITEMSxMEANSIZE" pairs. Values average 50 with a
// spread of 20 and sizes spread by a third of their mean.
func parseRandomSpecs(s string) ([]knapsack.RandomSpec, error) {
	parts := splitCSV(s)
	specs := make([]knapsack.RandomSpec, 0, len(parts))
	for _, p := range parts {
		is := strings.Split(p, "x")
		if len(is) != 2 {
			return nil, fmt.Errorf("random instance %q is malformed, example: 200x30", p)
		}
		items, err := atoiStrict(is[0])
		if err != nil {
			return nil, fmt.Errorf("random instance %q: item count: %w", p, err)
		}
		meanSize, err := atoiStrict(is[1])
		if err != nil {
			return nil, fmt.Errorf("random instance %q: mean size: %w", p, err)
		}
		spec := knapsack.RandomSpec{
			Items:       items,
			MeanValue:   50,
			ValueSpread: 20,
			MeanSize:    meanSize,
			SizeSpread:  meanSize / 3,
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("random instance %q: %w", p, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
