package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"knapsack/internal/bench"
	"knapsack/internal/dataset"
	"knapsack/internal/ga"
	"knapsack/internal/knapsack"
	"knapsack/internal/opt"
	"knapsack/internal/sa"
	"knapsack/internal/store"
)

// source selects the instance a solver command works on: a stored dataset
// when prefix is set, the toy instance for toySeed otherwise.
type source struct {
	dir     string
	prefix  string
	toySeed int64
	seed    int64
}

func (s *source) bind(fs *pflag.FlagSet) {
	fs.StringVar(&s.dir, "dir", ".", "directory holding the dataset files")
	fs.StringVar(&s.prefix, "prefix", "", "dataset prefix (<prefix>_c.txt, _w.txt, _p.txt, optional _s.txt)")
	fs.Int64Var(&s.toySeed, "toy-seed", 1, "seed of the generated toy instance used when --prefix is empty")
	fs.Int64Var(&s.seed, "seed", 0, "solver seed; 0 picks one from the clock")
}

func (s *source) load(offsetFraction float64) (*knapsack.Instance, string, error) {
	if s.prefix != "" {
		inst, err := dataset.Load(s.dir, s.prefix, offsetFraction)
		if err != nil {
			return nil, "", err
		}
		return inst, s.prefix, nil
	}
	c, err := bench.ToyCase(s.toySeed, offsetFraction)
	if err != nil {
		return nil, "", err
	}
	return c.Instance, c.Name, nil
}

func (s *source) solverSeed() int64 {
	if s.seed != 0 {
		return s.seed
	}
	return time.Now().UnixNano()
}

func newGACmd(a *app) *cobra.Command {
	var (
		src        source
		population int
		gens       int
		cxRate     float64
		mutRate    float64
		selection  string
		k          float64
		crossover  string
		slices     int
		mutation   string
		points     int
		every      int
	)

	cmd := &cobra.Command{
		Use:   "ga",
		Short: "Run the genetic algorithm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.GA
			fs := cmd.Flags()
			if fs.Changed("population") {
				cfg.Population = population
			}
			if fs.Changed("generations") {
				cfg.Generations = gens
			}
			if fs.Changed("crossover-rate") {
				cfg.CrossoverRate = cxRate
			}
			if fs.Changed("mutation-rate") {
				cfg.MutationRate = mutRate
			}
			if fs.Changed("selection") {
				cfg.Selection.Kind = ga.SelectionKind(selection)
			}
			if fs.Changed("tournament-k") {
				cfg.Selection.K = k
			}
			if fs.Changed("crossover") {
				cfg.Crossover.Kind = ga.CrossoverKind(crossover)
			}
			if fs.Changed("slices") {
				cfg.Crossover.N = slices
			}
			if fs.Changed("mutation") {
				cfg.Mutation.Kind = ga.MutationKind(mutation)
			}
			if fs.Changed("points") {
				cfg.Mutation.N = points
			}
			if fs.Changed("report-every") {
				cfg.ReportEvery = every
			}

			inst, name, err := src.load(a.cfg.OffsetFraction)
			if err != nil {
				return err
			}
			seed := src.solverSeed()
			solver, err := ga.New(cfg, rand.New(rand.NewSource(seed)),
				ga.WithReporter(a.reporters()),
				ga.WithLogger(a.logger.With("algorithm", "GA", "dataset", name, "seed", seed)),
			)
			if err != nil {
				return err
			}
			return a.solve(cmd, "GA", name, seed, inst, solver, knapsack.GAFloor, cfg)
		},
	}

	fs := cmd.Flags()
	src.bind(fs)
	fs.IntVar(&population, "population", 0, "pool size")
	fs.IntVar(&gens, "generations", 0, "number of generations")
	fs.Float64Var(&cxRate, "crossover-rate", 0, "crossover probability per parent pair")
	fs.Float64Var(&mutRate, "mutation-rate", 0, "mutation probability per child")
	fs.StringVar(&selection, "selection", "", "selection scheme: roulette or tournament")
	fs.Float64Var(&k, "tournament-k", 0, "probability of keeping the stronger tournament entrant")
	fs.StringVar(&crossover, "crossover", "", "crossover scheme: nslice or uniform")
	fs.IntVar(&slices, "slices", 0, "slice count for n-slice crossover")
	fs.StringVar(&mutation, "mutation", "", "mutation scheme: npoint or invert")
	fs.IntVar(&points, "points", 0, "flipped positions for n-point mutation")
	fs.IntVar(&every, "report-every", 0, "checkpoint interval in generations")
	return cmd
}

func newSACmd(a *app) *cobra.Command {
	var (
		src          source
		temp         float64
		threshold    float64
		iterations   int
		alpha        float64
		beta         float64
		perturbation string
		points       int
		foolish      bool
	)

	cmd := &cobra.Command{
		Use:   "sa",
		Short: "Run simulated annealing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.SA
			fs := cmd.Flags()
			if fs.Changed("temp") {
				cfg.InitialTemp = temp
			}
			if fs.Changed("threshold") {
				cfg.ThresholdFraction = threshold
			}
			if fs.Changed("iterations") {
				cfg.InitialIterations = iterations
			}
			if fs.Changed("alpha") {
				cfg.Alpha = alpha
			}
			if fs.Changed("beta") {
				cfg.Beta = beta
			}
			if fs.Changed("perturbation") {
				cfg.Perturbation.Kind = sa.PerturbationKind(perturbation)
			}
			if fs.Changed("points") {
				cfg.Perturbation.N = points
			}
			if fs.Changed("foolish") {
				cfg.Foolish = foolish
			}

			inst, name, err := src.load(a.cfg.OffsetFraction)
			if err != nil {
				return err
			}
			seed := src.solverSeed()
			solver, err := sa.New(cfg, rand.New(rand.NewSource(seed)),
				sa.WithReporter(a.reporters()),
				sa.WithLogger(a.logger.With("algorithm", "SA", "dataset", name, "seed", seed)),
			)
			if err != nil {
				return err
			}
			return a.solve(cmd, "SA", name, seed, inst, solver, knapsack.SAFloor, cfg)
		},
	}

	fs := cmd.Flags()
	src.bind(fs)
	fs.Float64Var(&temp, "temp", 0, "initial temperature")
	fs.Float64Var(&threshold, "threshold", 0, "stop once the temperature falls to this fraction of the initial one")
	fs.IntVar(&iterations, "iterations", 0, "perturbations at the first temperature level")
	fs.Float64Var(&alpha, "alpha", 0, "cooling factor applied per level")
	fs.Float64Var(&beta, "beta", 0, "growth factor of the iterations per level")
	fs.StringVar(&perturbation, "perturbation", "", "perturbation scheme: npoint or nslice")
	fs.IntVar(&points, "points", 0, "flipped positions or slice count of the perturbation")
	fs.BoolVar(&foolish, "foolish", false, "never accept a worse neighbour (greedy hill climbing)")
	return cmd
}

// persistent reports whether saved runs outlive this process.
func (a *app) persistent() bool {
	return a.cfg.Store.Backend != "" && a.cfg.Store.Backend != "memory"
}

// reporters returns the checkpoint sinks active for this invocation.
func (a *app) reporters() opt.Reporter {
	rs := opt.Reporters{consoleReporter{w: a.out}}
	if a.metrics != nil {
		rs = append(rs, a.metrics)
	}
	return rs
}

func (a *app) solve(
	cmd *cobra.Command,
	algo, name string,
	seed int64,
	inst *knapsack.Instance,
	solver opt.Optimizer,
	floor float64,
	cfg any,
) error {
	res, err := solver.Solve(cmd.Context(), inst)
	if err != nil {
		return err
	}

	eval, err := knapsack.NewEvaluator(inst, floor)
	if err != nil {
		return err
	}
	cmp, known := opt.Compare(res, inst, eval)
	printResult(a.out, algo, inst, res, cmp, known)

	snapshot, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode %s config: %w", algo, err)
	}
	run, err := a.store.SaveRun(cmd.Context(), store.Run{
		Algorithm:   algo,
		Dataset:     name,
		Seed:        seed,
		Fitness:     res.Fitness,
		Value:       res.Value,
		Size:        res.Size,
		Capacity:    inst.Capacity,
		Feasible:    res.Feasible,
		FoundAt:     res.FoundAt,
		Evaluations: res.Evaluations,
		Duration:    res.Duration,
		Solution:    res.Solution.String(),
		Config:      string(snapshot),
	})
	if err != nil {
		return err
	}
	if a.persistent() {
		fmt.Fprintf(a.out, "run id: %s\n", run.ID)
	} else {
		a.logger.Debug("run kept in memory only", "id", run.ID)
	}
	return nil
}
