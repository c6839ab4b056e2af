package ga

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"knapsack/internal/knapsack"
	"knapsack/internal/opt"
)

// Solver is a generational genetic algorithm with two-slot elitism.
type Solver struct {
	Cfg      Config
	Rng      *rand.Rand
	Reporter opt.Reporter
	Logger   *slog.Logger
}

type Option func(*Solver)

func WithReporter(r opt.Reporter) Option { return func(s *Solver) { s.Reporter = r } }

func WithLogger(l *slog.Logger) Option { return func(s *Solver) { s.Logger = l } }

// New validates cfg and returns a solver drawing every random decision from
// rng. Used by the factories.
func New(cfg Config, rng *rand.Rand, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is nil")
	}
	s := &Solver{Cfg: cfg, Rng: rng}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// population is owned by a single generation and replaced wholesale.
type population struct {
	bits    []knapsack.Candidate
	sizes   []int
	fitness []float64
}

func newPopulation(n int) population {
	return population{
		bits:    make([]knapsack.Candidate, n),
		sizes:   make([]int, n),
		fitness: make([]float64, n),
	}
}

func (p population) set(i int, e knapsack.Evaluated) {
	p.bits[i] = e.Bits
	p.sizes[i] = e.Size
	p.fitness[i] = e.Fitness
}

func (p population) at(i int) knapsack.Evaluated {
	return knapsack.Evaluated{Bits: p.bits[i], Size: p.sizes[i], Fitness: p.fitness[i]}
}

// state is the loop-owned run state threaded through every generation.
type state struct {
	pop         population
	best        knapsack.Evaluated
	foundAt     int
	evaluations int
}

// Solve runs Cfg.Generations generations and returns the fittest feasible
// member of the final population, falling back to the fittest overall.
// Result.FoundAt is the generation whose elite last raised the best-so-far
// fitness.
func (s *Solver) Solve(ctx context.Context, inst *knapsack.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("random source is nil")
	}

	eval, err := knapsack.NewEvaluator(inst, knapsack.GAFloor)
	if err != nil {
		return opt.Result{}, err
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reporter := s.Reporter
	if reporter == nil {
		reporter = opt.Discard
	}

	selectParents, crossover, mutate := operators(s.Cfg)
	poolSize := s.Cfg.Population
	numItems := inst.NumItems()
	every := s.Cfg.reportInterval()

	logger.Info("ga run started",
		"items", numItems,
		"capacity", inst.Capacity,
		"population", poolSize,
		"generations", s.Cfg.Generations,
		"selection", string(s.Cfg.Selection.Kind),
		"crossover", string(s.Cfg.Crossover.Kind),
		"mutation", string(s.Cfg.Mutation.Kind),
	)

	st := state{pop: newPopulation(poolSize)}
	for i := 0; i < poolSize; i++ {
		st.pop.set(i, eval.MustEvaluate(knapsack.RandomCandidate(numItems, s.Rng)))
	}
	st.evaluations = poolSize

	for gen := 0; gen < s.Cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			res := s.result(inst, st, gen)
			res.Meta["stopped"] = "context"
			res.Duration = time.Since(start)
			return res, err
		}

		if (gen+1)%every == 0 {
			s.report(reporter, logger, inst, st, gen+1)
		}

		st = s.step(st, eval, gen, selectParents, crossover, mutate)
	}

	res := s.result(inst, st, s.Cfg.Generations)
	res.Duration = time.Since(start)
	logger.Info("ga run finished",
		"fitness", res.Fitness,
		"value", res.Value,
		"size", res.Size,
		"found_at", res.FoundAt,
		"evaluations", res.Evaluations,
		"duration", res.Duration,
	)
	return res, nil
}

// step advances one generation: selection, crossover, mutation, elitism,
// then re-evaluation of the non-elite slots. The previous population is only
// read.
func (s *Solver) step(
	st state,
	eval *knapsack.Evaluator,
	gen int,
	selectParents selectFunc,
	crossover crossFunc,
	mutate mutateFunc,
) state {
	prev := st.pop
	poolSize := len(prev.bits)

	selected := selectParents(prev.fitness, s.Rng)
	children := crossover(prev.bits, selected, s.Cfg.CrossoverRate, s.Rng)

	for i := range children {
		if s.Rng.Float64() < s.Cfg.MutationRate {
			children[i] = mutate(children[i], s.Rng)
		}
	}

	best, second := topTwo(prev.fitness)
	if prev.fitness[best] > st.best.Fitness {
		st.best = prev.at(best).Clone()
		st.foundAt = gen + 1
	}

	next := newPopulation(poolSize)
	next.set(0, prev.at(best).Clone())
	next.set(1, prev.at(second).Clone())
	for i := 2; i < poolSize; i++ {
		next.set(i, eval.MustEvaluate(children[i]))
	}
	st.evaluations += poolSize - 2
	st.pop = next
	return st
}

func (s *Solver) report(r opt.Reporter, logger *slog.Logger, inst *knapsack.Instance, st state, gen int) {
	best, _ := topTwo(st.pop.fitness)
	p := opt.Progress{
		Algorithm:      "GA",
		Step:           gen,
		CurrentFitness: st.pop.fitness[best],
		BestFitness:    st.best.Fitness,
		BestSize:       st.best.Size,
		BestValue:      inst.Value(st.best.Bits),
		Capacity:       inst.Capacity,
		FoundAt:        st.foundAt,
	}
	logger.Debug("ga checkpoint", "generation", gen, "best_fitness", p.BestFitness, "current_fitness", p.CurrentFitness)
	r.Report(p)
}

func (s *Solver) result(inst *knapsack.Instance, st state, gens int) opt.Result {
	pick := fittestFeasible(st.pop, inst.Capacity)
	e := st.pop.at(pick)
	return ToOptResult(inst, e, st.foundAt, st.evaluations, gens, map[string]any{
		"population":        s.Cfg.Population,
		"generations":       s.Cfg.Generations,
		"selection":         string(s.Cfg.Selection.Kind),
		"crossover":         string(s.Cfg.Crossover.Kind),
		"mutation":          string(s.Cfg.Mutation.Kind),
		"best_fitness_seen": st.best.Fitness,
	})
}

// fittestFeasible returns the fittest in-capacity slot, or the fittest slot
// when nothing fits.
func fittestFeasible(pop population, capacity int) int {
	pick := -1
	for i := range pop.bits {
		if pop.sizes[i] > capacity {
			continue
		}
		if pick < 0 || pop.fitness[i] > pop.fitness[pick] {
			pick = i
		}
	}
	if pick >= 0 {
		return pick
	}
	best, _ := topTwo(pop.fitness)
	return best
}
