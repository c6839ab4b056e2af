package sa

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"knapsack/internal/knapsack"
	"knapsack/internal/opt"
)

// Solver - simulated annealing (or, with Foolish set, greedy hill climbing)
// over single-solution neighbourhoods.
type Solver struct {
	Cfg      Config
	Rng      *rand.Rand
	Reporter opt.Reporter
	Logger   *slog.Logger
}

type Option func(*Solver)

func WithReporter(r opt.Reporter) Option { return func(s *Solver) { s.Reporter = r } }

func WithLogger(l *slog.Logger) Option { return func(s *Solver) { s.Logger = l } }

// New validates cfg and returns an annealer drawing every random decision
// from rng. Used by the factories.
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

// state is the loop-owned annealing state.
type state struct {
	current knapsack.Evaluated
	best    knapsack.Evaluated
	foundAt int

	temp          float64
	iterations    int
	perturbations int
	level         int
}

// Solve anneals until the temperature drops to Cfg.Threshold(). The result is
// the best in-capacity solution ever held as current; the empty selection
// when none was found.
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

	eval, err := knapsack.NewEvaluator(inst, knapsack.SAFloor)
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
	perturb := perturber(s.Cfg.Perturbation)
	threshold := s.Cfg.Threshold()
	n := inst.NumItems()

	logger.Info("sa run started",
		"items", n,
		"capacity", inst.Capacity,
		"initial_temp", s.Cfg.InitialTemp,
		"threshold", threshold,
		"perturbation", string(s.Cfg.Perturbation.Kind),
		"foolish", s.Cfg.Foolish,
	)

	st := state{
		current:    eval.MustEvaluate(knapsack.RandomCandidate(n, s.Rng)),
		best:       knapsack.Evaluated{Bits: make(knapsack.Candidate, n)},
		temp:       s.Cfg.InitialTemp,
		iterations: s.Cfg.InitialIterations,
	}

	for st.temp > threshold {
		if err := ctx.Err(); err != nil {
			res := s.result(inst, st)
			res.Meta["stopped"] = "context"
			res.Duration = time.Since(start)
			return res, err
		}

		for i := 0; i < st.iterations; i++ {
			neighbour := eval.MustEvaluate(perturb(st.current.Bits, s.Rng))
			st.perturbations++

			if metropolisAccept(st.current.Fitness, neighbour.Fitness, st.temp, s.Cfg.Foolish, s.Rng) {
				st.current = neighbour
			}

			if st.current.Fitness > st.best.Fitness && st.current.Size <= inst.Capacity {
				st.best = st.current.Clone()
				st.foundAt = st.perturbations
			}
		}

		st.temp *= s.Cfg.Alpha
		st.iterations = int(float64(st.iterations) * s.Cfg.Beta)
		st.level++
		s.report(reporter, logger, inst, st)
	}

	res := s.result(inst, st)
	res.Duration = time.Since(start)
	logger.Info("sa run finished",
		"fitness", res.Fitness,
		"value", res.Value,
		"size", res.Size,
		"found_at", res.FoundAt,
		"perturbations", st.perturbations,
		"duration", res.Duration,
	)
	return res, nil
}

func (s *Solver) report(r opt.Reporter, logger *slog.Logger, inst *knapsack.Instance, st state) {
	p := opt.Progress{
		Algorithm:      "SA",
		Step:           st.level,
		Perturbations:  st.perturbations,
		Temperature:    st.temp,
		CurrentFitness: st.current.Fitness,
		BestFitness:    st.best.Fitness,
		BestSize:       st.best.Size,
		BestValue:      inst.Value(st.best.Bits),
		Capacity:       inst.Capacity,
		FoundAt:        st.foundAt,
	}
	logger.Debug("sa checkpoint", "temperature", st.temp, "current_fitness", p.CurrentFitness, "best_fitness", p.BestFitness)
	r.Report(p)
}

func (s *Solver) result(inst *knapsack.Instance, st state) opt.Result {
	return opt.Result{
		Solution:    st.best.Bits.Clone(),
		Value:       inst.Value(st.best.Bits),
		Size:        st.best.Size,
		Fitness:     st.best.Fitness,
		Feasible:    st.best.Size <= inst.Capacity,
		FoundAt:     st.foundAt,
		Evaluations: st.perturbations + 1,
		Iterations:  st.perturbations,
		Meta: map[string]any{
			"initial_temp":    s.Cfg.InitialTemp,
			"final_temp":      st.temp,
			"alpha":           s.Cfg.Alpha,
			"beta":            s.Cfg.Beta,
			"levels":          st.level,
			"perturbation":    string(s.Cfg.Perturbation.Kind),
			"foolish":         s.Cfg.Foolish,
			"current_fitness": st.current.Fitness,
		},
	}
}
