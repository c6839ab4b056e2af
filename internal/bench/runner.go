package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"knapsack/internal/knapsack"
	"knapsack/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

type Case struct {
	Name     string
	Instance *knapsack.Instance
}

// ToyCase generates the toy instance for seed.
func ToyCase(seed int64, offsetFraction float64) (Case, error) {
	inst, err := knapsack.ToyInstance(rand.New(rand.NewSource(seed)), offsetFraction)
	if err != nil {
		return Case{}, err
	}
	return Case{Name: fmt.Sprintf("toy-%d", seed), Instance: inst}, nil
}

// RandomCase generates a random instance for spec and seed.
func RandomCase(spec knapsack.RandomSpec, seed int64, offsetFraction float64) (Case, error) {
	inst, err := knapsack.RandomInstance(spec, rand.New(rand.NewSource(seed)), offsetFraction)
	if err != nil {
		return Case{}, err
	}
	return Case{Name: fmt.Sprintf("random-%dx%d-%d", spec.Items, spec.MeanSize, seed), Instance: inst}, nil
}

type Record struct {
	Algo     string
	Dataset  string
	Items    int
	Capacity int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	FitnessBest float64
	FitnessMean float64
	FitnessStd  float64

	FeasibleRuns int
	OptimalHits  int
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.Instance
	if err := inst.Validate(); err != nil {
		return Record{}, fmt.Errorf("case %s: %w", c.Name, err)
	}

	fitness := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	feasible, hits := 0, 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if len(res.Solution) != inst.NumItems() {
			return Record{}, fmt.Errorf("run %d: invalid solution length %d (want %d)", i, len(res.Solution), inst.NumItems())
		}

		fitness = append(fitness, res.Fitness)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		if res.Feasible {
			feasible++
		}
		if len(inst.Optimal) > 0 && res.Solution.Equal(inst.Optimal) {
			hits++
		}
	}

	fStats := CalcStats(fitness)
	tStats := CalcStats(timesMs)

	return Record{
		Algo:     algo.Name,
		Dataset:  c.Name,
		Items:    inst.NumItems(),
		Capacity: inst.Capacity,
		Runs:     r.Runs,

		TimeBestMs: tStats.Min,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		FitnessBest: fStats.Max,
		FitnessMean: fStats.Mean,
		FitnessStd:  fStats.Std,

		FeasibleRuns: feasible,
		OptimalHits:  hits,
	}, nil
}

var csvHeader = []string{
	"algo", "dataset", "items", "capacity", "runs",
	"time_best_ms", "time_mean_ms", "time_std_ms",
	"fitness_best", "fitness_mean", "fitness_std",
	"feasible_runs", "optimal_hits",
}

func (r Record) row() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		r.Algo, r.Dataset,
		strconv.Itoa(r.Items), strconv.Itoa(r.Capacity), strconv.Itoa(r.Runs),
		f(r.TimeBestMs), f(r.TimeMeanMs), f(r.TimeStdMs),
		f(r.FitnessBest), f(r.FitnessMean), f(r.FitnessStd),
		strconv.Itoa(r.FeasibleRuns), strconv.Itoa(r.OptimalHits),
	}
}

// WriteCSV writes one row per record, creating the parent directory.
func WriteCSV(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r.row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
