package sa

import "fmt"

// Perturbation scheme
type PerturbationKind string

const (
	PerturbNPoint PerturbationKind = "npoint"
	PerturbNSlice PerturbationKind = "nslice"
)

// Perturbation carries the scheme and its point/slice count.
type Perturbation struct {
	Kind PerturbationKind `yaml:"kind" json:"kind"`
	N    int              `yaml:"n" json:"n"`
}

type Config struct {
	InitialTemp float64 `yaml:"initial_temp" json:"initial_temp"`
	// ThresholdFraction of InitialTemp below which annealing stops.
	ThresholdFraction float64 `yaml:"threshold_fraction" json:"threshold_fraction"`
	InitialIterations int     `yaml:"initial_iterations" json:"initial_iterations"`
	Alpha             float64 `yaml:"alpha" json:"alpha"`
	Beta              float64 `yaml:"beta" json:"beta"`

	Perturbation Perturbation `yaml:"perturbation" json:"perturbation"`

	// Foolish turns the annealer into a greedy hill climber that never
	// accepts a worse neighbour.
	Foolish bool `yaml:"foolish" json:"foolish"`
}

func DefaultConfig() Config {
	return Config{
		InitialTemp:       50.0,
		ThresholdFraction: 0.02,
		InitialIterations: 1000,
		Alpha:             0.95,
		Beta:              1.05,
		Perturbation:      Perturbation{Kind: PerturbNPoint, N: 1},
	}
}

func (c Config) Threshold() float64 {
	return c.InitialTemp * c.ThresholdFraction
}

func (c Config) Validate() error {
	if c.InitialTemp <= 0 {
		return fmt.Errorf("InitialTemp must be > 0 (got %f)", c.InitialTemp)
	}
	if c.ThresholdFraction <= 0 || c.ThresholdFraction >= 1 {
		return fmt.Errorf("ThresholdFraction must lie in (0,1) (got %f)", c.ThresholdFraction)
	}
	if c.InitialIterations < 1 {
		return fmt.Errorf("InitialIterations must be >= 1 (got %d)", c.InitialIterations)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must lie in (0,1) (got %f)", c.Alpha)
	}
	if c.Beta <= 1 {
		return fmt.Errorf("beta must be > 1 (got %f)", c.Beta)
	}
	switch c.Perturbation.Kind {
	case PerturbNPoint, PerturbNSlice:
		// ok
	default:
		return fmt.Errorf("unknown perturbation scheme %q", c.Perturbation.Kind)
	}
	if c.Perturbation.N < 1 {
		return fmt.Errorf("perturbation n must be >= 1 (got %d)", c.Perturbation.N)
	}
	return nil
}
