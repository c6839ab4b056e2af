package ga

import "fmt"

type SelectionKind string

const (
	SelectionRoulette   SelectionKind = "roulette"
	SelectionTournament SelectionKind = "tournament"
)

// Selection picks the parent-selection scheme. K is the probability of
// keeping the stronger of two tournament entrants and is used only by
// SelectionTournament.
type Selection struct {
	Kind SelectionKind `yaml:"kind" json:"kind"`
	K    float64       `yaml:"k,omitempty" json:"k,omitempty"`
}

type CrossoverKind string

const (
	CrossoverNSlice  CrossoverKind = "nslice"
	CrossoverUniform CrossoverKind = "uniform"
)

// Crossover picks the recombination scheme. N is the slice count and is used
// only by CrossoverNSlice.
type Crossover struct {
	Kind CrossoverKind `yaml:"kind" json:"kind"`
	N    int           `yaml:"n,omitempty" json:"n,omitempty"`
}

type MutationKind string

const (
	MutationNPoint MutationKind = "npoint"
	MutationInvert MutationKind = "invert"
)

// Mutation picks the mutation scheme. N is the number of flipped positions
// and is used only by MutationNPoint.
type Mutation struct {
	Kind MutationKind `yaml:"kind" json:"kind"`
	N    int          `yaml:"n,omitempty" json:"n,omitempty"`
}

type Config struct {
	Population    int     `yaml:"population" json:"population"`
	Generations   int     `yaml:"generations" json:"generations"`
	CrossoverRate float64 `yaml:"crossover_rate" json:"crossover_rate"`
	MutationRate  float64 `yaml:"mutation_rate" json:"mutation_rate"`

	Selection Selection `yaml:"selection" json:"selection"`
	Crossover Crossover `yaml:"crossover" json:"crossover"`
	Mutation  Mutation  `yaml:"mutation" json:"mutation"`

	// ReportEvery is the checkpoint interval in generations; 0 means a tenth
	// of Generations.
	ReportEvery int `yaml:"report_every,omitempty" json:"report_every,omitempty"`
}

func (c Config) Validate() error {
	if c.Population <= 1 {
		return fmt.Errorf("population size must be > 1 (got %d)", c.Population)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("generation count must be > 0 (got %d)", c.Generations)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be in [0,1] (got %f)", c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0,1] (got %f)", c.MutationRate)
	}
	if c.ReportEvery < 0 {
		return fmt.Errorf("report interval must be >= 0 (got %d)", c.ReportEvery)
	}

	switch c.Selection.Kind {
	case SelectionRoulette:
	case SelectionTournament:
		if c.Selection.K <= 0 || c.Selection.K >= 1 {
			return fmt.Errorf("tournament k must be in (0,1) (got %f)", c.Selection.K)
		}
	default:
		return fmt.Errorf("unknown selection scheme %q", c.Selection.Kind)
	}

	switch c.Crossover.Kind {
	case CrossoverNSlice:
		if c.Crossover.N < 1 {
			return fmt.Errorf("slice count must be >= 1 (got %d)", c.Crossover.N)
		}
	case CrossoverUniform:
	default:
		return fmt.Errorf("unknown crossover scheme %q", c.Crossover.Kind)
	}

	switch c.Mutation.Kind {
	case MutationNPoint:
		if c.Mutation.N < 1 {
			return fmt.Errorf("mutation point count must be >= 1 (got %d)", c.Mutation.N)
		}
	case MutationInvert:
	default:
		return fmt.Errorf("unknown mutation scheme %q", c.Mutation.Kind)
	}
	return nil
}

func (c Config) reportInterval() int {
	if c.ReportEvery > 0 {
		return c.ReportEvery
	}
	if every := c.Generations / 10; every > 0 {
		return every
	}
	return 1
}

func DefaultConfig() Config {
	return Config{
		Population:    100,
		Generations:   1000,
		CrossoverRate: 0.90,
		MutationRate:  0.01,
		Selection:     Selection{Kind: SelectionRoulette},
		Crossover:     Crossover{Kind: CrossoverNSlice, N: 2},
		Mutation:      Mutation{Kind: MutationNPoint, N: 1},
	}
}
