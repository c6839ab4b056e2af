package knapsack

import "fmt"

// Fitness floors. The GA floor stays above zero so roulette ratios are
// always defined; annealing only needs non-negative scores.
const (
	GAFloor = 0.1
	SAFloor = 0.0
)

// Evaluator maps a candidate to value minus the over-capacity penalty,
// clamped from below at floor.
type Evaluator struct {
	inst  *Instance
	floor float64
}

func NewEvaluator(inst *Instance, floor float64) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if floor < 0 {
		return nil, fmt.Errorf("fitness floor must be >= 0 (got %f)", floor)
	}
	return &Evaluator{inst: inst, floor: floor}, nil
}

func (e *Evaluator) Instance() *Instance { return e.inst }

func (e *Evaluator) Floor() float64 { return e.floor }

// Fitness scores bits given their already computed occupied size.
func (e *Evaluator) Fitness(bits Candidate, size int) float64 {
	value := float64(e.inst.Value(bits))
	if size <= e.inst.Capacity {
		return value
	}
	f := value - (e.inst.PenaltyRate*float64(size-e.inst.Capacity) + e.inst.PenaltyOffset)
	if f < e.floor {
		return e.floor
	}
	return f
}

// Evaluate computes size and fitness for bits. The returned value aliases bits.
func (e *Evaluator) Evaluate(bits Candidate) Evaluated {
	size := e.inst.Size(bits)
	return Evaluated{Bits: bits, Size: size, Fitness: e.Fitness(bits, size)}
}

func (e *Evaluator) MustEvaluate(bits Candidate) Evaluated {
	if len(bits) != len(e.inst.Items) {
		panic(fmt.Sprintf("candidate length must be %d (got %d)", len(e.inst.Items), len(bits)))
	}
	return e.Evaluate(bits)
}
