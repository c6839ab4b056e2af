package knapsack

import (
	"errors"
	"fmt"
)

// DefaultOffsetFraction is the share of the total item value charged as a flat
// penalty to every over-capacity candidate.
const DefaultOffsetFraction = 0.3

var (
	ErrNoItems     = errors.New("instance has no items")
	ErrTooFewItems = errors.New("instance needs at least 2 items")
)

type Item struct {
	Value int `json:"value" yaml:"value"`
	Size  int `json:"size" yaml:"size"`
}

// Instance is an immutable 0/1-knapsack definition. PenaltyRate and
// PenaltyOffset are derived once by NewInstance and never change afterwards.
type Instance struct {
	Capacity int
	Items    []Item

	PenaltyRate   float64
	PenaltyOffset float64

	// Optimal is the known optimal selection, nil when unknown.
	Optimal Candidate
}

func NewInstance(capacity int, items []Item, offsetFraction float64) (*Instance, error) {
	owned := make([]Item, len(items))
	copy(owned, items)

	inst := &Instance{Capacity: capacity, Items: owned}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if offsetFraction < 0 {
		return nil, fmt.Errorf("offset fraction must be >= 0 (got %f)", offsetFraction)
	}

	total := 0
	for _, it := range owned {
		total += it.Value
		// zero-size items never push a candidate over capacity
		if it.Size == 0 {
			continue
		}
		ratio := float64(it.Value) / float64(it.Size)
		if ratio > inst.PenaltyRate {
			inst.PenaltyRate = ratio
		}
	}
	inst.PenaltyOffset = float64(total) * offsetFraction
	return inst, nil
}

// WithOptimal returns a copy of inst that carries the known optimal selection.
func (inst *Instance) WithOptimal(opt Candidate) (*Instance, error) {
	if len(opt) != len(inst.Items) {
		return nil, fmt.Errorf("optimal selection length must be %d (got %d)", len(inst.Items), len(opt))
	}
	cp := *inst
	cp.Optimal = opt.Clone()
	return &cp, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Capacity < 0 {
		return fmt.Errorf("capacity must be >= 0 (got %d)", inst.Capacity)
	}
	if len(inst.Items) == 0 {
		return ErrNoItems
	}
	if len(inst.Items) < 2 {
		return fmt.Errorf("%w (got %d)", ErrTooFewItems, len(inst.Items))
	}
	for i, it := range inst.Items {
		if it.Value < 0 {
			return fmt.Errorf("items[%d].value must be >= 0 (got %d)", i, it.Value)
		}
		if it.Size < 0 {
			return fmt.Errorf("items[%d].size must be >= 0 (got %d)", i, it.Size)
		}
	}
	return nil
}

func (inst *Instance) NumItems() int { return len(inst.Items) }

func (inst *Instance) TotalValue() int {
	total := 0
	for _, it := range inst.Items {
		total += it.Value
	}
	return total
}

// Size sums the sizes of the selected items.
func (inst *Instance) Size(c Candidate) int {
	size := 0
	for i, on := range c {
		if on {
			size += inst.Items[i].Size
		}
	}
	return size
}

// Value sums the values of the selected items.
func (inst *Instance) Value(c Candidate) int {
	value := 0
	for i, on := range c {
		if on {
			value += inst.Items[i].Value
		}
	}
	return value
}

func (inst *Instance) Feasible(c Candidate) bool {
	return inst.Size(c) <= inst.Capacity
}
