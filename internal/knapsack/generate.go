package knapsack

import (
	"fmt"
	"math/rand"
)

const (
	toyOptimalItems = 20
	toyFillerItems  = 80
)

// ToyInstance builds a 100-item instance whose first 20 items are the known
// optimum: they are worth more, weigh less, and the capacity equals their
// combined size.
func ToyInstance(rng *rand.Rand, offsetFraction float64) (*Instance, error) {
	if rng == nil {
		panic("random source is nil")
	}
	n := toyOptimalItems + toyFillerItems
	items := make([]Item, n)
	for i := 0; i < toyOptimalItems; i++ {
		items[i].Value = rng.Intn(20) + 30
	}
	for i := toyOptimalItems; i < n; i++ {
		items[i].Value = rng.Intn(20) + 10
	}
	capacity := 0
	for i := 0; i < toyOptimalItems; i++ {
		items[i].Size = rng.Intn(10) + 20
		capacity += items[i].Size
	}
	for i := toyOptimalItems; i < n; i++ {
		items[i].Size = rng.Intn(10) + 30
	}

	inst, err := NewInstance(capacity, items, offsetFraction)
	if err != nil {
		return nil, err
	}
	optimal := make(Candidate, n)
	for i := 0; i < toyOptimalItems; i++ {
		optimal[i] = true
	}
	return inst.WithOptimal(optimal)
}

// RandomSpec parameterises RandomInstance. Values are drawn around
// MeanValue±ValueSpread and sizes around MeanSize±SizeSpread, with sizes
// positively correlated to values.
type RandomSpec struct {
	Items       int `yaml:"items" json:"items"`
	MeanValue   int `yaml:"mean_value" json:"mean_value"`
	ValueSpread int `yaml:"value_spread" json:"value_spread"`
	MeanSize    int `yaml:"mean_size" json:"mean_size"`
	SizeSpread  int `yaml:"size_spread" json:"size_spread"`
}

func (s RandomSpec) Validate() error {
	if s.Items < 2 {
		return fmt.Errorf("item count must be >= 2 (got %d)", s.Items)
	}
	if s.ValueSpread < 0 || s.MeanValue < s.ValueSpread {
		return fmt.Errorf("value spread must be in [0, mean value] (got %d±%d)", s.MeanValue, s.ValueSpread)
	}
	if s.SizeSpread < 0 || s.MeanSize < s.SizeSpread {
		return fmt.Errorf("size spread must be in [0, mean size] (got %d±%d)", s.MeanSize, s.SizeSpread)
	}
	return nil
}

// RandomInstance builds an instance whose capacity holds roughly 7 to 11
// average items.
func RandomInstance(spec RandomSpec, rng *rand.Rand, offsetFraction float64) (*Instance, error) {
	if rng == nil {
		panic("random source is nil")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	valueLow := float64(spec.MeanValue - spec.ValueSpread)
	valueRange := float64(2 * spec.ValueSpread)
	sizeLow := float64(spec.MeanSize - spec.SizeSpread)
	sizeRange := float64(2 * spec.SizeSpread)

	items := make([]Item, spec.Items)
	totalSize := 0
	for i := range items {
		p := rng.Float64()
		items[i].Value = int(p*valueRange + valueLow)
		p += 0.3 * rng.Float64()
		items[i].Size = int(p*sizeRange + sizeLow)
		totalSize += items[i].Size
	}
	capacity := totalSize * (10 + rng.Intn(5) - 3) / spec.Items
	return NewInstance(capacity, items, offsetFraction)
}
