package bench

import "math"

// Stats summarises a sample. Std is the sample standard deviation (n-1).
type Stats struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

func CalcStats(values []float64) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	lo, hi := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}
	mean := sum / float64(s.N)

	variance := 0.0
	if s.N >= 2 {
		for _, v := range values {
			d := v - mean
			variance += d * d
		}
		variance /= float64(s.N - 1)
	}

	s.Min = lo
	s.Max = hi
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	return s
}
