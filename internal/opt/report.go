package opt

// Progress is a checkpoint snapshot handed to a Reporter.
type Progress struct {
	Algorithm string
	// Step is the 1-based generation (GA) or the temperature level (SA).
	Step          int
	Perturbations int
	Temperature   float64

	CurrentFitness float64
	BestFitness    float64
	BestSize       int
	BestValue      int
	Capacity       int
	FoundAt        int
}

type Reporter interface {
	Report(p Progress)
}

type ReporterFunc func(p Progress)

func (f ReporterFunc) Report(p Progress) { f(p) }

// Reporters fans a checkpoint out to every non-nil reporter.
type Reporters []Reporter

func (rs Reporters) Report(p Progress) {
	for _, r := range rs {
		if r != nil {
			r.Report(p)
		}
	}
}

// Discard drops every checkpoint.
var Discard Reporter = ReporterFunc(func(Progress) {})
