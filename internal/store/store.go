package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run is the persisted outcome of one solver run. Only final results are
// stored; populations and intermediate solutions never are.
type Run struct {
	ID          string
	Algorithm   string
	Dataset     string
	Seed        int64
	Fitness     float64
	Value       int
	Size        int
	Capacity    int
	Feasible    bool
	FoundAt     int
	Evaluations int
	Duration    time.Duration
	Solution    string
	Config      string
	CreatedAt   time.Time
}

// Store persists run results.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) (Run, error)
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// stamp fills in the identifier and creation time of a new run.
func stamp(run Run) Run {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	return run
}
