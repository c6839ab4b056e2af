package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knapsack/internal/knapsack"
)

func fourItems(t *testing.T) *knapsack.Instance {
	t.Helper()
	items := []knapsack.Item{{Value: 10, Size: 5}, {Value: 10, Size: 5}, {Value: 10, Size: 5}, {Value: 10, Size: 5}}
	inst, err := knapsack.NewInstance(10, items, knapsack.DefaultOffsetFraction)
	require.NoError(t, err)
	return inst
}

func TestCompareAgainstKnownOptimum(t *testing.T) {
	inst := fourItems(t)
	inst, err := inst.WithOptimal(knapsack.Candidate{true, true, false, false})
	require.NoError(t, err)
	eval, err := knapsack.NewEvaluator(inst, knapsack.GAFloor)
	require.NoError(t, err)

	half := Result{Solution: knapsack.Candidate{true, false, false, false}, Fitness: 10}
	cmp, ok := Compare(half, inst, eval)
	require.True(t, ok)
	assert.Equal(t, 20.0, cmp.OptimalFitness)
	assert.Equal(t, 20, cmp.OptimalValue)
	assert.Equal(t, 10, cmp.OptimalSize)
	assert.InDelta(t, 50.0, cmp.Percent, 1e-12)
	assert.False(t, cmp.Matched)

	same := Result{Solution: knapsack.Candidate{true, true, false, false}, Fitness: 20}
	cmp, ok = Compare(same, inst, eval)
	require.True(t, ok)
	assert.True(t, cmp.Matched)
	assert.InDelta(t, 100.0, cmp.Percent, 1e-12)
}

func TestCompareWithoutOptimum(t *testing.T) {
	inst := fourItems(t)
	eval, err := knapsack.NewEvaluator(inst, knapsack.SAFloor)
	require.NoError(t, err)

	_, ok := Compare(Result{Solution: make(knapsack.Candidate, 4)}, inst, eval)
	assert.False(t, ok)
	_, ok = Compare(Result{}, nil, eval)
	assert.False(t, ok)
}

func TestReportersFanOutAndSkipNil(t *testing.T) {
	var a, b []int
	rs := Reporters{
		ReporterFunc(func(p Progress) { a = append(a, p.Step) }),
		nil,
		ReporterFunc(func(p Progress) { b = append(b, p.Step) }),
	}
	rs.Report(Progress{Step: 1})
	rs.Report(Progress{Step: 2})
	Discard.Report(Progress{Step: 3})

	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{1, 2}, b)
}
