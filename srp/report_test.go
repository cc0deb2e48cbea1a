package srp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Approximate_ExampleSet(t *testing.T) {
	// GIVEN the example task set
	tasks := exampleTaskSet()

	// WHEN analysed in approximate mode
	results := Analyze(tasks, Approximate)

	// THEN one record per task, in declaration order
	require.Len(t, results, 3)
	want := []struct {
		id         string
		r, b, c, i uint64
	}{
		{"T1", 100, 0, 10, 90},
		{"T2", 90, 0, 30, 60},
		{"T3", 37, 7, 30, 0},
	}
	for k, w := range want {
		res := results[k]
		assert.Same(t, &tasks[k], res.Task)
		assert.Equal(t, w.id, res.Task.ID)
		require.NoError(t, res.Err, w.id)
		require.NoError(t, res.AnalysisErr, w.id)
		assert.Equal(t, w.r, res.ResponseTime, "R(%s)", w.id)
		assert.Equal(t, w.b, res.Blocking, "B(%s)", w.id)
		assert.Equal(t, w.c, res.WCET, "C(%s)", w.id)
		assert.Equal(t, w.i, res.Interference, "I(%s)", w.id)
		assert.True(t, res.Schedulable())
	}
}

func TestAnalyze_Exact_ReportsMissWithoutAbortingBatch(t *testing.T) {
	tasks := exampleTaskSet()
	results := Analyze(tasks, Exact)
	require.Len(t, results, 3)

	// T1 misses its deadline but still reports B, C and I
	assert.ErrorIs(t, results[0].Err, ErrDeadlineMissed)
	assert.False(t, results[0].Schedulable())
	assert.Equal(t, uint64(10), results[0].WCET)
	assert.Equal(t, uint64(90), results[0].Interference)

	assert.Equal(t, uint64(67), results[1].ResponseTime)
	assert.Equal(t, uint64(37), results[2].ResponseTime)
}

func TestAnalyze_BrokenTask_ReportedPerTask(t *testing.T) {
	// GIVEN a set where the lowest task has an inverted trace
	tasks := exampleTaskSet()
	tasks[0].Trace.Start, tasks[0].Trace.End = 10, 0

	// WHEN analysed
	results := Analyze(tasks, Approximate)

	// THEN only T1 fails; the higher tasks never read T1's WCET
	assert.ErrorIs(t, results[0].Err, ErrInvalidTrace)
	assert.ErrorIs(t, results[0].AnalysisErr, ErrInvalidTrace)
	require.NoError(t, results[1].Err)
	assert.Equal(t, uint64(90), results[1].ResponseTime)
	require.NoError(t, results[2].Err)
	assert.Equal(t, uint64(37), results[2].ResponseTime)
}

func TestAnalyze_EmptyTaskSet(t *testing.T) {
	assert.Empty(t, Analyze(nil, Exact))
}

func TestAnalyze_Idempotent(t *testing.T) {
	tasks := exampleTaskSet()
	first := Analyze(tasks, Exact)
	second := Analyze(tasks, Exact)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ResponseTime, second[i].ResponseTime)
		assert.Equal(t, first[i].Err, second[i].Err)
		assert.Equal(t, first[i].Blocking, second[i].Blocking)
		assert.Equal(t, first[i].Interference, second[i].Interference)
	}
}

func TestSummarize_NilInputs_ZeroValues(t *testing.T) {
	summary := Summarize(nil, nil)
	if summary.TotalTasks != 0 || summary.Schedulable != 0 || summary.DeadlineMisses != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.LoadErr != nil || summary.Overloaded {
		t.Errorf("expected no load error and not overloaded, got %+v", summary)
	}
	if summary.MaxResponseTask != "" {
		t.Errorf("expected no worst task, got %q", summary.MaxResponseTask)
	}
}

func TestSummarize_Exact_ExampleSet(t *testing.T) {
	tasks := exampleTaskSet()
	summary := Summarize(tasks, Analyze(tasks, Exact))

	assert.Equal(t, 3, summary.TotalTasks)
	assert.Equal(t, 2, summary.Schedulable)
	assert.Equal(t, 1, summary.DeadlineMisses)
	assert.Equal(t, 0, summary.Failures)
	assert.InDelta(t, 0.85, summary.LoadFactor, 1e-9)
	assert.False(t, summary.Overloaded)
	assert.Equal(t, uint64(67), summary.MaxResponseTime)
	assert.Equal(t, "T2", summary.MaxResponseTask)
}

func TestSummarize_OverloadedAndFailures(t *testing.T) {
	// GIVEN a set whose utilization exceeds 1 and a task with zero inter-arrival
	tasks := []Task{
		newTask("a", 1, 90, 100, 1000),
		newTask("b", 2, 50, 100, 1000),
	}
	summary := Summarize(tasks, Analyze(tasks, Approximate))
	assert.True(t, summary.Overloaded)
	assert.InDelta(t, 1.4, summary.LoadFactor, 1e-9)

	tasks = append(tasks, newTask("c", 3, 1, 0, 10))
	summary = Summarize(tasks, Analyze(tasks, Approximate))
	assert.True(t, errors.Is(summary.LoadErr, ErrZeroInterArrival))
	assert.False(t, summary.Overloaded)
	assert.Equal(t, 2, summary.Failures, "a and b see c's zero inter-arrival through interference")
	assert.Equal(t, 1, summary.Schedulable)
	assert.Equal(t, "c", summary.MaxResponseTask)
}
