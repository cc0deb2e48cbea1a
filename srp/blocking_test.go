package srp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockingTime_ExampleSet(t *testing.T) {
	tasks := exampleTaskSet()
	want := map[string]uint64{
		"T1": 0, // no lower-priority tasks
		"T2": 0, // T1 holds no resources
		"T3": 7, // R2 (4) and R3 (7) of T2 have ceiling 3; R1 (10, 6) has ceiling 2
	}
	for i := range tasks {
		got, err := BlockingTime(&tasks[i], tasks)
		require.NoError(t, err)
		if got != want[tasks[i].ID] {
			t.Errorf("BlockingTime(%s): got %d, want %d", tasks[i].ID, got, want[tasks[i].ID])
		}
	}
}

func TestBlockingTime_IsMaxNotSum(t *testing.T) {
	// GIVEN two lower-priority tasks each holding a resource shared with the top task
	tasks := []Task{
		{ID: "a", Prio: 1, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "a", End: 20, Inner: []Trace{{ID: "S", Start: 0, End: 5}}}},
		{ID: "b", Prio: 2, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "b", End: 20, Inner: []Trace{{ID: "S", Start: 2, End: 11}}}},
		{ID: "c", Prio: 3, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "c", End: 10, Inner: []Trace{{ID: "S", Start: 0, End: 1}}}},
	}

	// WHEN the top task's blocking is computed
	got, err := BlockingTime(&tasks[2], tasks)

	// THEN only the single longest critical section counts
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got)
}

func TestBlockingTime_HigherPriorityResourcesIgnored(t *testing.T) {
	tasks := []Task{
		{ID: "lo", Prio: 1, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "lo", End: 10, Inner: []Trace{{ID: "S", Start: 0, End: 3}}}},
		{ID: "hi", Prio: 5, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "hi", End: 50, Inner: []Trace{{ID: "S", Start: 0, End: 40}}}},
	}
	got, err := BlockingTime(&tasks[0], tasks)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got, "the lowest-priority task cannot be blocked")

	got, err = BlockingTime(&tasks[1], tasks)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)
}

func TestBlockingTime_InvalidCriticalSection_ReturnsError(t *testing.T) {
	tasks := []Task{
		{ID: "lo", Prio: 1, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "lo", End: 10, Inner: []Trace{{ID: "S", Start: 8, End: 3}}}},
		{ID: "hi", Prio: 2, InterArrival: 100, Deadline: 100,
			Trace: Trace{ID: "hi", End: 10, Inner: []Trace{{ID: "S", Start: 0, End: 1}}}},
	}
	_, err := BlockingTime(&tasks[1], tasks)
	if !errors.Is(err, ErrInvalidTrace) {
		t.Errorf("expected ErrInvalidTrace, got %v", err)
	}
}

func TestBlockingTime_Idempotent(t *testing.T) {
	tasks := exampleTaskSet()
	first, err1 := BlockingTime(&tasks[2], tasks)
	second, err2 := BlockingTime(&tasks[2], tasks)
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
	assert.Equal(t, exampleTaskSet(), tasks, "analysis must not mutate the task set")
}
