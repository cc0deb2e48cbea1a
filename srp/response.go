package srp

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// PreemptionMode selects how ResponseTime accounts for higher-priority tasks.
type PreemptionMode string

const (
	// Approximate computes R(t) = B(t) + C(t) + I(t) once, without a deadline check.
	Approximate PreemptionMode = "approximate"
	// Exact adds the full response time of every higher-priority task to B(t) + C(t)
	// and checks the total against the deadline.
	Exact PreemptionMode = "exact"
)

// validPreemptionModes maps accepted mode strings, including short aliases.
var validPreemptionModes = map[string]PreemptionMode{
	"approximate": Approximate,
	"approx":      Approximate,
	"exact":       Exact,
}

// ParsePreemptionMode returns the mode named by s (case-insensitive).
func ParsePreemptionMode(s string) (PreemptionMode, error) {
	mode, ok := validPreemptionModes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown preemption mode %q; valid: exact, approximate", s)
	}
	return mode, nil
}

func (m PreemptionMode) String() string {
	return string(m)
}

// ResponseTime returns R(t) for task under the given mode.
//
// Approximate: R(t) = B(t) + C(t) + I(t), failing with ErrOverflow if the sum wraps.
//
// Exact: R(t) = B(t) + C(t) + sum(R(h)) for all h where P(h) > P(t), failing with a
// *DeadlineMissedError when R(t) exceeds the deadline. A failure of any higher-priority
// task is returned unchanged.
func ResponseTime(task *Task, tasks []Task, mode PreemptionMode) (uint64, error) {
	switch mode {
	case Approximate:
		b, err := BlockingTime(task, tasks)
		if err != nil {
			return 0, err
		}
		c, err := task.WCET()
		if err != nil {
			return 0, err
		}
		i, err := Interference(task, tasks)
		if err != nil {
			return 0, err
		}
		r, ok := addTime(b, c)
		if ok {
			r, ok = addTime(r, i)
		}
		if !ok {
			return 0, overflow("response time", task)
		}
		return r, nil
	case Exact:
		return exactResponseTime(task, tasks)
	default:
		return 0, fmt.Errorf("unknown preemption mode %q", string(mode))
	}
}

type exactOutcome struct {
	r   uint64
	err error
}

// exactResponseTime evaluates the Exact recurrence bottom-up. Every task above task is
// solved once, highest priority first, so each one only reads outcomes already in memo.
func exactResponseTime(task *Task, tasks []Task) (uint64, error) {
	var higher []int
	for i := range tasks {
		if tasks[i].Prio > task.Prio {
			higher = append(higher, i)
		}
	}
	slices.SortStableFunc(higher, func(a, b int) int {
		return cmp.Compare(tasks[b].Prio, tasks[a].Prio)
	})

	memo := make(map[int]exactOutcome, len(higher))
	for _, idx := range higher {
		r, err := exactStep(&tasks[idx], tasks, memo)
		memo[idx] = exactOutcome{r: r, err: err}
	}
	return exactStep(task, tasks, memo)
}

func exactStep(task *Task, tasks []Task, memo map[int]exactOutcome) (uint64, error) {
	b, err := BlockingTime(task, tasks)
	if err != nil {
		return 0, err
	}
	c, err := task.WCET()
	if err != nil {
		return 0, err
	}
	total, ok := addTime(b, c)
	if !ok {
		return 0, overflow("response time", task)
	}
	for i := range tasks {
		if tasks[i].Prio <= task.Prio {
			continue
		}
		h := memo[i]
		if h.err != nil {
			return 0, h.err
		}
		if total, ok = addTime(total, h.r); !ok {
			return 0, overflow("response time", task)
		}
	}
	if total > uint64(task.Deadline) {
		return 0, &DeadlineMissedError{TaskID: task.ID, ResponseTime: total, Deadline: task.Deadline}
	}
	return total, nil
}
