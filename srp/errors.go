package srp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrace is returned when a trace ends before it starts.
	ErrInvalidTrace = errors.New("invalid trace")
	// ErrZeroInterArrival is returned when a task has a minimum inter-arrival time of zero.
	ErrZeroInterArrival = errors.New("zero inter-arrival time")
	// ErrDeadlineMissed matches every *DeadlineMissedError under errors.Is.
	ErrDeadlineMissed = errors.New("deadline missed")
	// ErrOverflow is returned when a derived time does not fit in 64 bits.
	ErrOverflow = errors.New("time overflow")
)

// DeadlineMissedError reports an Exact response time that exceeds the task deadline.
type DeadlineMissedError struct {
	TaskID       string
	ResponseTime uint64
	Deadline     uint32
}

func (e *DeadlineMissedError) Error() string {
	return fmt.Sprintf("task %q: deadline missed: response time %d exceeds deadline %d",
		e.TaskID, e.ResponseTime, e.Deadline)
}

// Is lets errors.Is(err, ErrDeadlineMissed) match.
func (e *DeadlineMissedError) Is(target error) bool {
	return target == ErrDeadlineMissed
}

func invalidTrace(t *Trace) error {
	return fmt.Errorf("%w: %q ends at %d before it starts at %d", ErrInvalidTrace, t.ID, t.End, t.Start)
}

func zeroInterArrival(t *Task) error {
	return fmt.Errorf("%w: task %q", ErrZeroInterArrival, t.ID)
}

func overflow(quantity string, t *Task) error {
	return fmt.Errorf("%w: %s of task %q exceeds 2^64-1", ErrOverflow, quantity, t.ID)
}
