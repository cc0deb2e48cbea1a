package srp

import "iter"

// Task is a periodic or sporadic unit of work with a fixed priority.
// Higher Prio values mean higher priority.
type Task struct {
	ID           string
	Prio         uint8
	Deadline     uint32 // relative deadline, in time units from activation
	InterArrival uint32 // minimum time between successive activations, must be > 0
	Trace        Trace  // root execution timeline; Trace.ID equals ID
}

// Trace is a half-open interval [Start, End) describing either a task's whole execution
// or a critical section nested inside its parent. For nested traces ID names the held resource.
// Inner traces are owned by their parent; the forest is a strict tree.
type Trace struct {
	ID    string
	Start uint32
	End   uint32
	Inner []Trace
}

// Schedulable is implemented by exactly *Task and *Trace.
type Schedulable interface {
	// WCET returns the length of the root interval, C(t).
	WCET() (uint64, error)
	// Resources yields every trace nested below the receiver, excluding the receiver itself.
	Resources() iter.Seq[*Trace]
}

var (
	_ Schedulable = (*Task)(nil)
	_ Schedulable = (*Trace)(nil)
)

// WCET returns C(t) for the task's root trace.
func (t *Task) WCET() (uint64, error) {
	return t.Trace.WCET()
}

// Resources yields every resource access made by the task. See Trace.Resources for the order.
func (t *Task) Resources() iter.Seq[*Trace] {
	return t.Trace.Resources()
}

// WCET returns End - Start. A trace ending before it starts is rejected with ErrInvalidTrace
// instead of wrapping around.
func (tr *Trace) WCET() (uint64, error) {
	if tr.End < tr.Start {
		return 0, invalidTrace(tr)
	}
	return uint64(tr.End - tr.Start), nil
}

// Resources yields every trace nested below tr at any depth. All direct children come first,
// in declaration order; then, for each direct child in the same order, that child's own
// traversal. The sequence is lazy and restartable.
//
// Given T2 -> [R1 -> [R2], R1' -> [R3]] the order is R1, R1', R2, R3.
func (tr *Trace) Resources() iter.Seq[*Trace] {
	return func(yield func(*Trace) bool) {
		// Explicit LIFO work list: popping a node emits its children, then schedules
		// each child's traversal in declaration order.
		stack := []*Trace{tr}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for i := range n.Inner {
				if !yield(&n.Inner[i]) {
					return
				}
			}
			for i := len(n.Inner) - 1; i >= 0; i-- {
				stack = append(stack, &n.Inner[i])
			}
		}
	}
}

// Depth returns the maximum nesting depth below tr; a trace with no inner traces has depth 0.
func (tr *Trace) Depth() int {
	type frame struct {
		t     *Trace
		depth int
	}
	maxDepth := 0
	stack := []frame{{tr, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > maxDepth {
			maxDepth = f.depth
		}
		for i := range f.t.Inner {
			stack = append(stack, frame{&f.t.Inner[i], f.depth + 1})
		}
	}
	return maxDepth
}

// Clone returns a deep copy of the task so callers can mutate it without touching the original.
func (t Task) Clone() Task {
	t.Trace = t.Trace.Clone()
	return t
}

// Clone returns a deep copy of the trace tree.
func (tr Trace) Clone() Trace {
	stack := []*Trace{&tr}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Inner == nil {
			continue
		}
		inner := make([]Trace, len(n.Inner))
		copy(inner, n.Inner)
		n.Inner = inner
		for i := range inner {
			stack = append(stack, &inner[i])
		}
	}
	return tr
}
