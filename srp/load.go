package srp

import "math/bits"

// TotalLoadFactor returns L_tot = sum(C(t) / A(t)) over all tasks.
// Every task is checked for a zero inter-arrival time before any WCET is read, so
// ErrZeroInterArrival wins over other failures in the set.
func TotalLoadFactor(tasks []Task) (float64, error) {
	for i := range tasks {
		if tasks[i].InterArrival == 0 {
			return 0, zeroInterArrival(&tasks[i])
		}
	}
	total := 0.0
	for i := range tasks {
		t := &tasks[i]
		c, err := t.WCET()
		if err != nil {
			return 0, err
		}
		total += float64(c) / float64(t.InterArrival)
	}
	return total, nil
}

// BusyPeriod returns Bp(t), the summed WCET of every task with the same or higher priority
// as task. This is a single sum, not a fixed-point busy-period iteration.
func BusyPeriod(task *Task, tasks []Task) (uint64, error) {
	var busy uint64
	for i := range tasks {
		h := &tasks[i]
		if h.Prio < task.Prio {
			continue
		}
		c, err := h.WCET()
		if err != nil {
			return 0, err
		}
		var ok bool
		if busy, ok = addTime(busy, c); !ok {
			return 0, overflow("busy period", task)
		}
	}
	return busy, nil
}

// Interference returns I(t) = sum(C(h) * ceil(Bp(t) / A(h))) for all tasks h where P(h) > P(t).
// Fails with ErrOverflow when a term or the sum does not fit in a uint64.
func Interference(task *Task, tasks []Task) (uint64, error) {
	busy, err := BusyPeriod(task, tasks)
	if err != nil {
		return 0, err
	}
	var interference uint64
	for i := range tasks {
		h := &tasks[i]
		if h.Prio <= task.Prio {
			continue
		}
		if h.InterArrival == 0 {
			return 0, zeroInterArrival(h)
		}
		c, err := h.WCET()
		if err != nil {
			return 0, err
		}
		term, ok := mulTime(c, activations(busy, h.InterArrival))
		if !ok {
			return 0, overflow("interference", task)
		}
		if interference, ok = addTime(interference, term); !ok {
			return 0, overflow("interference", task)
		}
	}
	return interference, nil
}

// activations returns ceil(window / interArrival), the number of releases of a task
// that fit in window. interArrival must be non-zero.
func activations(window uint64, interArrival uint32) uint64 {
	a := uint64(interArrival)
	return (window + a - 1) / a
}

// addTime returns a + b and false if the sum wraps.
func addTime(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// mulTime returns a * b and false if the product does not fit in 64 bits.
func mulTime(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}
