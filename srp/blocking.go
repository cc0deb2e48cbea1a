package srp

// BlockingTime returns B(t), the longest critical section of a lower-priority task whose
// resource ceiling is at least t's priority:
//
//	B(t) = max(C(l_r)) where P(l) < P(t) and π(l_r) >= P(t)
//
// Under SRP a task is blocked at most once, so this is a maximum, not a sum.
// Returns 0 when no lower-priority resource qualifies.
func BlockingTime(task *Task, tasks []Task) (uint64, error) {
	var blocking uint64
	for i := range tasks {
		lower := &tasks[i]
		if lower.Prio >= task.Prio {
			continue
		}
		for r := range lower.Resources() {
			if CeilingPriority(r, tasks) < task.Prio {
				continue
			}
			cs, err := r.WCET()
			if err != nil {
				return 0, err
			}
			blocking = max(blocking, cs)
		}
	}
	return blocking, nil
}
