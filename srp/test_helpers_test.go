package srp

// exampleTaskSet returns the three-task reference set used across the analysis tests.
//
//	T1: prio 1, C=10, A=100, D=100, no resources
//	T2: prio 2, C=30, A=200, D=200, R1[10,20){R2[12,16)}, R1[22,28){R3[23,30)}
//	T3: prio 3, C=30, A=50,  D=50,  R2[10,20), R3[22,30)
func exampleTaskSet() []Task {
	return []Task{
		{
			ID: "T1", Prio: 1, Deadline: 100, InterArrival: 100,
			Trace: Trace{ID: "T1", Start: 0, End: 10},
		},
		{
			ID: "T2", Prio: 2, Deadline: 200, InterArrival: 200,
			Trace: Trace{ID: "T2", Start: 0, End: 30, Inner: []Trace{
				{ID: "R1", Start: 10, End: 20, Inner: []Trace{
					{ID: "R2", Start: 12, End: 16},
				}},
				{ID: "R1", Start: 22, End: 28, Inner: []Trace{
					{ID: "R3", Start: 23, End: 30},
				}},
			}},
		},
		{
			ID: "T3", Prio: 3, Deadline: 50, InterArrival: 50,
			Trace: Trace{ID: "T3", Start: 0, End: 30, Inner: []Trace{
				{ID: "R2", Start: 10, End: 20},
				{ID: "R3", Start: 22, End: 30},
			}},
		},
	}
}

// newTask builds a task with a root trace [0, wcet) and no resources.
func newTask(id string, prio uint8, wcet, interArrival, deadline uint32) Task {
	return Task{
		ID: id, Prio: prio, Deadline: deadline, InterArrival: interArrival,
		Trace: Trace{ID: id, Start: 0, End: wcet},
	}
}

// collectIDs drains a traversal into its trace ids.
func collectIDs(s Schedulable) []string {
	var ids []string
	for r := range s.Resources() {
		ids = append(ids, r.ID)
	}
	return ids
}
