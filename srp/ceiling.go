package srp

// defaultCeiling is the ceiling reported for a resource no task accesses. It is 1, not 0.
const defaultCeiling uint8 = 1

// CeilingPriority returns π(r), the highest priority among tasks whose resource traversal
// contains a trace with resource.ID. Returns 1 when no task accesses the resource.
func CeilingPriority(resource *Trace, tasks []Task) uint8 {
	ceiling, found := uint8(0), false
	for i := range tasks {
		t := &tasks[i]
		if found && t.Prio <= ceiling {
			continue
		}
		if accesses(t, resource.ID) {
			ceiling, found = t.Prio, true
		}
	}
	if !found {
		return defaultCeiling
	}
	return ceiling
}

func accesses(t *Task, resourceID string) bool {
	for r := range t.Resources() {
		if r.ID == resourceID {
			return true
		}
	}
	return false
}

// PriorityMap maps a task or resource identifier to the highest priority of any task
// whose trace tree contains that identifier.
type PriorityMap map[string]uint8

// TaskResources maps a task identifier to the set of resource identifiers it accesses.
type TaskResources map[string]map[string]struct{}

// PreAnalysis derives the priority map and the task-resource map in a single pass.
// The priority map includes root trace ids; TaskResources only lists nested resources,
// and tasks without any resource access have no entry.
func PreAnalysis(tasks []Task) (PriorityMap, TaskResources) {
	ip := make(PriorityMap)
	tr := make(TaskResources)
	for i := range tasks {
		t := &tasks[i]
		ip.observe(t.Trace.ID, t.Prio)
		for r := range t.Resources() {
			ip.observe(r.ID, t.Prio)
			set, ok := tr[t.ID]
			if !ok {
				set = make(map[string]struct{})
				tr[t.ID] = set
			}
			set[r.ID] = struct{}{}
		}
	}
	return ip, tr
}

func (m PriorityMap) observe(id string, prio uint8) {
	if old, ok := m[id]; !ok || prio > old {
		m[id] = prio
	}
}

// Ceiling returns the ceiling recorded for id, or 1 when id is unknown. Unlike
// CeilingPriority, root task ids are present in the map.
func (m PriorityMap) Ceiling(id string) uint8 {
	if p, ok := m[id]; ok {
		return p
	}
	return defaultCeiling
}
