package taskset

import (
	"fmt"
	"strings"
)

// ComposeTaskSets merges several task sets into one, keeping tasks in file order.
// Descriptions are joined. Task ids must stay unique across the inputs.
func ComposeTaskSets(specs []*TaskSetSpec) (*TaskSetSpec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one task set required")
	}

	merged := &TaskSetSpec{Version: "1"}
	var descriptions []string
	owner := make(map[string]int)
	for i, s := range specs {
		if !validVersions[s.Version] {
			return nil, fmt.Errorf("task set %d: unknown version %q", i, s.Version)
		}
		if s.Description != "" {
			descriptions = append(descriptions, s.Description)
		}
		for _, t := range s.Tasks {
			if prev, ok := owner[t.ID]; ok {
				return nil, fmt.Errorf("task set %d: task id %q already defined by task set %d", i, t.ID, prev)
			}
			owner[t.ID] = i
			merged.Tasks = append(merged.Tasks, t)
		}
	}
	merged.Description = strings.Join(descriptions, "; ")
	return merged, nil
}
