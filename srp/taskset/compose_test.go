package taskset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) *TaskSetSpec {
	t.Helper()
	spec, err := ParseTaskSet(strings.NewReader(doc))
	require.NoError(t, err)
	return spec
}

func TestComposeTaskSets_ConcatenatesInOrder(t *testing.T) {
	a := mustParse(t, `{description: sensors, tasks: [{id: A, prio: 3, deadline: 5, inter_arrival: 5, trace: {end: 1}}]}`)
	b := mustParse(t, `{version: "1", description: logging, tasks: [{id: B, prio: 1, deadline: 50, inter_arrival: 50, trace: {end: 4}}, {id: C, prio: 2, deadline: 20, inter_arrival: 20, trace: {end: 2}}]}`)

	merged, err := ComposeTaskSets([]*TaskSetSpec{a, b})
	require.NoError(t, err)
	require.NoError(t, merged.Validate())

	var ids []string
	for _, task := range merged.Tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
	assert.Equal(t, "sensors; logging", merged.Description)
	assert.Equal(t, "1", merged.Version)
}

func TestComposeTaskSets_Errors(t *testing.T) {
	_, err := ComposeTaskSets(nil)
	assert.ErrorContains(t, err, "at least one task set")

	a := mustParse(t, `tasks: [{id: A, prio: 1, deadline: 5, inter_arrival: 5, trace: {end: 1}}]`)
	dup := mustParse(t, `tasks: [{id: A, prio: 2, deadline: 5, inter_arrival: 5, trace: {end: 1}}]`)
	_, err = ComposeTaskSets([]*TaskSetSpec{a, dup})
	assert.ErrorContains(t, err, `task id "A" already defined by task set 0`)

	bad := mustParse(t, `{version: "2", tasks: []}`)
	_, err = ComposeTaskSets([]*TaskSetSpec{a, bad})
	assert.ErrorContains(t, err, `unknown version "2"`)
}

func TestComposeTaskSets_PresetsCombine(t *testing.T) {
	// GIVEN both presets, whose task ids do not overlap
	var specs []*TaskSetSpec
	for _, name := range PresetNames() {
		p, err := LookupPreset(name)
		require.NoError(t, err)
		specs = append(specs, p.Spec())
	}

	merged, err := ComposeTaskSets(specs)
	require.NoError(t, err)
	assert.Len(t, merged.Tasks, 7)
}
