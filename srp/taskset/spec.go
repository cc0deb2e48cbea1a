// Package taskset loads task sets for the srp analysis engine from YAML (or JSON) files
// and provides the built-in presets.
package taskset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/srp-analysis/srp"
)

// TaskSetSpec is the top-level task-set file.
// Loaded from YAML via LoadTaskSet(path).
type TaskSetSpec struct {
	Version     string     `yaml:"version"`
	Description string     `yaml:"description,omitempty"`
	Tasks       []TaskSpec `yaml:"tasks"`
}

// TaskSpec describes a single task.
type TaskSpec struct {
	ID           string    `yaml:"id"`
	Prio         uint8     `yaml:"prio"`
	Deadline     uint32    `yaml:"deadline"`
	InterArrival uint32    `yaml:"inter_arrival"`
	Trace        TraceSpec `yaml:"trace"`
}

// TraceSpec describes an execution interval and the critical sections nested in it.
// The root trace id may be omitted; it defaults to the task id.
type TraceSpec struct {
	ID    string      `yaml:"id,omitempty"`
	Start uint32      `yaml:"start"`
	End   uint32      `yaml:"end"`
	Inner []TraceSpec `yaml:"inner,omitempty"`
}

var validVersions = map[string]bool{"": true, "1": true}

// LoadTaskSet reads and parses a task-set file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadTaskSet(path string) (*TaskSetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task set: %w", err)
	}
	return ParseTaskSet(bytes.NewReader(data))
}

// ParseTaskSet decodes a task set from r. JSON input is accepted as YAML.
func ParseTaskSet(r io.Reader) (*TaskSetSpec, error) {
	var spec TaskSetSpec
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing task set: empty document")
		}
		return nil, fmt.Errorf("parsing task set: %w", err)
	}
	return &spec, nil
}

// Validate checks that the task set can be analysed. Suspicious but analysable inputs
// (duplicate priorities, critical sections outside their parent interval) are logged as warnings.
func (s *TaskSetSpec) Validate() error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unknown task set version %q; valid: 1", s.Version)
	}
	if len(s.Tasks) == 0 {
		return fmt.Errorf("at least one task required")
	}
	ids := make(map[string]int, len(s.Tasks))
	prios := make(map[uint8]string, len(s.Tasks))
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if err := validateTask(t, i); err != nil {
			return err
		}
		if prev, ok := ids[t.ID]; ok {
			return fmt.Errorf("tasks[%d]: duplicate task id %q (first used by tasks[%d])", i, t.ID, prev)
		}
		ids[t.ID] = i
		if other, ok := prios[t.Prio]; ok {
			logrus.Warnf("tasks %q and %q share priority %d; SRP analysis assumes unique priorities",
				other, t.ID, t.Prio)
		} else {
			prios[t.Prio] = t.ID
		}
	}
	return nil
}

func validateTask(t *TaskSpec, idx int) error {
	prefix := fmt.Sprintf("tasks[%d]", idx)
	if t.ID == "" {
		return fmt.Errorf("%s: id must be non-empty", prefix)
	}
	if t.InterArrival == 0 {
		return fmt.Errorf("%s (%s): inter_arrival must be positive", prefix, t.ID)
	}
	if t.Trace.ID != "" && t.Trace.ID != t.ID {
		return fmt.Errorf("%s (%s): root trace id %q must match the task id", prefix, t.ID, t.Trace.ID)
	}
	return validateTrace(prefix+".trace", &t.Trace)
}

// validateTrace walks the tree in declaration order with an explicit stack, reporting
// the first failure by its field path.
func validateTrace(prefix string, root *TraceSpec) error {
	type frame struct {
		path   string
		tr     *TraceSpec
		parent *TraceSpec
	}
	stack := []frame{{path: prefix, tr: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tr, parent := f.tr, f.parent
		if tr.End < tr.Start {
			return fmt.Errorf("%s: end %d is before start %d", f.path, tr.End, tr.Start)
		}
		if parent != nil {
			if tr.ID == "" {
				return fmt.Errorf("%s: resource id must be non-empty", f.path)
			}
			if tr.Start < parent.Start || tr.End > parent.End {
				logrus.Warnf("%s: resource %q [%d,%d) is not nested inside its parent [%d,%d)",
					f.path, tr.ID, tr.Start, tr.End, parent.Start, parent.End)
			}
		}
		for i := len(tr.Inner) - 1; i >= 0; i-- {
			stack = append(stack, frame{path: fmt.Sprintf("%s.inner[%d]", f.path, i), tr: &tr.Inner[i], parent: tr})
		}
	}
	return nil
}

// ToTasks converts the spec into the engine's task model, in declaration order.
func (s *TaskSetSpec) ToTasks() []srp.Task {
	tasks := make([]srp.Task, len(s.Tasks))
	for i, t := range s.Tasks {
		root := t.Trace.toTrace()
		if root.ID == "" {
			root.ID = t.ID
		}
		tasks[i] = srp.Task{
			ID:           t.ID,
			Prio:         t.Prio,
			Deadline:     t.Deadline,
			InterArrival: t.InterArrival,
			Trace:        root,
		}
	}
	return tasks
}

func (ts *TraceSpec) toTrace() srp.Trace {
	type pair struct {
		src *TraceSpec
		dst *srp.Trace
	}
	var root srp.Trace
	stack := []pair{{ts, &root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		*p.dst = srp.Trace{ID: p.src.ID, Start: p.src.Start, End: p.src.End}
		if len(p.src.Inner) == 0 {
			continue
		}
		p.dst.Inner = make([]srp.Trace, len(p.src.Inner))
		for i := range p.src.Inner {
			stack = append(stack, pair{&p.src.Inner[i], &p.dst.Inner[i]})
		}
	}
	return root
}

// FromTasks builds a spec from engine tasks, e.g. to export a preset as a file.
func FromTasks(tasks []srp.Task) *TaskSetSpec {
	spec := &TaskSetSpec{Version: "1", Tasks: make([]TaskSpec, len(tasks))}
	for i := range tasks {
		t := &tasks[i]
		spec.Tasks[i] = TaskSpec{
			ID:           t.ID,
			Prio:         t.Prio,
			Deadline:     t.Deadline,
			InterArrival: t.InterArrival,
			Trace:        fromTrace(&t.Trace),
		}
	}
	return spec
}

func fromTrace(tr *srp.Trace) TraceSpec {
	type pair struct {
		src *srp.Trace
		dst *TraceSpec
	}
	var root TraceSpec
	stack := []pair{{tr, &root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		*p.dst = TraceSpec{ID: p.src.ID, Start: p.src.Start, End: p.src.End}
		if len(p.src.Inner) == 0 {
			continue
		}
		p.dst.Inner = make([]TraceSpec, len(p.src.Inner))
		for i := range p.src.Inner {
			stack = append(stack, pair{&p.src.Inner[i], &p.dst.Inner[i]})
		}
	}
	return root
}
