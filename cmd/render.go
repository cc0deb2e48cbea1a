package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/srp-analysis/internal/ui"
	"github.com/inference-sim/srp-analysis/srp"
)

// Error kinds reported in machine-readable output.
const (
	errKindInvalidTrace     = "invalid_trace"
	errKindZeroInterArrival = "zero_inter_arrival"
	errKindDeadlineMissed   = "deadline_missed"
	errKindOverflow         = "overflow"
	errKindOther            = "error"
)

// report is the machine-readable form of an analysis run.
type report struct {
	Source     string       `json:"source" yaml:"source"`
	Mode       string       `json:"mode" yaml:"mode"`
	LoadFactor *float64     `json:"load_factor,omitempty" yaml:"load_factor,omitempty"`
	LoadError  string       `json:"load_error,omitempty" yaml:"load_error,omitempty"`
	Overloaded bool         `json:"overloaded" yaml:"overloaded"`
	Tasks      []taskReport `json:"tasks" yaml:"tasks"`
	Summary    summaryView  `json:"summary" yaml:"summary"`
}

type taskReport struct {
	ID           string  `json:"id" yaml:"id"`
	Prio         uint8   `json:"prio" yaml:"prio"`
	Deadline     uint32  `json:"deadline" yaml:"deadline"`
	InterArrival uint32  `json:"inter_arrival" yaml:"inter_arrival"`
	ResponseTime *uint64 `json:"response_time,omitempty" yaml:"response_time,omitempty"`
	Blocking     uint64  `json:"blocking" yaml:"blocking"`
	WCET         uint64  `json:"wcet" yaml:"wcet"`
	Interference uint64  `json:"interference" yaml:"interference"`
	Schedulable  bool    `json:"schedulable" yaml:"schedulable"`
	ErrorKind    string  `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty"`
}

type summaryView struct {
	TotalTasks      int    `json:"total_tasks" yaml:"total_tasks"`
	Schedulable     int    `json:"schedulable" yaml:"schedulable"`
	DeadlineMisses  int    `json:"deadline_misses" yaml:"deadline_misses"`
	Failures        int    `json:"failures" yaml:"failures"`
	MaxResponseTime uint64 `json:"max_response_time" yaml:"max_response_time"`
	MaxResponseTask string `json:"max_response_task,omitempty" yaml:"max_response_task,omitempty"`
}

func newReport(source string, mode srp.PreemptionMode, results []srp.Result, summary *srp.Summary) *report {
	rep := &report{
		Source:     source,
		Mode:       mode.String(),
		Overloaded: summary.Overloaded,
		Tasks:      make([]taskReport, 0, len(results)),
		Summary: summaryView{
			TotalTasks:      summary.TotalTasks,
			Schedulable:     summary.Schedulable,
			DeadlineMisses:  summary.DeadlineMisses,
			Failures:        summary.Failures,
			MaxResponseTime: summary.MaxResponseTime,
			MaxResponseTask: summary.MaxResponseTask,
		},
	}
	if summary.LoadErr != nil {
		rep.LoadError = summary.LoadErr.Error()
	} else {
		lf := summary.LoadFactor
		rep.LoadFactor = &lf
	}

	for i := range results {
		r := &results[i]
		tr := taskReport{
			ID:           r.Task.ID,
			Prio:         r.Task.Prio,
			Deadline:     r.Task.Deadline,
			InterArrival: r.Task.InterArrival,
			Blocking:     r.Blocking,
			WCET:         r.WCET,
			Interference: r.Interference,
			Schedulable:  r.Schedulable(),
		}
		if r.Err == nil {
			rt := r.ResponseTime
			tr.ResponseTime = &rt
		}
		if err := firstErr(r.Err, r.AnalysisErr); err != nil {
			tr.ErrorKind = errorKind(err)
			tr.Error = err.Error()
		}
		rep.Tasks = append(rep.Tasks, tr)
	}
	return rep
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, srp.ErrDeadlineMissed):
		return errKindDeadlineMissed
	case errors.Is(err, srp.ErrInvalidTrace):
		return errKindInvalidTrace
	case errors.Is(err, srp.ErrZeroInterArrival):
		return errKindZeroInterArrival
	case errors.Is(err, srp.ErrOverflow):
		return errKindOverflow
	default:
		return errKindOther
	}
}

type renderFunc func(w io.Writer, rep *report) error

var renderers = map[string]renderFunc{
	"table": renderTable,
	"json":  renderJSON,
	"yaml":  renderYAML,
}

func rendererFor(format string) (renderFunc, error) {
	r, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q; valid: %s",
			format, strings.Join(slices.Sorted(maps.Keys(renderers)), ", "))
	}
	return r, nil
}

func renderJSON(w io.Writer, rep *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func renderYAML(w io.Writer, rep *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

var tableColumns = []string{"TASK", "PRIO", "DEADLINE", "A", "C", "B", "I", "R"}

// renderTable writes a terminal-friendly report. Padding is applied before colouring
// so escape codes do not skew the column widths.
func renderTable(w io.Writer, rep *report) error {
	rows := make([][]string, 0, len(rep.Tasks))
	for _, t := range rep.Tasks {
		r := "-"
		if t.ResponseTime != nil {
			r = fmt.Sprint(*t.ResponseTime)
		}
		rows = append(rows, []string{
			t.ID, fmt.Sprint(t.Prio), fmt.Sprint(t.Deadline), fmt.Sprint(t.InterArrival),
			fmt.Sprint(t.WCET), fmt.Sprint(t.Blocking), fmt.Sprint(t.Interference), r,
		})
	}
	widths := make([]int, len(tableColumns))
	for i, c := range tableColumns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	pad := func(cells []string) string {
		var sb strings.Builder
		for i, cell := range cells {
			fmt.Fprintf(&sb, "%-*s  ", widths[i], cell)
		}
		return sb.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.BoldCyan(fmt.Sprintf("=== SRP Analysis: %s (%s) ===", rep.Source, rep.Mode)))
	fmt.Fprintf(&b, "%s%s\n", ui.Bold(pad(tableColumns)), ui.Bold("STATUS"))
	for i, row := range rows {
		fmt.Fprintf(&b, "%s%s\n", pad(row), taskStatus(&rep.Tasks[i]))
	}
	b.WriteString("\n")

	s := rep.Summary
	switch {
	case rep.LoadFactor == nil:
		fmt.Fprintf(&b, "Total load factor    : %s\n", ui.Red(rep.LoadError))
	case rep.Overloaded:
		fmt.Fprintf(&b, "Total load factor    : %s\n", ui.BoldRed(fmt.Sprintf("%.3f (overloaded)", *rep.LoadFactor)))
	default:
		fmt.Fprintf(&b, "Total load factor    : %.3f\n", *rep.LoadFactor)
	}
	schedulable := fmt.Sprintf("%d/%d", s.Schedulable, s.TotalTasks)
	if s.Schedulable == s.TotalTasks {
		schedulable = ui.BoldGreen(schedulable)
	} else {
		schedulable = ui.BoldRed(schedulable)
	}
	fmt.Fprintf(&b, "Schedulable tasks    : %s\n", schedulable)
	if s.DeadlineMisses > 0 {
		fmt.Fprintf(&b, "Deadline misses      : %d\n", s.DeadlineMisses)
	}
	if s.Failures > 0 {
		fmt.Fprintf(&b, "Analysis failures    : %d\n", s.Failures)
	}
	if s.MaxResponseTask != "" {
		fmt.Fprintf(&b, "Worst response time  : %d %s\n", s.MaxResponseTime, ui.Dim("("+s.MaxResponseTask+")"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func taskStatus(t *taskReport) string {
	switch t.ErrorKind {
	case "":
		return ui.Green("ok")
	case errKindDeadlineMissed:
		return ui.Red(t.Error)
	default:
		return ui.Yellow(t.Error)
	}
}

// renderResources lists each task's traversal with WCET and ceiling, then the
// pre-analysis maps.
func renderResources(w io.Writer, tasks []srp.Task) error {
	var b strings.Builder
	b.WriteString(ui.BoldCyan("=== Resources ===") + "\n")
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(&b, "%s %s\n", ui.Bold(t.ID), ui.Dim(fmt.Sprintf("(prio %d)", t.Prio)))
		n := 0
		for r := range t.Resources() {
			n++
			c, err := r.WCET()
			if err != nil {
				fmt.Fprintf(&b, "  %-8s [%d,%d)  %s\n", r.ID, r.Start, r.End, ui.Yellow(err.Error()))
				continue
			}
			fmt.Fprintf(&b, "  %-8s [%d,%d)  C=%-4d ceiling=%d\n", r.ID, r.Start, r.End, c, srp.CeilingPriority(r, tasks))
		}
		if n == 0 {
			fmt.Fprintf(&b, "  %s\n", ui.Dim("no resources"))
		}
	}

	ip, tr := srp.PreAnalysis(tasks)
	b.WriteString("\n" + ui.Bold("Priority map") + "\n")
	for _, id := range slices.Sorted(maps.Keys(ip)) {
		fmt.Fprintf(&b, "  %-8s %d\n", id, ip[id])
	}
	b.WriteString(ui.Bold("Task resources") + "\n")
	for i := range tasks {
		set, ok := tr[tasks[i].ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-8s %s\n", tasks[i].ID, strings.Join(slices.Sorted(maps.Keys(set)), ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
