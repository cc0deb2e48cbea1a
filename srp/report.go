package srp

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Result is the analysis record for a single task.
type Result struct {
	Task         *Task
	ResponseTime uint64 // R(t); meaningful only when Err is nil
	Err          error  // response-time outcome, e.g. a *DeadlineMissedError
	Blocking     uint64 // B(t)
	WCET         uint64 // C(t)
	Interference uint64 // I(t)
	AnalysisErr  error  // first failure computing B(t), C(t) or I(t)
}

// Schedulable reports whether the task's response time was computed without error.
func (r *Result) Schedulable() bool {
	return r.Err == nil && r.AnalysisErr == nil
}

// Analyze runs the response-time analysis for every task, in declaration order.
// A failing task is reported in its Result; it never aborts the rest of the batch.
func Analyze(tasks []Task, mode PreemptionMode) []Result {
	results := make([]Result, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		res := Result{Task: t}
		res.ResponseTime, res.Err = ResponseTime(t, tasks, mode)

		var errs [3]error
		res.Blocking, errs[0] = BlockingTime(t, tasks)
		res.WCET, errs[1] = t.WCET()
		res.Interference, errs[2] = Interference(t, tasks)
		for _, err := range errs {
			if err != nil {
				res.AnalysisErr = err
				break
			}
		}

		logrus.Debugf("task %s: mode=%s R=%d err=%v B=%d C=%d I=%d",
			t.ID, mode, res.ResponseTime, res.Err, res.Blocking, res.WCET, res.Interference)
		results = append(results, res)
	}
	return results
}

// Summary aggregates a task set's analysis results.
type Summary struct {
	TotalTasks      int
	Schedulable     int
	DeadlineMisses  int
	Failures        int // tasks that failed for any reason other than a missed deadline
	LoadFactor      float64
	LoadErr         error
	Overloaded      bool // LoadFactor > 1
	MaxResponseTime uint64
	MaxResponseTask string // id of the task with MaxResponseTime; empty if none succeeded
}

// Summarize computes aggregate statistics over tasks and their Analyze results.
// Safe for nil or empty inputs (returns zero-value fields).
func Summarize(tasks []Task, results []Result) *Summary {
	summary := &Summary{TotalTasks: len(results)}
	if len(tasks) > 0 {
		summary.LoadFactor, summary.LoadErr = TotalLoadFactor(tasks)
		summary.Overloaded = summary.LoadErr == nil && summary.LoadFactor > 1
	}

	for i := range results {
		r := &results[i]
		switch {
		case r.Schedulable():
			summary.Schedulable++
			if summary.MaxResponseTask == "" || r.ResponseTime > summary.MaxResponseTime {
				summary.MaxResponseTime = r.ResponseTime
				summary.MaxResponseTask = r.Task.ID
			}
		case errors.Is(r.Err, ErrDeadlineMissed):
			summary.DeadlineMisses++
		default:
			summary.Failures++
		}
	}
	return summary
}
