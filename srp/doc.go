// Package srp provides the static schedulability analysis engine for fixed-priority,
// preemptive task sets sharing resources under the Stack Resource Policy (SRP).
//
// # Reading Guide
//
// Start with these files to understand the analysis:
//   - model.go: Task and Trace timing model, WCET and the nested resource traversal
//   - ceiling.go: resource priority ceilings and the pre-analysis maps
//   - blocking.go, load.go: B(t), utilization, busy period and I(t)
//   - response.go: R(t) in Approximate and Exact preemption modes
//   - report.go: per-task Result records and the task-set Summary
//
// # Architecture
//
// The engine is pure: every operation reads an immutable []Task and returns a value or
// an error. Loading task sets from files and the built-in presets live in srp/taskset/.
// Rendering lives in cmd/.
//
// # Errors
//
// Analysis failures are ordinary results, never panics:
//   - ErrInvalidTrace: a trace ends before it starts
//   - ErrZeroInterArrival: a task has a zero minimum inter-arrival time
//   - ErrDeadlineMissed: an Exact response time exceeds the task deadline (*DeadlineMissedError)
//   - ErrOverflow: a busy period, interference or response time does not fit in a uint64
package srp
