// Package testutil provides shared test infrastructure for the srp packages.
// It holds the golden report types and assertion helpers used by srp/ and srp/taskset/ tests.
package testutil

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

// GoldenDataset represents the structure of testdata/golden.yaml.
type GoldenDataset struct {
	Cases []GoldenCase `yaml:"cases"`
}

// GoldenCase is the expected analysis of one preset under one preemption mode.
type GoldenCase struct {
	Preset     string       `yaml:"preset"`
	Mode       string       `yaml:"mode"`
	LoadFactor float64      `yaml:"load_factor"`
	Tasks      []GoldenTask `yaml:"tasks"`
}

// GoldenTask is the expected Result for a single task.
type GoldenTask struct {
	ID           string `yaml:"id"`
	ResponseTime uint64 `yaml:"response_time"`
	Error        string `yaml:"error"` // "" or "deadline_missed"

	// Response time carried by the DeadlineMissedError when Error is deadline_missed
	MissedResponseTime uint64 `yaml:"missed_response_time"`

	Blocking     uint64 `yaml:"blocking"`
	WCET         uint64 `yaml:"wcet"`
	BusyPeriod   uint64 `yaml:"busy_period"`
	Interference uint64 `yaml:"interference"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: srp/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
