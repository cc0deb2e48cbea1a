package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/srp-analysis/internal/ui"
	"github.com/inference-sim/srp-analysis/srp"
	"github.com/inference-sim/srp-analysis/srp/taskset"
)

var (
	// CLI flags shared by the analysis commands
	tasksPath  string // Task-set file (YAML or JSON)
	presetName string // Built-in preset, used when no file is given
	logLevel   string // Log verbosity level

	// CLI flags for analyze
	preemptionMode string // exact or approximate
	outputFormat   string // table, json or yaml
	noColor        bool   // Disable coloured table output
	failOnMiss     bool   // Exit non-zero if any task is not schedulable
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "srp-analysis",
	Short: "Static schedulability analysis for task sets under the Stack Resource Policy",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// analyzeCmd runs the response-time analysis over a task set
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute blocking, interference and response times for every task",
	Run: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColor()
		}
		opts := analyzeOptions{
			tasksPath: tasksPath,
			preset:    presetName,
			mode:      preemptionMode,
			output:    outputFormat,
		}
		summary, err := runAnalyze(os.Stdout, opts)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := unschedulableErr(summary, failOnMiss); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// resourcesCmd prints the resource traversal and ceilings of a task set
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List each task's nested resource accesses and their priority ceilings",
	Run: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColor()
		}
		tasks, source, err := loadTasks(tasksPath, presetName)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Listing resources of %s", source)
		if err := renderResources(os.Stdout, tasks); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// presetsCmd lists the built-in task sets
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in task-set presets",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listPresets(os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

type analyzeOptions struct {
	tasksPath string
	preset    string
	mode      string
	output    string
}

// runAnalyze loads the task set, analyses it and writes the report to w.
func runAnalyze(w io.Writer, opts analyzeOptions) (*srp.Summary, error) {
	mode, err := srp.ParsePreemptionMode(opts.mode)
	if err != nil {
		return nil, err
	}
	render, err := rendererFor(opts.output)
	if err != nil {
		return nil, err
	}
	tasks, source, err := loadTasks(opts.tasksPath, opts.preset)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Analysing %d tasks from %s, mode=%s", len(tasks), source, mode)
	results := srp.Analyze(tasks, mode)
	summary := srp.Summarize(tasks, results)
	if err := render(w, newReport(source, mode, results, summary)); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	logrus.Infof("Analysis complete: %d/%d tasks schedulable", summary.Schedulable, summary.TotalTasks)
	return summary, nil
}

// unschedulableErr returns an error when failOnMiss is set and any task in summary is
// not schedulable, whether from a missed deadline or a failed analysis.
func unschedulableErr(summary *srp.Summary, failOnMiss bool) error {
	if !failOnMiss || summary.Schedulable >= summary.TotalTasks {
		return nil
	}
	return fmt.Errorf("%d of %d tasks are not schedulable",
		summary.TotalTasks-summary.Schedulable, summary.TotalTasks)
}

// loadTasks reads the task set from path, or from the named preset when path is empty.
// It returns a description of the source for reports and logs.
func loadTasks(path, preset string) ([]srp.Task, string, error) {
	var spec *taskset.TaskSetSpec
	var source string
	if path != "" {
		var err error
		if spec, err = taskset.LoadTaskSet(path); err != nil {
			return nil, "", err
		}
		source = path
	} else {
		if preset == "" {
			preset = taskset.DefaultPreset
		}
		p, err := taskset.LookupPreset(preset)
		if err != nil {
			return nil, "", err
		}
		spec = p.Spec()
		source = "preset " + p.Name
	}
	if err := spec.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid task set %s: %w", source, err)
	}
	return spec.ToTasks(), source, nil
}

func listPresets(w io.Writer) error {
	for _, name := range taskset.PresetNames() {
		p, err := taskset.LookupPreset(name)
		if err != nil {
			return err
		}
		marker := " "
		if name == taskset.DefaultPreset {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n", marker, ui.Bold(fmt.Sprintf("%-14s", name)), p.Description); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, c := range []*cobra.Command{analyzeCmd, resourcesCmd} {
		c.Flags().StringVar(&tasksPath, "tasks", "", "Task-set file (YAML or JSON); overrides --preset")
		c.Flags().StringVar(&presetName, "preset", taskset.DefaultPreset, "Built-in task set to analyse when --tasks is not given")
		c.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	}

	analyzeCmd.Flags().StringVar(&preemptionMode, "mode", string(srp.Exact), "Preemption mode (exact, approximate)")
	analyzeCmd.Flags().StringVar(&outputFormat, "output", "table", "Report format (table, json, yaml)")
	analyzeCmd.Flags().BoolVar(&failOnMiss, "fail-on-miss", false, "Exit with status 1 if any task is not schedulable")

	rootCmd.AddCommand(analyzeCmd, resourcesCmd, presetsCmd)
}
