package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/srp-analysis/srp/taskset"
)

var composeFromPaths []string

// composeCmd merges several task-set files into one written to stdout
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Merge multiple task-set files into one",
	Long:  "Load multiple task-set YAML files and concatenate their tasks. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCompose(os.Stdout, composeFromPaths); err != nil {
			logrus.Fatalf("Compose failed: %v", err)
		}
	},
}

var exportPreset string

// exportCmd writes a built-in preset as an editable task-set file
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a built-in preset as a task-set YAML file",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := taskset.LookupPreset(exportPreset)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeSpec(os.Stdout, p.Spec()); err != nil {
			logrus.Fatalf("Export failed: %v", err)
		}
	},
}

func runCompose(w io.Writer, paths []string) error {
	var specs []*taskset.TaskSetSpec
	for _, path := range paths {
		spec, err := taskset.LoadTaskSet(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		specs = append(specs, spec)
	}
	merged, err := taskset.ComposeTaskSets(specs)
	if err != nil {
		return err
	}
	if err := merged.Validate(); err != nil {
		return fmt.Errorf("merged task set: %w", err)
	}
	logrus.Infof("Composed %d tasks from %d files", len(merged.Tasks), len(paths))
	return writeSpec(w, merged)
}

func writeSpec(w io.Writer, spec *taskset.TaskSetSpec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return fmt.Errorf("encoding task set: %w", err)
	}
	return enc.Close()
}

func init() {
	composeCmd.Flags().StringArrayVar(&composeFromPaths, "from", nil, "Path to task-set YAML file (can be repeated)")
	_ = composeCmd.MarkFlagRequired("from")

	exportCmd.Flags().StringVar(&exportPreset, "preset", taskset.DefaultPreset, "Built-in preset to export")

	rootCmd.AddCommand(composeCmd, exportCmd)
}
