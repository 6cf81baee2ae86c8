package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ukaji3/circlepack-go/internal/ui"
	"github.com/ukaji3/circlepack-go/pkg/circlepack"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

// report is the JSON form of an analysis.
type report struct {
	Name     string                    `json:"name"`
	Problems []models.StructureProblem `json:"problems"`
	Summary  analyzer.Summary          `json:"summary"`
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [organization.xlsx]",
		Short: "Report structural problems of an organization",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	addInputFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().StringVar(&ruleSet, "rules", "", "Rule set: basic or extended (default from config)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd, args[0], opts)
	if err != nil {
		return err
	}
	return writeReport(cmd, ds, opts.Rules())
}

func loadDataset(cmd *cobra.Command, orgPath string, opts circlepack.Options) (*circlepack.Dataset, error) {
	ds, err := circlepack.Load(cmd.Context(), orgPath, peoplePath, opts)
	switch {
	case errors.Is(err, circlepack.ErrNoData):
		return nil, fmt.Errorf("%s: %w", orgPath, err)
	case err != nil:
		return nil, fmt.Errorf("loading failed: %w", err)
	}
	return ds, nil
}

func writeReport(cmd *cobra.Command, ds *circlepack.Dataset, rules analyzer.RuleSet) error {
	problems := ds.Analyze(rules)

	if asJSON {
		data, err := toJSON(report{Name: ds.Name, Problems: problems, Summary: analyzer.Summarize(problems)})
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		return writeOutput(cmd, append(data, '\n'))
	}

	return writeText(cmd, func(w io.Writer) error {
		return ui.RenderProblems(w, problems)
	})
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [organization.xlsx]",
		Short: "Print the circle hierarchy",
		Long: `Prints the root -> circle -> role hierarchy. With --json the tree is
written in the {name, value, children} form used by circle-packing layouts.`,
		Args: cobra.ExactArgs(1),
		RunE: runTree,
	}
	addInputFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd, args[0], opts)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := toJSON(ds.Hierarchy)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		return writeOutput(cmd, append(data, '\n'))
	}

	return writeText(cmd, func(w io.Writer) error {
		return ui.RenderTree(w, ds.Hierarchy, ds.Occupancy, ds.Staffing)
	})
}
