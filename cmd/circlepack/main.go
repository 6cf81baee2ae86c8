// Package main provides the CLI entry point for circlepack.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/circlepack-go/internal/config"
	"github.com/ukaji3/circlepack-go/internal/logging"
	"github.com/ukaji3/circlepack-go/pkg/circlepack"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	outputPath string
	pretty     bool
	asJSON     bool

	peoplePath      string
	orgSheet        string
	peopleSheet     string
	ruleSet         string
	mergeDuplicates bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "circlepack",
		Short: "Build and check circle-packing organization charts",
		Long: `circlepack reads organization (circle, role, FTE) and assignment
(circle, role, person, FTE) spreadsheets, builds the circle hierarchy
and reports structural problems such as overloaded or understaffed circles.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", configPath, err)
			}

			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			logger, err = logging.New(level, cfg.Logging.JSON)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(), newTreeCmd(), newShareCmd(), newOpenCmd(), newDeleteCmd(), newInitCmd())
	return rootCmd
}

// addInputFlags registers the flags shared by commands reading spreadsheets.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&peoplePath, "people", "p", "", "Assignment file (xlsx or csv)")
	cmd.Flags().StringVar(&orgSheet, "org-sheet", "", "Organization sheet name (default: first table)")
	cmd.Flags().StringVar(&peopleSheet, "people-sheet", "", "Assignment sheet name (default: first table, or the next one when both inputs are one workbook)")
	cmd.Flags().BoolVar(&mergeDuplicates, "merge-duplicates", false, "Merge repeated circle/role rows into one role")
}

// addOutputFlags registers the output flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of text")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
}

// buildOptions merges config values and flags, flags winning.
func buildOptions(cmd *cobra.Command) (circlepack.Options, error) {
	opts := circlepack.DefaultOptions()
	opts.Logger = logger
	opts.OrganizationSheet = cfg.OrganizationSheet
	opts.AssignmentSheet = cfg.PeopleSheet
	opts.OrganizationColumns = cfg.OrganizationColumns()
	opts.AssignmentColumns = cfg.AssignmentColumns()
	opts.MergeDuplicateRoles = cfg.MergeDuplicateRoles

	rules := cfg.RuleSet
	if cmd.Flags().Changed("rules") {
		rules = ruleSet
	}
	rs, err := analyzer.ParseRuleSet(rules)
	if err != nil {
		return opts, err
	}
	opts.RuleSet = rs

	if orgSheet != "" {
		opts.OrganizationSheet = orgSheet
	}
	if peopleSheet != "" {
		opts.AssignmentSheet = peopleSheet
	}
	if mergeDuplicates {
		opts.MergeDuplicateRoles = true
	}
	return opts, nil
}

func toJSON(v any) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// writeOutput writes data to --output or stdout.
func writeOutput(cmd *cobra.Command, data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := cmd.OutOrStdout().Write(data)
	return err
}

// writeText renders styled text to stdout, or uncolored to --output.
func writeText(cmd *cobra.Command, render func(w io.Writer) error) error {
	if outputPath == "" {
		return render(cmd.OutOrStdout())
	}
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return writeOutput(cmd, buf.Bytes())
}
