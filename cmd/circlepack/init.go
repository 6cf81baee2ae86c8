package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/circlepack-go/internal/config"
)

var forceInit bool

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Writes the default settings to the --config path so they can be edited.
An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	cmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
