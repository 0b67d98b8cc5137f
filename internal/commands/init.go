package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finewise-dev/finewise/internal/config"
	"github.com/finewise-dev/finewise/internal/store"
)

func newInitCommand() *cobra.Command {
	var source string
	var apiURL string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a FineWise project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, source, apiURL, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized FineWise project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", config.SourceCSV, "expense source (csv or api)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "expenses API base URL (api source)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing finewise.yaml")

	return cmd
}

func runInit(dir, source, apiURL string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	cfg.Source.Kind = source
	if apiURL != "" {
		cfg.Source.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Write finewise.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write an empty expenses.csv unless one is already there.
	if source != config.SourceCSV {
		return nil
	}
	csvPath := filepath.Join(dir, cfg.Source.Path)
	if _, err := os.Stat(csvPath); !errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating expenses file: %w", err)
	}
	defer f.Close()
	if err := store.WriteExpenses(f, nil); err != nil {
		return fmt.Errorf("writing expenses file: %w", err)
	}
	return f.Close()
}
