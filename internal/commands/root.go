package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finewise-dev/finewise/internal/buildinfo"
	"github.com/finewise-dev/finewise/internal/config"
	"github.com/finewise-dev/finewise/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
	clock      func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(clock func() time.Time) *cobra.Command {
	g := &globalFlags{clock: clock}

	rootCmd := &cobra.Command{
		Use:     "finewise",
		Short:   "Personal expense analytics",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := logging.DefaultConfig()
			if g.logLevel != "" {
				cfg.Level = logging.ParseLevel(g.logLevel)
			}
			cfg.JSON = g.logJSON
			cfg.Output = cmd.ErrOrStderr()
			logging.Setup(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.FileName, "path to finewise.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "emit JSON logs")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReportCommand(g))
	rootCmd.AddCommand(newServeCommand(g))

	return rootCmd
}
