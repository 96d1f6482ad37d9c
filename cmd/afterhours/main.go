package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kidcare/afterhours/internal/shared/config"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the top-level "afterhours" command. Configuration is
// loaded from the environment before any subcommand runs.
func newRootCmd() *cobra.Command {
	var cfg *config.Config
	var logger *slog.Logger

	root := &cobra.Command{
		Use:           "afterhours",
		Short:         "Pediatric after-hours symptom triage service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))
			return nil
		},
	}

	env := func() (*config.Config, *slog.Logger) { return cfg, logger }

	root.AddCommand(
		newServeCmd(env),
		newProtocolsCmd(env),
		newClassifyCmd(),
		newMigrateCmd(env),
		newTokenCmd(env),
	)

	return root
}

// envFunc hands subcommands the configuration resolved by the root command.
type envFunc func() (*config.Config, *slog.Logger)
