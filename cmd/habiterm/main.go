package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fentz26/habiterm/internal/config"
	"github.com/fentz26/habiterm/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "habiterm",
	Short: "habiterm - Habitica in your terminal",
	Long:  `habiterm browses, scores, edits and imports Habitica tasks from the terminal. Run without a subcommand to open the TUI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		cfg = c
		l := logger.New(&logger.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr(), JSON: cfg.LogFormat == "json"})
		cmd.SetContext(logger.ContextWithLogger(cmd.Context(), l))

		if offlineCommands[cmd.Name()] || isDryRun(cmd) {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "habiterm: %v\n", err)
			if errors.Is(err, config.ErrMissingCredentials) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Set %s and %s env variables (or add them to .env).\n", config.EnvUserID, config.EnvAPIToken)
			}
			exit(1)
			return err
		}
		return nil
	},
	RunE:         runTUI,
	SilenceUsage: true,
}

// Commands that never talk to the Habitica API.
var offlineCommands = map[string]bool{
	"history":    true,
	"help":       true,
	"completion": true,
}

var (
	configFile string
	envFile    string

	cfg *config.Config

	// exit is swapped in tests.
	exit = os.Exit
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.habiterm/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default ./.env)")
	rootCmd.Flags().StringVar(&startCategory, "category", "todos", "Category shown at startup (habits, dailys, todos, rewards)")

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
}

func isDryRun(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("dry-run")
	return f != nil && f.Value.String() == "true"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
