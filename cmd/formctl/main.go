package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mecahub-backend/config"
	"mecahub-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	apiURL  string
	dbURL   string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:           "formctl",
	Short:         "Submit MecaHUB lead forms and export recorded leads",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("NO_COLOR") != "" {
			noColor = true
		}
		// the CLI reports through its own output; keep library logs quiet
		logger.Init("warn")

		// config warnings are about the API server, not the CLI
		log.SetOutput(io.Discard)
		cfg, err := config.LoadConfig()
		log.SetOutput(os.Stderr)
		if err != nil {
			return err
		}
		if apiURL == "" {
			apiURL = cfg.APIBaseURL
		}
		if dbURL == "" {
			dbURL = cfg.DBUrl
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "base URL of the forms API (default $API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Postgres URL for lead records (default $DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(submitCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
