// Package cmd holds the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hook-xyz/odyssey-go/internal/client"
	"github.com/hook-xyz/odyssey-go/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "odyssey",
	Short: "Client for the Odyssey perpetual futures venue",
	Long: `Client for the Odyssey perpetual futures venue.

Queries market and account state over the venue's GraphQL API, streams
market data over a persistent subscription session, and signs and submits
orders with a local key.

Configuration comes from the environment (or a .env file):
ODYSSEY_ENVIRONMENT selects testnet or mainnet, ODYSSEY_API_KEY unlocks
account-scoped operations, and ODYSSEY_PRIVATE_KEY enables order placement.`,
}

// Execute runs the root command. Called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and wires a client. Every command starts here.
func setup() (*config.Config, *zap.Logger, *client.Client, error) {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create logger: %w", err)
	}

	c, err := client.New(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create client: %w", err)
	}

	return cfg, logger, c, nil
}
