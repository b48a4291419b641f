package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hook-xyz/odyssey-go/pkg/healthprobe"
	"github.com/hook-xyz/odyssey-go/pkg/httpserver"
	"github.com/hook-xyz/odyssey-go/pkg/stream"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var watchCmd = &cobra.Command{
	Use:   "watch <symbol> [symbol...]",
	Short: "Stream market data for symbols, with health and metrics endpoints",
	Long: `Streams ticker and funding statistics for the given symbols over one
shared subscription session, and serves /health, /ready, and /metrics on
HTTP_PORT. Readiness follows the session state, so an outage flips the
probe until the session reconnects.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := healthprobe.New(func() (bool, string) {
		state := c.StreamState()
		return state == stream.StateActive, state.String()
	})
	server := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: checker,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	for _, symbol := range args {
		ticks, tickSub, err := c.SubscribeTicker(ctx, symbol)
		if err != nil {
			return fmt.Errorf("subscribe ticker %s: %w", symbol, err)
		}
		defer tickSub.Unsubscribe()

		stats, statsSub, err := c.SubscribeStatistics(ctx, symbol)
		if err != nil {
			return fmt.Errorf("subscribe statistics %s: %w", symbol, err)
		}
		defer statsSub.Unsubscribe()

		go watchSymbol(ctx, logger, symbol, ticks, stats)
	}

	logger.Info("watch-started",
		zap.Strings("symbols", args),
		zap.String("http-port", cfg.HTTPPort))

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http-shutdown-failed", zap.Error(err))
	}

	return nil
}

func watchSymbol(ctx context.Context, logger *zap.Logger, symbol string, ticks <-chan types.TickerEvent, stats <-chan types.StatisticsEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ticks:
			if !ok {
				return
			}
			logger.Info("tick",
				zap.String("symbol", symbol),
				zap.String("price", ev.Price.String()),
				zap.Int64("timestamp", ev.Timestamp))
		case ev, ok := <-stats:
			if !ok {
				return
			}
			logger.Info("funding",
				zap.String("symbol", symbol),
				zap.Int64("rate-bips", ev.FundingRateBips),
				zap.Int64("next-epoch", ev.NextFundingEpoch))
		}
	}
}
