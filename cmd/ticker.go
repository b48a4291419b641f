package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var tickerCmd = &cobra.Command{
	Use:   "ticker <symbol>",
	Short: "Stream last-price ticks for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicker,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tickerCmd)
}

func runTicker(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, sub, err := c.SubscribeTicker(ctx, args[0])
	if err != nil {
		return fmt.Errorf("subscribe ticker: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return sub.Err()
			}
			fmt.Printf("%s  %s  %s\n",
				time.Unix(ev.Timestamp, 0).UTC().Format(time.RFC3339),
				args[0],
				ev.Price)
		}
	}
}
