package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hook-xyz/odyssey-go/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var orderbookCmd = &cobra.Command{
	Use:   "orderbook <instrument-hash>",
	Short: "Stream the order book for an instrument",
	RunE:  runOrderbook,
	Args:  cobra.ExactArgs(1),
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(orderbookCmd)
	orderbookCmd.Flags().Int("depth", 5, "Levels to print per side")
}

func runOrderbook(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	depth, _ := cmd.Flags().GetInt("depth")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, sub, err := c.SubscribeOrderbook(ctx, args[0])
	if err != nil {
		return fmt.Errorf("subscribe orderbook: %w", err)
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
			printBook(&ev, depth)
		}
	}
}

func printBook(ev *types.OrderbookEvent, depth int) {
	fmt.Printf("%s %s\n",
		time.Unix(ev.Timestamp, 0).UTC().Format(time.RFC3339),
		ev.EventType)

	for i, level := range ev.AskLevels {
		if i >= depth {
			break
		}
		fmt.Printf("  ask %s @ %s\n", level.Size, level.Price)
	}
	for i, level := range ev.BidLevels {
		if i >= depth {
			break
		}
		fmt.Printf("  bid %s @ %s\n", level.Size, level.Price)
	}
}
