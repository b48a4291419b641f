package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var cancelOrderCmd = &cobra.Command{
	Use:   "cancel-order <order-hash>",
	Short: "Cancel a resting order by hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelOrder,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(cancelOrderCmd)
}

func runCancelOrder(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	ok, err := c.CancelOrder(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if !ok {
		return fmt.Errorf("venue declined cancellation of %s", args[0])
	}

	fmt.Printf("order canceled: %s\n", args[0])
	return nil
}
