package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hook-xyz/odyssey-go/internal/client"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Show a subaccount's transfer history",
	RunE:  runTransfers,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(transfersCmd)
	transfersCmd.Flags().String("subaccount", "", "Subaccount to query (required)")
	transfersCmd.Flags().String("market-hash", "", "Restrict to one market")
	transfersCmd.Flags().String("type", "", "Restrict to one transfer type (TRANSFER, TRADE, FUNDING, SETTLEMENT, LIQUIDATION)")
	transfersCmd.Flags().String("cursor", "", "Page cursor from a previous call")
	_ = transfersCmd.MarkFlagRequired("subaccount")
}

func runTransfers(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	subaccount, _ := cmd.Flags().GetString("subaccount")
	marketHash, _ := cmd.Flags().GetString("market-hash")
	transferType, _ := cmd.Flags().GetString("type")
	cursor, _ := cmd.Flags().GetString("cursor")

	history, err := c.TransferHistory(cmd.Context(), subaccount, &client.TransferHistoryOptions{
		MarketHash:   marketHash,
		TransferType: types.TransferType(transferType),
		Cursor:       cursor,
	})
	if err != nil {
		return fmt.Errorf("fetch transfer history: %w", err)
	}

	for _, item := range history.Data {
		fmt.Printf("%s  %-12s %-10s amount=%s fees=%s  %s\n",
			time.Unix(item.Timestamp, 0).UTC().Format(time.RFC3339),
			item.Type,
			item.Symbol,
			item.Amount,
			item.Fees,
			item.TransactionHash)
	}
	if history.Cursor != "" {
		fmt.Printf("next cursor: %s\n", history.Cursor)
	}

	return nil
}
