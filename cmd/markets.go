package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List the venue's perpetual markets",
	RunE:  runMarkets,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(marketsCmd)
}

func runMarkets(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	pairs, err := c.PerpetualPairs(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch markets: %w", err)
	}

	for _, p := range pairs {
		fmt.Printf("%-12s %s\n", p.Symbol, p.MarketHash)
		fmt.Printf("  instrument:     %s\n", p.InstrumentHash)
		fmt.Printf("  base currency:  %s\n", p.BaseCurrency)
		fmt.Printf("  order size:     %s .. %s (step %s)\n",
			p.MinOrderSize, p.MaxOrderSize, p.MinOrderSizeIncrement)
		fmt.Printf("  price step:     %s\n", p.MinPriceIncrement)
		fmt.Printf("  initial margin: %d bips\n", p.InitialMarginBips)
	}

	return nil
}
