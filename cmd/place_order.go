package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hook-xyz/odyssey-go/pkg/fixedpoint"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var placeOrderCmd = &cobra.Command{
	Use:   "place-order",
	Short: "Sign and submit an order",
	Long: `Signs an order with the configured private key and submits it.

Sizes and prices are human scale decimals with at most 18 fractional
digits, e.g. --size 0.5 --price 1850.25.`,
	RunE: runPlaceOrder,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(placeOrderCmd)
	placeOrderCmd.Flags().String("market", "", "Market hash (required)")
	placeOrderCmd.Flags().String("instrument", "", "Instrument hash (required)")
	placeOrderCmd.Flags().Uint64("subaccount", 0, "Subaccount (required)")
	placeOrderCmd.Flags().String("type", "LIMIT", "Order type: LIMIT or MARKET")
	placeOrderCmd.Flags().String("direction", "", "BUY or SELL (required)")
	placeOrderCmd.Flags().String("size", "", "Order size (required)")
	placeOrderCmd.Flags().String("price", "", "Limit price, required for LIMIT orders")
	placeOrderCmd.Flags().String("tif", "GTC", "Time in force: GTC or GTD")
	placeOrderCmd.Flags().Int64("expiration", 0, "Expiration unix timestamp, for GTD orders")
	placeOrderCmd.Flags().Uint64("nonce", 0, "Order nonce")
	placeOrderCmd.Flags().Bool("post-only", false, "Reject if the order would cross the book")
	placeOrderCmd.Flags().Bool("reduce-only", false, "Only reduce an existing position")
	_ = placeOrderCmd.MarkFlagRequired("market")
	_ = placeOrderCmd.MarkFlagRequired("instrument")
	_ = placeOrderCmd.MarkFlagRequired("subaccount")
	_ = placeOrderCmd.MarkFlagRequired("direction")
	_ = placeOrderCmd.MarkFlagRequired("size")
}

func runPlaceOrder(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	market, _ := cmd.Flags().GetString("market")
	instrument, _ := cmd.Flags().GetString("instrument")
	subaccount, _ := cmd.Flags().GetUint64("subaccount")
	orderType, _ := cmd.Flags().GetString("type")
	direction, _ := cmd.Flags().GetString("direction")
	sizeStr, _ := cmd.Flags().GetString("size")
	priceStr, _ := cmd.Flags().GetString("price")
	tif, _ := cmd.Flags().GetString("tif")
	nonce, _ := cmd.Flags().GetUint64("nonce")
	postOnly, _ := cmd.Flags().GetBool("post-only")
	reduceOnly, _ := cmd.Flags().GetBool("reduce-only")

	size, err := fixedpoint.ParseDecimal(sizeStr)
	if err != nil {
		return fmt.Errorf("parse size: %w", err)
	}

	var limitPrice *decimal.Decimal
	if priceStr != "" {
		price, err := fixedpoint.ParseDecimal(priceStr)
		if err != nil {
			return fmt.Errorf("parse price: %w", err)
		}
		limitPrice = &price
	}

	var expiration *int64
	if cmd.Flags().Changed("expiration") {
		exp, _ := cmd.Flags().GetInt64("expiration")
		expiration = &exp
	}

	order, err := types.NewPlaceOrderInput(types.OrderParams{
		MarketHash:     market,
		InstrumentHash: instrument,
		Subaccount:     subaccount,
		OrderType:      types.OrderType(strings.ToUpper(orderType)),
		Direction:      types.OrderDirection(strings.ToUpper(direction)),
		Size:           size,
		LimitPrice:     limitPrice,
		TimeInForce:    types.TimeInForce(strings.ToUpper(tif)),
		Expiration:     expiration,
		Nonce:          nonce,
		PostOnly:       postOnly,
		ReduceOnly:     reduceOnly,
	})
	if err != nil {
		return fmt.Errorf("build order: %w", err)
	}

	orderHash, err := c.PlaceOrder(cmd.Context(), order)
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}

	fmt.Printf("order placed: %s\n", orderHash)
	return nil
}
