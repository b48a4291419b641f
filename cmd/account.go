package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the account's fee tier",
	RunE:  runAccount,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	_, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
		_ = logger.Sync()
	}()

	details, err := c.AccountDetails(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch account details: %w", err)
	}

	fmt.Printf("tier:      %s\n", details.Tier)
	fmt.Printf("maker fee: %d bips\n", details.MakerFeeBips)
	fmt.Printf("taker fee: %d bips\n", details.TakerFeeBips)

	if addr, ok := c.SignerAddress(); ok {
		fmt.Printf("signer:    %s\n", addr)
	}

	return nil
}
