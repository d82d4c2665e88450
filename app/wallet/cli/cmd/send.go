package cmd

import (
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction from the account",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address to send to.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	if amount <= 0 {
		return errors.New("amount must be greater than zero")
	}

	from, err := loadAddress()
	if err != nil {
		return err
	}

	// The node verifies signatures keyed by the sender's address.
	tx := database.NewTx(from, to, amount)
	tx.Sign(from)

	resp, err := nodeClient().submit(tx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Message, resp.TransactionHash)
	return nil
}
