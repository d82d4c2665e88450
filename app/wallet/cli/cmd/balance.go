package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the confirmed balance of the account or the given address",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	var address string
	switch len(args) {
	case 1:
		address = args[0]
	default:
		var err error
		if address, err = loadAddress(); err != nil {
			return err
		}
	}

	bal, err := nodeClient().balance(address)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", bal.Name, bal.Balance)
	return nil
}
