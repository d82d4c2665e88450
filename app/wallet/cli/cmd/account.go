package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address for the private key",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	address, err := loadAddress()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), address)
	return nil
}
