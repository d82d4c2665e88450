package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new private key and print its address",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := privateKeyPath()
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("key file %s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "creating account path")
	}

	w, privateKey, err := wallet.Generate()
	if err != nil {
		return err
	}

	if err := wallet.Save(path, privateKey); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), w.Address)
	return nil
}
