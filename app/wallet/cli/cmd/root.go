// Package cmd contains the wallet commands.
package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Keys of the settings shared by every command. Each can be set by flag or
// by a WALLET_ prefixed environment variable.
const (
	keyAccount     = "account"
	keyAccountPath = "account-path"
	keyURL         = "url"
	keyTimeout     = "timeout"
)

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Simple wallet for a gossipchain node",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP(keyAccount, "a", "private", "Name of the private key file.")
	rootCmd.PersistentFlags().StringP(keyAccountPath, "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringP(keyURL, "u", "http://localhost:3001", "Url of the node.")
	rootCmd.PersistentFlags().Duration(keyTimeout, 10*time.Minute, "Timeout for a single call to the node.")

	for _, key := range []string{keyAccount, keyAccountPath, keyURL, keyTimeout} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

func initConfig() {
	viper.SetEnvPrefix("WALLET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the wallet.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// privateKeyPath returns the path of the configured private key file.
func privateKeyPath() string {
	name := viper.GetString(keyAccount)
	if !strings.HasSuffix(name, wallet.KeyExtension) {
		name += wallet.KeyExtension
	}

	return filepath.Join(viper.GetString(keyAccountPath), name)
}

// loadAddress returns the address of the configured private key.
func loadAddress() (string, error) {
	privateKey, err := wallet.Load(privateKeyPath())
	if err != nil {
		return "", err
	}

	return wallet.Address(privateKey.PublicKey), nil
}

// nodeClient returns a client for the configured node.
func nodeClient() *client {
	return newClient(viper.GetString(keyURL), viper.GetDuration(keyTimeout))
}
