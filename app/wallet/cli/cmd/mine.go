package cmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine [miner address]",
	Short: "Mine the pending transactions, paying the reward to the account or the given address",
	Args:  cobra.MaximumNArgs(1),
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var miner string
	switch len(args) {
	case 1:
		miner = args[0]
	default:
		var err error
		if miner, err = loadAddress(); err != nil {
			return err
		}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Mining block..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bar.Add(1)
			case <-done:
				return
			}
		}
	}()

	resp, err := nodeClient().mine(miner)
	close(done)
	bar.Finish()

	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: hash[%s] nonce[%d] transactions[%d] reward[%v]\n",
		resp.Message, resp.Block.Hash, resp.Block.Nonce, len(resp.Block.Transactions), resp.Reward)
	return nil
}
