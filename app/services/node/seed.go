package main

import (
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"go.uber.org/zap"
)

// seedTransactions mines a block that funds a new address and submits two
// transfers from it, signed with the address as the key.
func seedTransactions(log *zap.SugaredLogger, ldgr *ledger.Ledger) error {
	log.Infow("startup", "status", "creating seed transactions")

	names := []string{"alice", "bob", "charlie"}
	addresses := make(map[string]string, len(names))
	for _, name := range names {
		w, _, err := wallet.Generate()
		if err != nil {
			return err
		}
		addresses[name] = w.Address
	}

	alice := addresses["alice"]
	if _, err := ldgr.MinePendingTransactions(alice); err != nil {
		return fmt.Errorf("mining seed block: %w", err)
	}

	transfers := []struct {
		to     string
		amount float64
	}{
		{addresses["bob"], 30},
		{addresses["charlie"], 20},
	}

	for _, tr := range transfers {
		tx := database.NewTx(alice, tr.to, tr.amount)
		tx.Sign(alice)

		if err := ldgr.AddTransaction(tx); err != nil {
			return fmt.Errorf("adding seed transaction: %w", err)
		}
	}

	for _, name := range names {
		address := addresses[name]
		log.Infow("startup", "status", "seed address", "name", name, "address", address, "balance", ldgr.Balance(address))
	}

	return nil
}
