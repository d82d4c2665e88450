// Package accounts maintains the account balances derived from the
// transactions recorded on the blockchain.
package accounts

import (
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// Accounts manages the balance of every address that has transacted on
// the blockchain. Balances are only changed by replaying mined blocks.
type Accounts struct {
	balances map[string]float64
	mu       sync.RWMutex
}

// New constructs an empty set of accounts.
func New() *Accounts {
	return &Accounts{
		balances: make(map[string]float64),
	}
}

// Balance returns the balance for the address, 0 when the address has
// never transacted.
func (act *Accounts) Balance(address string) float64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return act.balances[address]
}

// Count returns the number of distinct addresses with a balance entry.
func (act *Accounts) Count() int {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return len(act.balances)
}

// Copy makes a copy of the current balances.
func (act *Accounts) Copy() map[string]float64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	balances := make(map[string]float64, len(act.balances))
	for addr, balance := range act.balances {
		balances[addr] = balance
	}
	return balances
}

// ApplyBlock replays the block's transactions in order. Each one debits the
// sender and credits the receiver, reward transactions only credit. No
// balance check happens here, admission into the mempool is where funds
// are checked.
func (act *Accounts) ApplyBlock(block database.Block) {
	act.mu.Lock()
	defer act.mu.Unlock()

	for _, tx := range block.Transactions {
		if !tx.IsReward() {
			act.balances[tx.FromAddress] -= tx.Amount
		}
		act.balances[tx.ToAddress] += tx.Amount
	}
}
