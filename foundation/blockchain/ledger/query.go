package ledger

import (
	"errors"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
)

// ErrBlockNotFound is returned when a block index is outside the chain.
var ErrBlockNotFound = errors.New("block not found")

// Stats represents summary information about the ledger.
type Stats struct {
	TotalBlocks         int     `json:"totalBlocks"`
	TotalTransactions   int     `json:"totalTransactions"`
	TotalAddresses      int     `json:"totalAddresses"`
	Difficulty          int     `json:"difficulty"`
	MiningReward        float64 `json:"miningReward"`
	PendingTransactions int     `json:"pendingTransactions"`
}

// Snapshot is the full exported state of a ledger.
type Snapshot struct {
	Chain               []database.Block   `json:"chain"`
	Difficulty          int                `json:"difficulty"`
	PendingTransactions []database.Tx      `json:"pendingTransactions"`
	MiningReward        float64            `json:"miningReward"`
	Balances            map[string]float64 `json:"balances"`
}

// =============================================================================

// Balance returns the confirmed balance for the address.
func (l *Ledger) Balance(address string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.accounts.Balance(address)
}

// Balances returns a copy of every confirmed balance.
func (l *Ledger) Balances() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.accounts.Copy()
}

// TransactionsForAddress returns every confirmed transaction where the address
// is the sender or receiver, in chain then block order.
func (l *Ledger) TransactionsForAddress(address string) []database.Tx {
	l.mu.Lock()
	defer l.mu.Unlock()

	trans := []database.Tx{}
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			if (!tx.IsReward() && tx.FromAddress == address) || tx.ToAddress == address {
				trans = append(trans, tx)
			}
		}
	}

	return trans
}

// Stats returns summary information about the ledger.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.stats()
}

// Chain returns a copy of the blocks in the chain.
func (l *Ledger) Chain() []database.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	return copyChain(l.chain)
}

// ChainAndStats returns the chain and the stats read under the same lock so
// they describe the same state.
func (l *Ledger) ChainAndStats() ([]database.Block, Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return copyChain(l.chain), l.stats()
}

// Block returns the block at the specified index.
func (l *Ledger) Block(index int) (database.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.chain) {
		return database.Block{}, ErrBlockNotFound
	}

	return copyBlock(l.chain[index]), nil
}

// LatestBlock returns the tip of the chain.
func (l *Ledger) LatestBlock() database.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	return copyBlock(l.chain[len(l.chain)-1])
}

// Pending returns the transactions waiting to be mined.
func (l *Ledger) Pending() []database.Tx {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mempool.Copy()
}

// Difficulty returns the current proof of work difficulty.
func (l *Ledger) Difficulty() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.difficulty
}

// Genesis returns the parameters the ledger was started with.
func (l *Ledger) Genesis() genesis.Genesis {
	return l.genesis
}

// MiningReward returns the amount credited to a miner per block.
func (l *Ledger) MiningReward() float64 {
	return l.miningReward
}

// Export returns the full state of the ledger.
func (l *Ledger) Export() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot{
		Chain:               copyChain(l.chain),
		Difficulty:          l.difficulty,
		PendingTransactions: l.mempool.Copy(),
		MiningReward:        l.miningReward,
		Balances:            l.accounts.Copy(),
	}
}

// =============================================================================

func (l *Ledger) stats() Stats {
	var trans int
	for _, block := range l.chain {
		trans += len(block.Transactions)
	}

	return Stats{
		TotalBlocks:         len(l.chain),
		TotalTransactions:   trans,
		TotalAddresses:      l.accounts.Count(),
		Difficulty:          l.difficulty,
		MiningReward:        l.miningReward,
		PendingTransactions: l.mempool.Count(),
	}
}

// copyBlock returns a block that shares no memory with the chain so
// appended blocks can't be changed through a returned value.
func copyBlock(block database.Block) database.Block {
	trans := make([]database.Tx, len(block.Transactions))
	copy(trans, block.Transactions)
	block.Transactions = trans

	return block
}

func copyChain(chain []database.Block) []database.Block {
	blocks := make([]database.Block, len(chain))
	for i, block := range chain {
		blocks[i] = copyBlock(block)
	}

	return blocks
}
