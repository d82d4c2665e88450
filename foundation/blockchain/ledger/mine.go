package ledger

import (
	"fmt"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// MinePendingTransactions creates a new block from every pending transaction
// plus the reward for the miner, solves the proof of work, appends the block
// to the chain and applies it to the balances. Subscribers are notified with
// EventBlockMined once the block is part of the chain.
//
// The ledger is locked for the whole operation, no other operation can
// observe a partially applied block.
func (l *Ledger) MinePendingTransactions(minerAddress string) (database.Block, error) {
	if minerAddress == "" {
		return database.Block{}, fmt.Errorf("%w: miner address required", database.ErrInvalidTransaction)
	}

	block := l.mine(minerAddress)

	l.subscribers.notify(Event{Kind: EventBlockMined, Block: block})

	return block, nil
}

func (l *Ledger) mine(minerAddress string) database.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evHandler("ledger: MinePendingTransactions: MINING: started: pending[%d]: miner[%s]", l.mempool.Count(), minerAddress)
	defer l.evHandler("ledger: MinePendingTransactions: MINING: completed")

	trans := append(l.mempool.Copy(), database.NewRewardTx(minerAddress, l.miningReward))
	latest := l.chain[len(l.chain)-1]

	block := database.NewBlock(time.Now().UnixMilli(), trans, latest.Hash)
	block.Mine(l.difficulty, l.evHandler)

	l.evHandler("ledger: MinePendingTransactions: MINING: update local state: blk[%d]", len(l.chain))

	l.chain = append(l.chain, block)
	l.accounts.ApplyBlock(block)
	l.mempool.Truncate()

	return copyBlock(block)
}
