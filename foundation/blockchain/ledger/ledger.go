// Package ledger is the core API for the blockchain and implements all the
// business rules and processing. A ledger owns the chain of blocks, the pool
// of pending transactions and the balances derived from the chain.
package ledger

import (
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/accounts"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start a ledger.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// Ledger manages the blockchain. Every exported method takes the same mutex
// and runs to completion, so no two operations on a ledger ever interleave.
// This includes mining, which holds the mutex for the whole nonce search.
type Ledger struct {
	mu           sync.Mutex
	evHandler    EventHandler
	genesis      genesis.Genesis
	chain        []database.Block
	difficulty   int
	miningReward float64

	mempool  *mempool.Mempool
	accounts *accounts.Accounts

	subscribers subscribers
}

// New constructs a ledger holding only the genesis block.
func New(cfg Config) *Ledger {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	genesisBlock := database.NewGenesisBlock()
	ev("ledger: New: genesis block created: hash[%s]", genesisBlock.Hash)

	l := Ledger{
		evHandler:    ev,
		genesis:      cfg.Genesis,
		chain:        []database.Block{genesisBlock},
		difficulty:   genesis.ClampDifficulty(cfg.Genesis.Difficulty),
		miningReward: cfg.Genesis.MiningReward,
		mempool:      mempool.New(),
		accounts:     accounts.New(),
	}

	ev("ledger: New: difficulty[%d]: mining reward[%v]", l.difficulty, l.miningReward)

	return &l
}

// AdjustDifficulty clamps the value into the supported range, stores it and
// notifies subscribers. The stored value is returned.
func (l *Ledger) AdjustDifficulty(difficulty int) int {
	l.mu.Lock()
	{
		l.difficulty = genesis.ClampDifficulty(difficulty)
		difficulty = l.difficulty
	}
	l.mu.Unlock()

	l.evHandler("ledger: AdjustDifficulty: difficulty[%d]", difficulty)
	l.subscribers.notify(Event{Kind: EventDifficultyAdjusted, Difficulty: difficulty})

	return difficulty
}
