// Package mempool maintains the pool of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// Mempool represents the ordered set of pending transactions. Insertion
// order is kept since it becomes the order inside the mined block.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the pending transactions in insertion order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
