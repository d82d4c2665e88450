package ledger

// IsChainValid walks the chain from the first block after genesis and checks
// every block's transactions, stored hash and link to its parent. It never
// fails, a violation is reported as false.
func (l *Ledger) IsChainValid() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := 1; i < len(l.chain); i++ {
		current := l.chain[i]
		previous := l.chain[i-1]

		if !current.HasValidTransactions() {
			l.evHandler("ledger: IsChainValid: blk[%d]: block has invalid transactions", i)
			return false
		}

		if current.Hash != current.Digest() {
			l.evHandler("ledger: IsChainValid: blk[%d]: block hash is invalid", i)
			return false
		}

		if current.PreviousHash != previous.Hash {
			l.evHandler("ledger: IsChainValid: blk[%d]: previous hash doesn't match", i)
			return false
		}
	}

	l.evHandler("ledger: IsChainValid: chain is valid: blocks[%d]", len(l.chain))

	return true
}
