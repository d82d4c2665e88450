package worker

import (
	"time"
)

// miningOperations handles mining requests.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case minerAddress := <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation(minerAddress)
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines every pending transaction into a new block. The
// ledger notifies its subscribers of the block, which shares it with the
// peers.
func (w *Worker) runMiningOperation(minerAddress string) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	t := time.Now()
	block, err := w.ledger.MinePendingTransactions(minerAddress)
	duration := time.Since(t)

	if err != nil {
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: block[%s]: trans[%d]: duration[%v]", block.Hash, len(block.Transactions), duration)

	// Transactions that arrived while mining wait for the next block.
	if w.autoMine != "" {
		if n := w.ledger.Stats().PendingTransactions; n > 0 {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: Txs[%d]", n)
			w.SignalStartMining(w.autoMine)
		}
	}
}
