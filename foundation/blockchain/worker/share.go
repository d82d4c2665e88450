package worker

import (
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
)

// maxEventShareRequests represents the max number of pending ledger events
// that can be outstanding before share requests are dropped. To keep this
// simple, a buffered channel of this arbitrary number is being used. If the
// channel does become full, new events will not be shared.
const maxEventShareRequests = 100

// =============================================================================

// shareEventOperations handles sharing ledger events with the peers.
func (w *Worker) shareEventOperations() {
	w.evHandler("worker: shareEventOperations: G started")
	defer w.evHandler("worker: shareEventOperations: G completed")

	for {
		select {
		case evt := <-w.eventSharing:
			if !w.isShutdown() {
				w.runShareEventOperation(evt)
			}
		case <-w.shut:
			w.evHandler("worker: shareEventOperations: received shut signal")
			return
		}
	}
}

// runShareEventOperation broadcasts the event to every connected peer.
func (w *Worker) runShareEventOperation(evt ledger.Event) {
	n, err := w.gossip.Publish(evt)
	if err != nil {
		w.evHandler("worker: runShareEventOperation: WARNING: %s", err)
		return
	}

	w.evHandler("worker: runShareEventOperation: %s shared: peers[%d]", evt.Kind, n)

	if evt.Kind == ledger.EventTransactionAdded && w.autoMine != "" {
		w.SignalStartMining(w.autoMine)
	}
}
