package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"golang.org/x/sync/errgroup"
)

const (
	// maxConcurrentDials bounds the number of peers dialed at the same time.
	maxConcurrentDials = 8

	// dialTimeout bounds a single redial pass.
	dialTimeout = 10 * time.Second
)

// peerOperations handles connecting to the known peers.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	// Connect to the known peers before waiting on the first tick.
	w.runPeersOperation()

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runPeersOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeersOperation dials every known peer that is not connected.
func (w *Worker) runPeersOperation() {
	if len(w.knownPeers) == 0 {
		return
	}

	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	ctx, cancel := context.WithTimeout(w.ctx, dialTimeout)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(maxConcurrentDials)

	// The gossip host is this node, it's never dialed.
	self := w.gossip.Host()

	for _, host := range w.knownPeers {
		if host == self || w.gossip.IsConnected(host) {
			continue
		}

		g.Go(func() error {
			err := w.gossip.Dial(ctx, host)
			if errors.Is(err, gossip.ErrDuplicatePeer) {
				w.evHandler("worker: runPeersOperation: dial[%s]: already linked", host)
				return nil
			}
			if err != nil {
				w.evHandler("worker: runPeersOperation: dial[%s]: ERROR: %s", host, err)
				return err
			}

			w.evHandler("worker: runPeersOperation: dial[%s]: connected", host)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		w.evHandler("worker: runPeersOperation: WARNING: not every peer connected: %s", err)
	}
}
