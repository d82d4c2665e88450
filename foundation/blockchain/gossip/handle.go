package gossip

import (
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
)

// handleMessage processes a single inbound message. Nothing that goes wrong
// here is returned to the connection, bad messages are logged and dropped.
//
// Transactions and blocks received from a peer are relayed only. They are
// not added to the local ledger.
func (g *Gossip) handleMessage(from peer.Peer, data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		g.drop(from, err)
		return
	}

	switch msg.Type {
	case TypeRequestBlockchain:
		g.evHandler("gossip: handleMessage: peer[%s]: state requested", from)
		if err := g.sendState(from); err != nil {
			g.evHandler("gossip: handleMessage: peer[%s]: send state: ERROR: %s", from, err)
		}

	case TypeNewTransaction:
		var tx database.Tx
		if err := msg.ParsePayload(&tx); err != nil {
			g.drop(from, err)
			return
		}

		g.evHandler("gossip: handleMessage: peer[%s]: new transaction[%s]: relaying", from, tx)
		g.relay(data, from)

	case TypeNewBlock:
		var block database.Block
		if err := msg.ParsePayload(&block); err != nil {
			g.drop(from, err)
			return
		}

		g.evHandler("gossip: handleMessage: peer[%s]: new block[%s]: relaying", from, block.Hash)
		g.relay(data, from)

	case TypeBlockchainState:
		var state StatePayload
		if err := msg.ParsePayload(&state); err != nil {
			g.drop(from, err)
			return
		}

		g.evHandler("gossip: handleMessage: peer[%s]: blockchain state: blocks[%d]: pending[%d]", from, len(state.Chain), state.Stats.PendingTransactions)

	case TypeDifficultyChanged:
		var diff DifficultyPayload
		if err := msg.ParsePayload(&diff); err != nil {
			g.drop(from, err)
			return
		}

		g.evHandler("gossip: handleMessage: peer[%s]: difficulty changed[%d]", from, diff.Difficulty)

	default:
		g.dropped.Add(1)
		g.evHandler("gossip: handleMessage: peer[%s]: unknown message type[%s]: dropped", from, msg.Type)
	}
}

// drop records a message that could not be processed.
func (g *Gossip) drop(from peer.Peer, err error) {
	g.dropped.Add(1)
	g.evHandler("gossip: handleMessage: peer[%s]: DROPPED: %s", from, err)
}
