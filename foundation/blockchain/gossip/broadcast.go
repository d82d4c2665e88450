package gossip

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
)

// Broadcast sends the message to every connected peer. It returns the
// number of peers the message was written to.
func (g *Gossip) Broadcast(msg Message) (int, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("encoding %s message: %w", msg.Type, err)
	}

	n := g.write(data, "")
	g.broadcast.Add(1)
	g.evHandler("gossip: Broadcast: type[%s]: peers[%d]", msg.Type, n)

	return n, nil
}

// BroadcastTransaction sends a NEW_TRANSACTION message to every peer.
func (g *Gossip) BroadcastTransaction(tx database.Tx) (int, error) {
	msg, err := NewMessage(TypeNewTransaction, tx)
	if err != nil {
		return 0, err
	}
	return g.Broadcast(msg)
}

// BroadcastBlock sends a NEW_BLOCK message to every peer.
func (g *Gossip) BroadcastBlock(block database.Block) (int, error) {
	msg, err := NewMessage(TypeNewBlock, block)
	if err != nil {
		return 0, err
	}
	return g.Broadcast(msg)
}

// BroadcastDifficulty sends a DIFFICULTY_CHANGED message to every peer.
func (g *Gossip) BroadcastDifficulty(difficulty int) (int, error) {
	msg, err := NewMessage(TypeDifficultyChanged, DifficultyPayload{Difficulty: difficulty})
	if err != nil {
		return 0, err
	}
	return g.Broadcast(msg)
}

// Publish translates a ledger event into its peer message and broadcasts it.
func (g *Gossip) Publish(evt ledger.Event) (int, error) {
	switch evt.Kind {
	case ledger.EventTransactionAdded:
		return g.BroadcastTransaction(evt.Tx)
	case ledger.EventBlockMined:
		return g.BroadcastBlock(evt.Block)
	case ledger.EventDifficultyAdjusted:
		return g.BroadcastDifficulty(evt.Difficulty)
	}

	return 0, fmt.Errorf("unknown ledger event %q", evt.Kind)
}

// =============================================================================

// relay forwards the message as received to every peer except the sender.
func (g *Gossip) relay(data []byte, from peer.Peer) {
	n := g.write(data, from.ID)
	g.relayed.Add(1)
	g.evHandler("gossip: relay: from[%s]: peers[%d]", from, n)
}

// send marshals the message and writes it to a single peer.
func (g *Gossip) send(p peer.Peer, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := p.Send(data); err != nil {
		return err
	}
	g.sent.Add(1)

	return nil
}

// write sends the data to every open peer except the one with the specified
// id. A copy of the peer set is iterated so peers can connect and disconnect
// while this runs. Peers that are not open are skipped.
func (g *Gossip) write(data []byte, exceptID string) int {
	var n int
	for _, p := range g.peers.Copy(exceptID) {
		if !p.IsOpen() {
			continue
		}

		if err := p.Send(data); err != nil {
			g.evHandler("gossip: write: peer[%s]: WARNING: %s", p, err)
			continue
		}

		g.sent.Add(1)
		n++
	}

	return n
}
