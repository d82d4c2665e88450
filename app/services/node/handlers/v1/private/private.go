// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Ledger *ledger.Ledger
	Gossip *gossip.Gossip
	WS     websocket.Upgrader
	Host   string
}

// Peer upgrades the connection to a websocket and serves it as a peer until
// the connection closes.
func (h Handlers) Peer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }
	h.WS.HandshakeTimeout = 10 * time.Second

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	host := r.Header.Get(gossip.HostHeader)

	h.Log.Infow("peer connected", "traceid", v.TraceID, "remoteaddr", r.RemoteAddr, "host", host)
	defer h.Log.Infow("peer disconnected", "traceid", v.TraceID, "remoteaddr", r.RemoteAddr, "host", host)

	// The connection is hijacked, an error can't be written back to it.
	if err := h.Gossip.Accept(c, host); err != nil {
		switch {
		case errors.Is(err, gossip.ErrShutdown), errors.Is(err, gossip.ErrDuplicatePeer):
			h.Log.Infow("peer refused", "traceid", v.TraceID, "host", host, "reason", err)
		default:
			h.Log.Errorw("peer", "traceid", v.TraceID, "host", host, "ERROR", err)
		}
	}

	return nil
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.Ledger.LatestBlock()

	status := nodeStatus{
		Host:        h.Host,
		Genesis:     h.Ledger.Genesis(),
		LatestBlock: latest.Hash,
		Ledger:      h.Ledger.Stats(),
		Gossip:      h.Gossip.Stats(),
		Peers:       h.Gossip.Peers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

type nodeStatus struct {
	Host        string          `json:"host"`
	Genesis     genesis.Genesis `json:"genesis"`
	LatestBlock string          `json:"latestBlock"`
	Ledger      ledger.Stats    `json:"ledger"`
	Gossip      gossip.Stats    `json:"gossip"`
	Peers       []peer.Peer     `json:"peers"`
}
