// Package gossip implements the peer protocol that propagates ledger events
// to every directly connected peer. Delivery is best effort: nothing is
// queued or retried, and messages are not deduplicated. Two nodes keep at
// most one link between them, but a ring of three or more nodes relays a
// message around the ring forever, so the peer graph has to be acyclic.
package gossip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/peer"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// DefaultPath is the http path peers accept websocket connections on.
const DefaultPath = "/v1/peer"

// HostHeader carries the host a dialing node accepts peers on, so the
// accepting node knows the link is to that host.
const HostHeader = "X-Peer-Host"

// Set of errors returned when a connection can't be served.
var (
	ErrShutdown      = errors.New("gossip is shut down")
	ErrDuplicatePeer = errors.New("already connected to peer")
)

// EventHandler defines a function that is called when events
// occur in the processing of peer messages.
type EventHandler func(v string, args ...any)

// State represents the ledger behavior required to answer state requests.
type State interface {
	ChainAndStats() ([]database.Block, ledger.Stats)
}

// Config represents the configuration required to run the peer protocol.
type Config struct {
	State        State
	EvHandler    EventHandler
	Host         string        // Host this node accepts peers on, sent when dialing.
	Path         string        // Path dialed on remote peers.
	WriteTimeout time.Duration // Deadline for a single write to a peer.
	MessageRate  rate.Limit    // Inbound messages per second accepted from one peer.
	MessageBurst int
}

// Stats represents counters about the peer protocol.
type Stats struct {
	Peers     int    `json:"peers"`
	Sent      uint64 `json:"sent"`
	Relayed   uint64 `json:"relayed"`
	Dropped   uint64 `json:"dropped"`
	Broadcast uint64 `json:"broadcast"`
}

// Gossip manages the connected peers and the messages flowing between them.
type Gossip struct {
	state        State
	evHandler    EventHandler
	host         string
	path         string
	writeTimeout time.Duration
	messageRate  rate.Limit
	messageBurst int
	dialer       websocket.Dialer

	peers *peer.PeerSet

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	shutdown bool

	sent      atomic.Uint64
	relayed   atomic.Uint64
	dropped   atomic.Uint64
	broadcast atomic.Uint64
}

// New constructs the peer protocol for the specified ledger state.
func New(cfg Config) *Gossip {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	messageRate := cfg.MessageRate
	if messageRate <= 0 {
		messageRate = rate.Inf
	}

	messageBurst := cfg.MessageBurst
	if messageBurst <= 0 {
		messageBurst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Gossip{
		state:        cfg.State,
		evHandler:    ev,
		host:         cfg.Host,
		path:         path,
		writeTimeout: cfg.WriteTimeout,
		messageRate:  messageRate,
		messageBurst: messageBurst,
		dialer: websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		peers:  peer.NewPeerSet(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Accept takes an upgraded inbound connection, sends it the current state of
// the chain and serves it until the connection closes. The host is the one
// the remote node advertised in HostHeader, empty if it sent none. The call
// blocks for the lifetime of the connection.
func (g *Gossip) Accept(ws *websocket.Conn, host string) error {
	c := newWSConn(ws, g.writeTimeout)

	if !g.track() {
		c.Close()
		return ErrShutdown
	}
	defer g.wg.Done()

	p := peer.New(uuid.NewString(), host, true, c)
	p.DialedBy = host
	if host == "" {
		p.Host = ws.RemoteAddr().String()
	}

	if !g.register(p) {
		c.Close()
		return ErrDuplicatePeer
	}

	// Shutdown may have copied the peer set before this peer was added.
	if g.ctx.Err() != nil {
		c.Close()
	}

	if err := g.sendState(p); err != nil {
		g.evHandler("gossip: Accept: peer[%s]: send state: ERROR: %s", p, err)
	}

	g.serve(p, c)

	return nil
}

// Dial opens an outbound connection to the peer at host and serves it in
// the background. ErrDuplicatePeer is returned when a link with the host
// already exists.
func (g *Gossip) Dial(ctx context.Context, host string) error {
	if g.ctx.Err() != nil {
		return ErrShutdown
	}

	u := url.URL{Scheme: "ws", Host: host, Path: g.path}

	var header http.Header
	if g.host != "" {
		header = http.Header{HostHeader: []string{g.host}}
	}

	ws, _, err := g.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", u.String(), err)
	}

	c := newWSConn(ws, g.writeTimeout)

	if !g.track() {
		c.Close()
		return ErrShutdown
	}

	p := peer.New(uuid.NewString(), host, false, c)
	p.DialedBy = g.host

	if !g.register(p) {
		g.wg.Done()
		c.Close()
		return ErrDuplicatePeer
	}

	if g.ctx.Err() != nil {
		c.Close()
	}

	go func() {
		defer g.wg.Done()
		g.serve(p, c)
	}()

	return nil
}

// Shutdown closes every peer connection and waits for every connection
// being served to terminate.
func (g *Gossip) Shutdown() {
	g.evHandler("gossip: Shutdown: started")
	defer g.evHandler("gossip: Shutdown: completed")

	g.mu.Lock()
	g.shutdown = true
	g.mu.Unlock()

	g.cancel()

	for _, p := range g.peers.Copy("") {
		p.Close()
	}

	g.wg.Wait()
}

// Host returns the host this node accepts peers on.
func (g *Gossip) Host() string {
	return g.host
}

// Peers returns the currently connected peers.
func (g *Gossip) Peers() []peer.Peer {
	return g.peers.Copy("")
}

// IsConnected reports whether a connection to the host is open.
func (g *Gossip) IsConnected(host string) bool {
	return g.peers.HasHost(host)
}

// Stats returns the counters for the peer protocol.
func (g *Gossip) Stats() Stats {
	return Stats{
		Peers:     g.peers.Len(),
		Sent:      g.sent.Load(),
		Relayed:   g.relayed.Load(),
		Dropped:   g.dropped.Load(),
		Broadcast: g.broadcast.Load(),
	}
}

// =============================================================================

// track counts a connection that Shutdown has to wait for. It reports false
// once Shutdown has started.
func (g *Gossip) track() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.shutdown {
		return false
	}
	g.wg.Add(1)

	return true
}

// register adds the peer to the set of connected peers. A second link to
// the same host is refused, or replaces the existing one, so a pair of
// nodes never shares more than one link.
func (g *Gossip) register(p peer.Peer) bool {
	displaced, added := g.peers.AddUnique(p)
	if !added {
		g.evHandler("gossip: register: peer[%s]: dialed by[%s]: duplicate link refused", p, p.DialedBy)
		return false
	}

	for _, old := range displaced {
		g.evHandler("gossip: register: peer[%s]: dialed by[%s]: replaced by link dialed by[%s]", old, old.DialedBy, p.DialedBy)
		old.Close()
	}

	g.evHandler("gossip: register: peer connected[%s]: inbound[%v]: peers[%d]", p, p.Inbound, g.peers.Len())

	return true
}

// serve reads messages from the peer until the connection fails.
func (g *Gossip) serve(p peer.Peer, c *wsConn) {
	defer func() {
		g.peers.Remove(p.ID)
		c.Close()
		g.evHandler("gossip: serve: peer disconnected[%s]: peers[%d]", p, g.peers.Len())
	}()

	limiter := rate.NewLimiter(g.messageRate, g.messageBurst)

	for {
		data, err := c.read()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && g.ctx.Err() == nil {
				g.evHandler("gossip: serve: peer[%s]: read: %s", p, err)
			}
			return
		}

		if err := limiter.Wait(g.ctx); err != nil {
			return
		}

		g.handleMessage(p, data)
	}
}

// sendState sends the chain and stats to a single peer.
func (g *Gossip) sendState(p peer.Peer) error {
	chain, stats := g.state.ChainAndStats()

	msg, err := NewMessage(TypeBlockchainState, StatePayload{Chain: chain, Stats: stats})
	if err != nil {
		return err
	}

	return g.send(p, msg)
}
