// Package peer maintains the set of peers this node currently holds an
// open connection with.
package peer

import (
	"sync"
	"time"
)

// Conn represents the behavior required of a connection to a peer.
type Conn interface {
	Send(data []byte) error
	IsOpen() bool
	Close() error
}

// Peer represents a connected node in the network.
type Peer struct {
	ID          string    `json:"id"`
	Host        string    `json:"host"`
	Inbound     bool      `json:"inbound"`
	DialedBy    string    `json:"dialed_by,omitempty"` // Host of the node that opened the link.
	ConnectedAt time.Time `json:"connected_at"`
	conn        Conn
}

// New constructs a peer bound to its connection.
func New(id string, host string, inbound bool, conn Conn) Peer {
	return Peer{
		ID:          id,
		Host:        host,
		Inbound:     inbound,
		ConnectedAt: time.Now().UTC(),
		conn:        conn,
	}
}

// Match validates if the specified host matches this peer.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// IsOpen reports whether the connection can still be written to.
func (p Peer) IsOpen() bool {
	return p.conn != nil && p.conn.IsOpen()
}

// Send writes the data to the peer's connection.
func (p Peer) Send(data []byte) error {
	return p.conn.Send(data)
}

// Close closes the peer's connection.
func (p Peer) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// String implements the fmt.Stringer interface for logging.
func (p Peer) String() string {
	if p.Host == "" {
		return p.ID
	}
	return p.ID + "@" + p.Host
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of
// connected peers keyed by peer id.
type PeerSet struct {
	mu  sync.RWMutex
	set map[string]Peer
}

// NewPeerSet constructs a new set to manage connected peers.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[string]Peer),
	}
}

// Add adds a new peer to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer.ID]
	if !exists {
		ps.set[peer.ID] = peer
		return true
	}

	return false
}

// AddUnique adds the peer unless a peer for the same host is already in the
// set. When two nodes dial each other, both ends keep the link opened by the
// node with the lower host, so exactly one link survives. Peers that don't
// know who opened the link are added as is. A peer displaced by the new one
// is returned so the caller can close it.
func (ps *PeerSet) AddUnique(peer Peer) (displaced []Peer, added bool) {
	if peer.Host == "" || peer.DialedBy == "" {
		return nil, ps.Add(peer)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[peer.ID]; exists {
		return nil, false
	}

	for id, existing := range ps.set {
		if !existing.Match(peer.Host) || existing.DialedBy == "" {
			continue
		}

		if peer.DialedBy > existing.DialedBy {
			return nil, false
		}

		delete(ps.set, id)
		displaced = append(displaced, existing)
	}

	ps.set[peer.ID] = peer

	return displaced, true
}

// Remove removes a peer from the set.
func (ps *PeerSet) Remove(id string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, id)
}

// Len returns the number of peers in the set.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// HasHost reports whether a peer with the specified host is in the set.
func (ps *PeerSet) HasHost(host string) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, peer := range ps.set {
		if peer.Match(host) {
			return true
		}
	}

	return false
}

// Copy returns a list of the peers excluding the peer with the specified id.
// Callers iterate the copy so connections can come and go meanwhile.
func (ps *PeerSet) Copy(exceptID string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for id, peer := range ps.set {
		if id != exceptID {
			peers = append(peers, peer)
		}
	}

	return peers
}
