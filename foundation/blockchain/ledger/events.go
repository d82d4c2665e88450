package ledger

import (
	"sync"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// EventKind identifies what happened inside the ledger.
type EventKind string

// Set of notifications a ledger emits.
const (
	EventTransactionAdded   EventKind = "transactionAdded"
	EventBlockMined         EventKind = "blockMined"
	EventDifficultyAdjusted EventKind = "difficultyAdjusted"
)

// Event is delivered to subscribers after a mutation has committed. Only the
// field matching the kind is set.
type Event struct {
	Kind       EventKind
	Tx         database.Tx
	Block      database.Block
	Difficulty int
}

// Subscriber receives ledger events. A subscriber is called synchronously
// on the goroutine that performed the mutation, after the ledger lock has
// been released, and must not block for long.
type Subscriber func(evt Event)

// Subscribe registers the subscriber and returns a function that removes it.
func (l *Ledger) Subscribe(fn Subscriber) (unsubscribe func()) {
	return l.subscribers.add(fn)
}

// =============================================================================

type subscriber struct {
	id int
	fn Subscriber
}

// subscribers is the registered set of subscribers in registration order.
type subscribers struct {
	mu     sync.RWMutex
	nextID int
	list   []subscriber
}

func (s *subscribers) add(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.list {
			if sub.id == id {
				s.list = append(s.list[:i:i], s.list[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers) notify(evt Event) {
	s.mu.RLock()
	list := make([]subscriber, len(s.list))
	copy(list, s.list)
	s.mu.RUnlock()

	for _, sub := range list {
		sub.fn(evt)
	}
}
