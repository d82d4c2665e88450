// Package worker implements mining requests, event sharing and peer
// connection upkeep for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
)

// defaultRedialInterval represents the interval of connecting to known peers
// this node has lost or never had a connection with.
const defaultRedialInterval = time.Minute

// EventHandler defines a function that is called when events
// occur in the background workflows.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the worker.
type Config struct {
	Ledger         *ledger.Ledger
	Gossip         *gossip.Gossip
	KnownPeers     []string // Hosts dialed at start and on every redial tick.
	RedialInterval time.Duration
	AutoMine       string // When set, new transactions are mined to this address.
	EvHandler      EventHandler
}

// =============================================================================

// Worker manages the background workflows for the blockchain.
type Worker struct {
	ledger       *ledger.Ledger
	gossip       *gossip.Gossip
	knownPeers   []string
	autoMine     string
	wg           sync.WaitGroup
	ticker       *time.Ticker
	ctx          context.Context
	cancel       context.CancelFunc
	shut         chan struct{}
	startMining  chan string
	eventSharing chan ledger.Event
	unsubscribe  func()
	evHandler    EventHandler
}

// Run creates a worker, subscribes the worker to the ledger events, and
// starts up all the background processes.
func Run(cfg Config) *Worker {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	interval := cfg.RedialInterval
	if interval <= 0 {
		interval = defaultRedialInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		ledger:       cfg.Ledger,
		gossip:       cfg.Gossip,
		knownPeers:   cfg.KnownPeers,
		autoMine:     cfg.AutoMine,
		ticker:       time.NewTicker(interval),
		ctx:          ctx,
		cancel:       cancel,
		shut:         make(chan struct{}),
		startMining:  make(chan string, 1),
		eventSharing: make(chan ledger.Event, maxEventShareRequests),
		evHandler:    ev,
	}

	// Every ledger event is queued for sharing with the peers. The ledger
	// calls the subscriber synchronously so it must never block.
	w.unsubscribe = cfg.Ledger.Subscribe(w.SignalShareEvent)

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.miningOperations,
		w.shareEventOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// Shutdown terminates the goroutines performing work. A mining operation in
// progress runs to completion first.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: unsubscribe from ledger")
	w.unsubscribe()

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	w.cancel()
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining requests a mining operation that pays the reward to the
// miner address. If there is already a request pending in the channel, this
// request is dropped since a mining operation will start.
func (w *Worker) SignalStartMining(minerAddress string) bool {
	select {
	case w.startMining <- minerAddress:
		w.evHandler("worker: SignalStartMining: mining signaled: miner[%s]", minerAddress)
		return true
	default:
		w.evHandler("worker: SignalStartMining: mining already pending")
		return false
	}
}

// SignalShareEvent queues a ledger event to be sent to the peers. If
// maxEventShareRequests signals exist in the channel, the event is dropped.
func (w *Worker) SignalShareEvent(evt ledger.Event) {
	select {
	case w.eventSharing <- evt:
		w.evHandler("worker: SignalShareEvent: share %s signaled", evt.Kind)
	default:
		w.evHandler("worker: SignalShareEvent: queue full, %s won't be shared", evt.Kind)
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
