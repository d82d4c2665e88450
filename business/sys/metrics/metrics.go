// Package metrics constructs the metrics the node exposes to prometheus.
package metrics

import (
	"net/http"
	"runtime"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gossipchain"

// Metrics holds the collectors for the node. Each node owns its registry so
// nothing registered by a dependency leaks into the output.
type Metrics struct {
	registry *prometheus.Registry
	requests prometheus.Counter
	errors   prometheus.Counter
	panics   prometheus.Counter
}

// New constructs the metrics with the request counters and the go runtime
// collectors registered.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of http requests handled.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Number of http requests that returned an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Number of http requests that panicked.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.errors,
		m.panics,
		collectors.NewGoCollector(),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Number of goroutines that currently exist.",
		}, func() float64 { return float64(runtime.NumGoroutine()) }),
	)

	return &m
}

// AddRequests increments the request counter.
func (m *Metrics) AddRequests() {
	m.requests.Inc()
}

// AddErrors increments the error counter.
func (m *Metrics) AddErrors() {
	m.errors.Inc()
}

// AddPanics increments the panic counter.
func (m *Metrics) AddPanics() {
	m.panics.Inc()
}

// RegisterLedger exposes the ledger statistics. The function is called on
// every scrape.
func (m *Metrics) RegisterLedger(stats func() ledger.Stats) {
	gauge := func(name string, help string, fn func(ledger.Stats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      name,
			Help:      help,
		}, func() float64 { return fn(stats()) })
	}

	m.registry.MustRegister(
		gauge("blocks", "Number of blocks in the chain.", func(s ledger.Stats) float64 { return float64(s.TotalBlocks) }),
		gauge("transactions", "Number of confirmed transactions.", func(s ledger.Stats) float64 { return float64(s.TotalTransactions) }),
		gauge("addresses", "Number of addresses holding a balance.", func(s ledger.Stats) float64 { return float64(s.TotalAddresses) }),
		gauge("pending_transactions", "Number of transactions waiting to be mined.", func(s ledger.Stats) float64 { return float64(s.PendingTransactions) }),
		gauge("difficulty", "Number of leading zeros a block hash requires.", func(s ledger.Stats) float64 { return float64(s.Difficulty) }),
	)
}

// RegisterGossip exposes the peer protocol statistics. The function is
// called on every scrape.
func (m *Metrics) RegisterGossip(stats func() gossip.Stats) {
	counter := func(name string, help string, fn func(gossip.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(fn(stats())) })
	}

	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "peers",
			Help:      "Number of connected peers.",
		}, func() float64 { return float64(stats().Peers) }),
		counter("messages_sent_total", "Number of messages written to peers.", func(s gossip.Stats) uint64 { return s.Sent }),
		counter("messages_relayed_total", "Number of peer messages relayed to the other peers.", func(s gossip.Stats) uint64 { return s.Relayed }),
		counter("messages_dropped_total", "Number of peer messages that could not be processed.", func(s gossip.Stats) uint64 { return s.Dropped }),
		counter("broadcasts_total", "Number of local events broadcast to the peers.", func(s gossip.Stats) uint64 { return s.Broadcast }),
	)
}

// Handler returns the http handler serving the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
