// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/ardanlabs/gossipchain/app/services/node/handlers/debug/checkgrp"
	v1 "github.com/ardanlabs/gossipchain/app/services/node/handlers/v1"
	"github.com/ardanlabs/gossipchain/business/sys/metrics"
	"github.com/ardanlabs/gossipchain/business/web/mid"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/worker"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"go.uber.org/zap"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	Metrics  *metrics.Metrics
	Ledger   *ledger.Ledger
	Gossip   *gossip.Gossip
	Worker   *worker.Worker
	NS       *nameservice.NameService
	Evts     *events.Events
	Host     string
	Started  time.Time
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(cfg.Metrics),
		mid.Cors("*"),
		mid.Panics(cfg.Metrics),
	)

	// Accept CORS 'OPTIONS' preflight requests.
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", h, mid.Cors("*"))

	// Load the v1 routes.
	v1.PublicRoutes(app, v1.Config{
		Log:     cfg.Log,
		Ledger:  cfg.Ledger,
		Worker:  cfg.Worker,
		NS:      cfg.NS,
		Evts:    cfg.Evts,
		Started: cfg.Started,
	})

	return app
}

// PrivateMux constructs a http.Handler with the node to node routes defined.
func PrivateMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(cfg.Metrics),
		mid.Panics(cfg.Metrics),
	)

	// Load the v1 routes.
	v1.PrivateRoutes(app, v1.Config{
		Log:    cfg.Log,
		Ledger: cfg.Ledger,
		Gossip: cfg.Gossip,
		Host:   cfg.Host,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard library
// into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service. The prometheus metrics are
// served from /metrics.
func DebugMux(build string, log *zap.SugaredLogger, m *metrics.Metrics, l *ledger.Ledger) http.Handler {
	mux := DebugStandardLibraryMux()

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build:  build,
		Log:    log,
		Ledger: l,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	mux.Handle("/metrics", m.Handler())

	return mux
}
