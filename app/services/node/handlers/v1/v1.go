// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"
	"time"

	"github.com/ardanlabs/gossipchain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/gossipchain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/worker"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Ledger  *ledger.Ledger
	Gossip  *gossip.Gossip
	Worker  *worker.Worker
	NS      *nameservice.NameService
	Evts    *events.Events
	Host    string
	Started time.Time
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:     cfg.Log,
		Ledger:  cfg.Ledger,
		Worker:  cfg.Worker,
		NS:      cfg.NS,
		Evts:    cfg.Evts,
		Started: cfg.Started,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/blockchain", pbl.Blockchain)
	app.Handle(http.MethodGet, version, "/block/latest", pbl.LatestBlock)
	app.Handle(http.MethodGet, version, "/block/:index", pbl.Block)
	app.Handle(http.MethodGet, version, "/balance/:address", pbl.Balance)
	app.Handle(http.MethodGet, version, "/balances", pbl.Balances)
	app.Handle(http.MethodGet, version, "/transactions/:address", pbl.Transactions)
	app.Handle(http.MethodPost, version, "/transaction", pbl.SubmitTransaction)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodPost, version, "/mining/signal", pbl.SignalMining)
	app.Handle(http.MethodGet, version, "/validate", pbl.Validate)
	app.Handle(http.MethodGet, version, "/stats", pbl.Stats)
	app.Handle(http.MethodPost, version, "/difficulty", pbl.AdjustDifficulty)
	app.Handle(http.MethodGet, version, "/wallet/new", pbl.NewWallet)
	app.Handle(http.MethodGet, version, "/pending", pbl.Pending)
	app.Handle(http.MethodGet, version, "/export", pbl.Export)
	app.Handle(http.MethodGet, version, "/health", pbl.Health)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:    cfg.Log,
		Ledger: cfg.Ledger,
		Gossip: cfg.Gossip,
		Host:   cfg.Host,
	}

	app.Handle(http.MethodGet, version, "/peer", prv.Peer)
	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
}
