package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/gossipchain/app/services/node/handlers"
	"github.com/ardanlabs/gossipchain/business/sys/metrics"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/worker"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/logger"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10m"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:3001"`
			PrivateHost     string        `conf:"default:0.0.0.0:8080"`
		}
		Ledger struct {
			GenesisFile          string
			Difficulty           int     `conf:"default:2"`
			MiningReward         float64 `conf:"default:100"`
			AutoMine             string
			SkipTestTransactions bool `conf:"default:false"`
		}
		Peers struct {
			Host           string `conf:"help:host peers dial to reach this node (the private host when empty)"`
			KnownPeers     []string
			RedialInterval time.Duration `conf:"default:1m"`
			WriteTimeout   time.Duration `conf:"default:5s"`
			MessageRate    float64       `conf:"default:50"`
			MessageBurst   int           `conf:"default:100"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger node with peer gossip",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	started := time.Now()

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for addresses. The
	// names come from the file names in the name service folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load address name service: %w", err)
	}

	// Logging the addresses for documentation in the logs.
	for address, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "address", address)
	}

	// =========================================================================
	// Blockchain Support

	// A genesis file overrides the difficulty and reward from the config.
	gen := genesis.Genesis{
		Date:         started.UTC(),
		Difficulty:   genesis.ClampDifficulty(cfg.Ledger.Difficulty),
		MiningReward: cfg.Ledger.MiningReward,
	}
	if cfg.Ledger.GenesisFile != "" {
		gen, err = genesis.Load(cfg.Ledger.GenesisFile)
		if err != nil {
			return fmt.Errorf("loading genesis: %w", err)
		}
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. For now, these raw messages are sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The ledger holds the chain, the pending pool and the balances. All of
	// it lives in memory and starts from the genesis block on every run.
	ldgr := ledger.New(ledger.Config{
		Genesis:   gen,
		EvHandler: ev,
	})

	// The gossip value owns the peer connections and propagates ledger
	// events to every connected peer.
	peerHost := cfg.Peers.Host
	if peerHost == "" {
		peerHost = cfg.Web.PrivateHost
	}

	gsp := gossip.New(gossip.Config{
		State:        ldgr,
		EvHandler:    ev,
		Host:         peerHost,
		WriteTimeout: cfg.Peers.WriteTimeout,
		MessageRate:  rate.Limit(cfg.Peers.MessageRate),
		MessageBurst: cfg.Peers.MessageBurst,
	})
	defer gsp.Shutdown()

	// The worker package implements the different workflows such as mining,
	// event sharing with the peers, and peer redial.
	wrk := worker.Run(worker.Config{
		Ledger:         ldgr,
		Gossip:         gsp,
		KnownPeers:     cfg.Peers.KnownPeers,
		RedialInterval: cfg.Peers.RedialInterval,
		AutoMine:       cfg.Ledger.AutoMine,
		EvHandler:      ev,
	})
	defer wrk.Shutdown()

	// Seed the ledger with a funded address and two transfers so a fresh
	// node has something to show.
	if !cfg.Ledger.SkipTestTransactions {
		seed := time.AfterFunc(time.Second, func() {
			if err := seedTransactions(log, ldgr); err != nil {
				log.Errorw("startup", "status", "seed transactions", "ERROR", err)
			}
		})
		defer seed.Stop()
	}

	// =========================================================================
	// Metrics Support

	m := metrics.New()
	m.RegisterLedger(ldgr.Stats)
	m.RegisterGossip(gsp.Stats)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, m, ldgr)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	muxCfg := handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Metrics:  m,
		Ledger:   ldgr,
		Gossip:   gsp,
		Worker:   wrk,
		NS:       ns,
		Evts:     evts,
		Host:     peerHost,
		Started:  started,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct a server to service the requests against the mux. Mining runs
	// inside the request so the write timeout has to cover the hardest
	// difficulty.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	// Construct a server to service the peer connections against the mux.
	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      handlers.PrivateMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for peer connections.
	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Peer connections are hijacked from the private server so they are
		// closed here, the server does not wait on them.
		log.Infow("shutdown", "status", "shutdown peer connections")
		gsp.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
