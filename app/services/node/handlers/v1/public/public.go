// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/gossipchain/business/sys/validate"
	"github.com/ardanlabs/gossipchain/business/web/errs"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/worker"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Ledger  *ledger.Ledger
	Worker  *worker.Worker
	NS      *nameservice.NameService
	WS      websocket.Upgrader
	Evts    *events.Events
	Started time.Time
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
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
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			c.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return nil
			}
		}
	}
}

// Blockchain returns the full chain with its statistics.
func (h Handlers) Blockchain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain, stats := h.Ledger.ChainAndStats()

	return web.Respond(ctx, w, blockchain{Chain: chain, Stats: stats}, http.StatusOK)
}

// Block returns the block at the specified index.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.Atoi(web.Param(r, "index"))
	if err != nil {
		return errs.NewTrusted(errors.New("block index must be a number"), http.StatusBadRequest)
	}

	block, err := h.Ledger.Block(index)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// LatestBlock returns the block at the tip of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.LatestBlock(), http.StatusOK)
}

// Balance returns the confirmed balance for the address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	resp := balance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.Ledger.Balance(address),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balances returns every confirmed balance sorted by address.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blnces := h.Ledger.Balances()

	bals := make([]balance, 0, len(blnces))
	for address, amount := range blnces {
		bals = append(bals, balance{
			Address: address,
			Name:    h.NS.Lookup(address),
			Balance: amount,
		})
	}
	sort.Slice(bals, func(i, j int) bool { return bals[i].Address < bals[j].Address })

	stats := h.Ledger.Stats()
	resp := balances{
		LatestBlock: h.Ledger.LatestBlock().Hash,
		Pending:     stats.PendingTransactions,
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Transactions returns the confirmed transactions involving the address.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	resp := transactions{
		Address:      address,
		Transactions: h.Ledger.TransactionsForAddress(address),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending pool. The ledger
// shares the transaction with the peers.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	tx := database.NewTx(nt.FromAddress, nt.ToAddress, nt.Amount)
	if nt.Timestamp != 0 {
		tx.Timestamp = nt.Timestamp
	}

	switch {
	case nt.PrivateKey != "":
		tx.Sign(nt.PrivateKey)
	default:
		tx.Signature = nt.Signature
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx, "from", h.NS.Lookup(tx.FromAddress), "to", h.NS.Lookup(tx.ToAddress))

	if err := h.Ledger.AddTransaction(tx); err != nil {
		return errs.FromLedger(err)
	}

	resp := newTxResponse{
		Success:         true,
		Message:         "Transaction added to pending pool",
		TransactionHash: tx.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine mines every pending transaction into a new block and returns the
// block once it is part of the chain.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var mr mineRequest
	if err := web.Decode(r, &mr); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(mr); err != nil {
		return err
	}

	block, err := h.Ledger.MinePendingTransactions(mr.MinerAddress)
	if err != nil {
		return errs.FromLedger(err)
	}

	resp := mineResponse{
		Success: true,
		Message: "Block mined successfully",
		Block:   block,
		Reward:  h.Ledger.MiningReward(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining asks the worker to mine the pending transactions in the
// background.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var mr mineRequest
	if err := web.Decode(r, &mr); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(mr); err != nil {
		return err
	}

	resp := signalResponse{
		Signaled: h.Worker.SignalStartMining(mr.MinerAddress),
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Validate reports whether the chain passes every integrity check.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, validation{Valid: h.Ledger.IsChainValid()}, http.StatusOK)
}

// Stats returns the ledger statistics.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.Stats(), http.StatusOK)
}

// AdjustDifficulty sets the difficulty used for the next block. Values
// outside the supported range are clamped.
func (h Handlers) AdjustDifficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var dr difficultyRequest
	if err := web.Decode(r, &dr); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(dr); err != nil {
		return err
	}

	resp := difficultyResponse{
		Success:       true,
		NewDifficulty: h.Ledger.AdjustDifficulty(*dr.Difficulty),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NewWallet generates a new address and private key.
func (h Handlers) NewWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wlt, _, err := wallet.Generate()
	if err != nil {
		return err
	}

	resp := newWallet{
		Address:    wlt.Address,
		PrivateKey: wlt.PrivateKey,
		Note:       "Save your private key securely! You will need it to sign transactions.",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.Ledger.Pending()

	return web.Respond(ctx, w, pending{PendingTransactions: trans, Count: len(trans)}, http.StatusOK)
}

// Export returns the full state of the ledger.
func (h Handlers) Export(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.Export(), http.StatusOK)
}

// Health reports the node is serving requests.
func (h Handlers) Health(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := health{
		Status:    "healthy",
		Uptime:    time.Since(h.Started).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
