package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/gossipchain/app/services/node/handlers"
	"github.com/ardanlabs/gossipchain/business/sys/metrics"
	"github.com/ardanlabs/gossipchain/business/web/errs"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/worker"
	"github.com/ardanlabs/gossipchain/foundation/events"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type api struct {
	t       *testing.T
	ledger  *ledger.Ledger
	public  http.Handler
	private http.Handler
	debug   http.Handler
}

func newAPI(t *testing.T) api {
	t.Helper()

	log := zap.NewNop().Sugar()

	l := ledger.New(ledger.Config{
		Genesis: genesis.Genesis{
			Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			Difficulty:   1,
			MiningReward: 100,
		},
	})

	g := gossip.New(gossip.Config{State: l})
	w := worker.Run(worker.Config{Ledger: l, Gossip: g})
	evts := events.New()

	ns, err := nameservice.New(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		w.Shutdown()
		g.Shutdown()
		evts.Shutdown()
	})

	m := metrics.New()
	m.RegisterLedger(l.Stats)
	m.RegisterGossip(g.Stats)

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		Metrics:  m,
		Ledger:   l,
		Gossip:   g,
		Worker:   w,
		NS:       ns,
		Evts:     evts,
		Host:     "127.0.0.1:9080",
		Started:  time.Now(),
	}

	return api{
		t:       t,
		ledger:  l,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		debug:   handlers.DebugMux("test", log, m, l),
	}
}

func (a api) call(method string, path string, body any, resp any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	a.public.ServeHTTP(w, httptest.NewRequest(method, path, &buf))

	if resp != nil && w.Body.Len() > 0 {
		require.NoError(a.t, json.NewDecoder(w.Body).Decode(resp), w.Body.String())
	}

	return w.Code
}

// =============================================================================

func Test_TransactionFlow(t *testing.T) {
	a := newAPI(t)

	var mined struct {
		Success bool           `json:"success"`
		Block   database.Block `json:"block"`
		Reward  float64        `json:"reward"`
	}
	status := a.call(http.MethodPost, "/v1/mine", map[string]string{"minerAddress": "alice"}, &mined)
	require.Equal(t, http.StatusOK, status)
	require.True(t, mined.Success)
	require.Equal(t, float64(100), mined.Reward)
	require.Equal(t, "0", mined.Block.Hash[:1])

	var added struct {
		Success         bool   `json:"success"`
		TransactionHash string `json:"transactionHash"`
	}
	tx := map[string]any{"fromAddress": "alice", "toAddress": "bob", "amount": 30, "privateKey": "alice"}
	status = a.call(http.MethodPost, "/v1/transaction", tx, &added)
	require.Equal(t, http.StatusOK, status)
	require.True(t, added.Success)
	require.Len(t, added.TransactionHash, 64)

	var pending struct {
		PendingTransactions []database.Tx `json:"pendingTransactions"`
		Count               int           `json:"count"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/pending", nil, &pending))
	require.Equal(t, 1, pending.Count)
	require.Equal(t, added.TransactionHash, pending.PendingTransactions[0].Hash())

	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/v1/mine", map[string]string{"minerAddress": "miner"}, nil))

	var bal struct {
		Address string  `json:"address"`
		Balance float64 `json:"balance"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/balance/bob", nil, &bal))
	require.Equal(t, "bob", bal.Address)
	require.Equal(t, float64(30), bal.Balance)

	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/balance/alice", nil, &bal))
	require.Equal(t, float64(70), bal.Balance)

	var trans struct {
		Transactions []database.Tx `json:"transactions"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/transactions/alice", nil, &trans))
	require.Len(t, trans.Transactions, 2)

	var valid struct {
		Valid bool `json:"valid"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/validate", nil, &valid))
	require.True(t, valid.Valid)

	var stats ledger.Stats
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/stats", nil, &stats))
	require.Equal(t, 3, stats.TotalBlocks)
	require.Equal(t, 3, stats.TotalTransactions)
	require.Equal(t, 0, stats.PendingTransactions)

	var snapshot ledger.Snapshot
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/export", nil, &snapshot))
	require.Len(t, snapshot.Chain, 3)
	require.Equal(t, float64(100), snapshot.Balances["miner"])
}

func Test_Rejections(t *testing.T) {
	a := newAPI(t)

	tt := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unsigned", http.MethodPost, "/v1/transaction", map[string]any{"fromAddress": "alice", "toAddress": "bob", "amount": 5}, http.StatusBadRequest},
		{"forged", http.MethodPost, "/v1/transaction", map[string]any{"fromAddress": "alice", "toAddress": "bob", "amount": 5, "privateKey": "mallory"}, http.StatusBadRequest},
		{"broke", http.MethodPost, "/v1/transaction", map[string]any{"fromAddress": "alice", "toAddress": "bob", "amount": 5, "privateKey": "alice"}, http.StatusBadRequest},
		{"missing fields", http.MethodPost, "/v1/transaction", map[string]any{"toAddress": "bob"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/v1/transaction", map[string]any{"from": "alice"}, http.StatusBadRequest},
		{"no miner", http.MethodPost, "/v1/mine", map[string]any{}, http.StatusBadRequest},
		{"no difficulty", http.MethodPost, "/v1/difficulty", map[string]any{}, http.StatusBadRequest},
		{"bad index", http.MethodGet, "/v1/block/abc", nil, http.StatusBadRequest},
		{"past tip", http.MethodGet, "/v1/block/9", nil, http.StatusNotFound},
		{"negative", http.MethodGet, "/v1/block/-1", nil, http.StatusNotFound},
	}

	for _, test := range tt {
		t.Run(test.name, func(t *testing.T) {
			var er errs.Response
			status := a.call(test.method, test.path, test.body, &er)
			require.Equal(t, test.status, status)
			require.NotEmpty(t, er.Error)
		})
	}

	require.Empty(t, a.ledger.Pending())
}

func Test_ClientSignedTransaction(t *testing.T) {
	a := newAPI(t)

	_, err := a.ledger.MinePendingTransactions("alice")
	require.NoError(t, err)

	tx := database.NewTx("alice", "bob", 12.5)
	tx.Sign("alice")

	body := map[string]any{
		"fromAddress": tx.FromAddress,
		"toAddress":   tx.ToAddress,
		"amount":      tx.Amount,
		"timestamp":   tx.Timestamp,
		"signature":   tx.Signature,
	}

	var added struct {
		TransactionHash string `json:"transactionHash"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/v1/transaction", body, &added))
	require.Equal(t, tx.Hash(), added.TransactionHash)
	require.Equal(t, []database.Tx{tx}, a.ledger.Pending())

	// A signature without the timestamp it covers is rejected up front.
	delete(body, "timestamp")
	require.Equal(t, http.StatusBadRequest, a.call(http.MethodPost, "/v1/transaction", body, nil))
}

func Test_Blocks(t *testing.T) {
	a := newAPI(t)

	var genesisBlock database.Block
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/block/0", nil, &genesisBlock))
	require.Equal(t, "0", genesisBlock.PreviousHash)
	require.Empty(t, genesisBlock.Transactions)

	block, err := a.ledger.MinePendingTransactions("alice")
	require.NoError(t, err)

	var latest database.Block
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/block/latest", nil, &latest))
	require.Equal(t, block.Hash, latest.Hash)

	var chain struct {
		Chain []database.Block `json:"chain"`
		Stats ledger.Stats     `json:"stats"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/blockchain", nil, &chain))
	require.Len(t, chain.Chain, 2)
	require.Equal(t, 2, chain.Stats.TotalBlocks)
}

func Test_Difficulty(t *testing.T) {
	a := newAPI(t)

	tt := []struct {
		value int
		exp   int
	}{
		{4, 4},
		{0, genesis.MinDifficulty},
		{42, genesis.MaxDifficulty},
	}

	for _, test := range tt {
		var resp struct {
			Success       bool `json:"success"`
			NewDifficulty int  `json:"newDifficulty"`
		}
		status := a.call(http.MethodPost, "/v1/difficulty", map[string]int{"difficulty": test.value}, &resp)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, test.exp, resp.NewDifficulty)
		require.Equal(t, test.exp, a.ledger.Difficulty())
	}
}

func Test_WalletAndHealth(t *testing.T) {
	a := newAPI(t)

	var wlt struct {
		Address    string `json:"address"`
		PrivateKey string `json:"privateKey"`
		Note       string `json:"note"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/wallet/new", nil, &wlt))
	require.True(t, wallet.IsAddress(wlt.Address))
	require.Len(t, wlt.PrivateKey, 64)
	require.NotEmpty(t, wlt.Note)

	var hlth struct {
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/health", nil, &hlth))
	require.Equal(t, "healthy", hlth.Status)
}

func Test_SignalMining(t *testing.T) {
	a := newAPI(t)

	var resp struct {
		Signaled bool `json:"signaled"`
	}
	status := a.call(http.MethodPost, "/v1/mining/signal", map[string]string{"minerAddress": "miner"}, &resp)
	require.Equal(t, http.StatusAccepted, status)
	require.True(t, resp.Signaled)

	require.Eventually(t, func() bool {
		return a.ledger.Balance("miner") == 100
	}, 5*time.Second, 10*time.Millisecond)
}

func Test_Debug(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{"/debug/readiness", "/debug/liveness", "/metrics"} {
		w := httptest.NewRecorder()
		a.debug.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func Test_NodeStatus(t *testing.T) {
	a := newAPI(t)

	_, err := a.ledger.MinePendingTransactions("alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.private.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/node/status", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status struct {
		Host        string          `json:"host"`
		Genesis     genesis.Genesis `json:"genesis"`
		LatestBlock string          `json:"latestBlock"`
		Ledger      ledger.Stats    `json:"ledger"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))

	require.Equal(t, "127.0.0.1:9080", status.Host)
	require.True(t, a.ledger.Genesis().Date.Equal(status.Genesis.Date), "genesis date %v", status.Genesis.Date)
	require.Equal(t, float64(100), status.Genesis.MiningReward)
	require.Equal(t, a.ledger.LatestBlock().Hash, status.LatestBlock)
	require.Equal(t, 2, status.Ledger.TotalBlocks)
}
