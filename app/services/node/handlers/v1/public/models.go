package public

import (
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
)

// newTx is the payload for submitting a transaction. When a private key is
// provided the transaction is signed with it, otherwise the signature in the
// payload is used as is. A signature covers the timestamp so a signed payload
// carries the timestamp it was signed with.
type newTx struct {
	FromAddress string  `json:"fromAddress" validate:"required"`
	ToAddress   string  `json:"toAddress" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Timestamp   int64   `json:"timestamp" validate:"required_with=Signature"`
	PrivateKey  string  `json:"privateKey"`
	Signature   string  `json:"signature"`
}

type newTxResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	TransactionHash string `json:"transactionHash"`
}

type mineRequest struct {
	MinerAddress string `json:"minerAddress" validate:"required"`
}

type mineResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Block   database.Block `json:"block"`
	Reward  float64        `json:"reward"`
}

type signalResponse struct {
	Signaled bool `json:"signaled"`
}

type difficultyRequest struct {
	Difficulty *int `json:"difficulty" validate:"required"`
}

type difficultyResponse struct {
	Success       bool `json:"success"`
	NewDifficulty int  `json:"newDifficulty"`
}

type blockchain struct {
	Chain []database.Block `json:"chain"`
	Stats ledger.Stats     `json:"stats"`
}

type balance struct {
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latestBlock"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

type transactions struct {
	Address      string        `json:"address"`
	Transactions []database.Tx `json:"transactions"`
}

type pending struct {
	PendingTransactions []database.Tx `json:"pendingTransactions"`
	Count               int           `json:"count"`
}

type validation struct {
	Valid bool `json:"valid"`
}

type newWallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
	Note       string `json:"note"`
}

type health struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}
