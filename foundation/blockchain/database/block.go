// Package database defines the transaction and block values that make up the
// blockchain and the proof of work used to seal a block.
package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
)

// progressInterval is how many nonce attempts are made between progress
// events while mining.
const progressInterval = 100_000

// =============================================================================

// Block represents a group of transactions batched together and bound to the
// previous block by hash.
type Block struct {
	Timestamp    int64  `json:"timestamp"`    // Unix milliseconds the block was created.
	Transactions []Tx   `json:"transactions"` // Ordered set of transactions.
	PreviousHash string `json:"previousHash"` // Hash of the previous block in the chain.
	Nonce        uint64 `json:"nonce"`        // Value identified to solve the hash solution.
	Hash         string `json:"hash"`         // Digest of the fields above.
}

// NewBlock constructs a block with a zero nonce and its hash computed.
func NewBlock(timestamp int64, trans []Tx, previousHash string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	b := Block{
		Timestamp:    timestamp,
		Transactions: trans,
		PreviousHash: previousHash,
	}
	b.Hash = b.Digest()

	return b
}

// NewGenesisBlock constructs the first block of a chain.
func NewGenesisBlock() Block {
	return NewBlock(time.Now().UnixMilli(), nil, signature.ZeroHash)
}

// Digest recomputes the hash from the current fields of the block.
func (b Block) Digest() string {
	trans := b.Transactions
	if trans == nil {
		trans = []Tx{}
	}

	// Every transaction field has a total JSON encoding, an error here means
	// the encoding itself is broken and no hash can be trusted.
	data, err := json.Marshal(trans)
	if err != nil {
		panic(fmt.Sprintf("database: Digest: encoding transactions: %s", err))
	}

	s := b.PreviousHash + strconv.FormatInt(b.Timestamp, 10) + string(data) + strconv.FormatUint(b.Nonce, 10)
	return signature.Hash(s)
}

// Mine does the work of finding a nonce that produces a hash with the
// specified number of leading zeros. Pointer semantics are being used since
// the nonce and hash are being discovered. There is no way to cancel this
// search, it runs until a solution is found.
func (b *Block) Mine(difficulty int, ev func(v string, args ...any)) {
	ev("database: Mine: MINING: started: difficulty[%d]", difficulty)
	defer ev("database: Mine: MINING: completed")

	start := time.Now()

	for !signature.IsHashSolved(difficulty, b.Hash) {
		b.Nonce++
		b.Hash = b.Digest()

		if b.Nonce%progressInterval == 0 {
			ev("database: Mine: MINING: nonce[%d]: hash[%.10s]", b.Nonce, b.Hash)
		}
	}

	ev("database: Mine: MINING: SOLVED: hash[%s]: nonce[%d]: duration[%v]", b.Hash, b.Nonce, time.Since(start))
}

// HasValidTransactions validates every transaction in the block, stopping at
// the first failure.
func (b Block) HasValidTransactions() bool {
	for _, tx := range b.Transactions {
		if !tx.IsValid() {
			return false
		}
	}

	return true
}
