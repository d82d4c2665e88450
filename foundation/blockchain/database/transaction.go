package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
)

// RewardSender is the sentinel from address used for mining reward issuance.
// A transaction from this sender is exempt from signature checks.
const RewardSender = ""

// Set of errors related to transaction validation.
var (
	ErrMissingSignature   = errors.New("no signature in this transaction")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	FromAddress string  // Empty for the reward sender.
	ToAddress   string  // Account receiving the value.
	Amount      float64 // Monetary value moved by this transaction.
	Timestamp   int64   // Unix milliseconds the transaction was constructed.
	Signature   string  // Hex encoded HMAC over the transaction hash.
}

// NewTx constructs a new transaction stamped with the current time.
func NewTx(from string, to string, amount float64) Tx {
	return Tx{
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// NewRewardTx constructs the transaction that pays a miner.
func NewRewardTx(to string, amount float64) Tx {
	return NewTx(RewardSender, to, amount)
}

// IsReward tests if the transaction is a mining reward issuance.
func (tx Tx) IsReward() bool {
	return tx.FromAddress == RewardSender
}

// Hash returns the content hash of the transaction. The signature is not
// part of the hash since the signature commits to it.
func (tx Tx) Hash() string {
	from := tx.FromAddress
	if tx.IsReward() {
		from = "null"
	}

	data := from + tx.ToAddress + formatAmount(tx.Amount) + strconv.FormatInt(tx.Timestamp, 10)
	return signature.Hash(data)
}

// Sign uses the specified key to produce the signature for this transaction.
func (tx *Tx) Sign(key string) {
	tx.Signature = signature.Sign(key, tx.Hash())
}

// Validate verifies the transaction carries a signature produced with the
// from address as the key. Reward transactions are always valid.
func (tx Tx) Validate() error {
	if tx.IsReward() {
		return nil
	}

	if tx.Signature == "" {
		return ErrMissingSignature
	}

	// The from address is the verification key, so anyone who knows the
	// address can produce this signature.
	if !signature.Verify(tx.FromAddress, tx.Hash(), tx.Signature) {
		return fmt.Errorf("%w: signature does not match", ErrInvalidTransaction)
	}

	return nil
}

// HasValidAmount reports whether the amount is a finite, non-negative number.
func (tx Tx) HasValidAmount() bool {
	return !math.IsNaN(tx.Amount) && !math.IsInf(tx.Amount, 0) && tx.Amount >= 0
}

// IsValid is the boolean form of Validate.
func (tx Tx) IsValid() bool {
	return tx.Validate() == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := tx.FromAddress
	if tx.IsReward() {
		from = "reward"
	}

	return fmt.Sprintf("%s->%s:%s", from, tx.ToAddress, formatAmount(tx.Amount))
}

// =============================================================================

// txJSON is the wire form of a transaction. The field order is part of the
// block hash so it must not change.
type txJSON struct {
	FromAddress *string    `json:"fromAddress"`
	ToAddress   string     `json:"toAddress"`
	Amount      jsonAmount `json:"amount"`
	Timestamp   int64      `json:"timestamp"`
	Signature   *string    `json:"signature"`
}

// jsonAmount encodes the amount as a JSON number. NaN and the infinities
// are written as null so encoding a transaction never fails.
type jsonAmount float64

// MarshalJSON implements the json.Marshaler interface.
func (a jsonAmount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}

	return json.Marshal(f)
}

// MarshalJSON implements the json.Marshaler interface. The reward sender and
// a missing signature are written as null.
func (tx Tx) MarshalJSON() ([]byte, error) {
	tj := txJSON{
		ToAddress: tx.ToAddress,
		Amount:    jsonAmount(tx.Amount),
		Timestamp: tx.Timestamp,
	}

	if !tx.IsReward() {
		from := tx.FromAddress
		tj.FromAddress = &from
	}

	if tx.Signature != "" {
		sig := tx.Signature
		tj.Signature = &sig
	}

	return json.Marshal(tj)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	var tj txJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}

	*tx = Tx{
		ToAddress: tj.ToAddress,
		Amount:    float64(tj.Amount),
		Timestamp: tj.Timestamp,
	}

	if tj.FromAddress != nil {
		tx.FromAddress = *tj.FromAddress
	}

	if tj.Signature != nil {
		tx.Signature = *tj.Signature
	}

	return nil
}

// =============================================================================

// formatAmount renders the amount the way other nodes print a number before
// hashing it: the shortest decimal form, switching to exponent form below
// 1e-6 and from 1e21 up. So 30 hashes as "30", 1.5 as "1.5", 1e-7 as "1e-7"
// and 1e21 as "1e+21".
func formatAmount(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "NaN"
	case math.IsInf(amount, 1):
		return "Infinity"
	case math.IsInf(amount, -1):
		return "-Infinity"
	case amount == 0:
		return "0"
	}

	abs := math.Abs(amount)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}

	// The exponent is written without padding, e-07 becomes e-7.
	b := strconv.AppendFloat(nil, amount, 'e', -1, 64)
	if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-2] == '0' {
		b[n-2] = b[n-1]
		b = b[:n-1]
	}

	return string(b)
}
