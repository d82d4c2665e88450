package ledger

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
)

// ErrInsufficientBalance is returned when the sender's confirmed balance is
// below the amount of the transaction being added.
var ErrInsufficientBalance = errors.New("not enough balance")

// =============================================================================

// AddTransaction validates the transaction and adds it to the pending pool.
// On success subscribers are notified with EventTransactionAdded.
//
// The balance check only looks at confirmed balances. Transactions from the
// same sender already sitting in the pool are not netted against it.
func (l *Ledger) AddTransaction(tx database.Tx) error {
	if err := l.addTransaction(tx); err != nil {
		l.evHandler("ledger: AddTransaction: REJECTED: tx[%s]: %s", tx, err)
		return err
	}

	l.evHandler("ledger: AddTransaction: tx[%s]: hash[%s]", tx, tx.Hash())
	l.subscribers.notify(Event{Kind: EventTransactionAdded, Tx: tx})

	return nil
}

func (l *Ledger) addTransaction(tx database.Tx) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.FromAddress == "" || tx.ToAddress == "" {
		return fmt.Errorf("%w: transaction must include from and to address", database.ErrInvalidTransaction)
	}

	if !tx.HasValidAmount() {
		return fmt.Errorf("%w: amount must be a finite number that is not negative, got %v", database.ErrInvalidTransaction, tx.Amount)
	}

	if err := tx.Validate(); err != nil {
		if errors.Is(err, database.ErrInvalidTransaction) {
			return err
		}
		return fmt.Errorf("%w: %w", database.ErrInvalidTransaction, err)
	}

	if !tx.IsReward() {
		balance := l.accounts.Balance(tx.FromAddress)
		if balance < tx.Amount {
			return fmt.Errorf("%w: balance %v, needed %v", ErrInsufficientBalance, balance, tx.Amount)
		}
	}

	l.mempool.Append(tx)

	return nil
}
