package ledger

import (
	"errors"
	"fmt"
)

// Set of errors for ledger processing.
var (
	ErrUnknownType       = errors.New("ledger: unknown transaction type")
	ErrMissingAmount     = errors.New("ledger: missing amount")
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrAccountLocked     = errors.New("ledger: account locked")
	ErrDuplicateTx       = errors.New("ledger: duplicate transaction id")
	ErrClientMismatch    = errors.New("ledger: transaction for another client")
)

// Process applies one transaction to the account and reports what happened.
// The error is non-nil only for Rejected outcomes and carries the reason.
// Whatever the outcome, Total == Available + Held holds afterwards.
func (a *Account) Process(t Transaction) (Outcome, error) {
	if t.Client != a.ID {
		return Rejected, fmt.Errorf("client %d on account %d: %w", t.Client, a.ID, ErrClientMismatch)
	}

	switch t.Type {
	case Deposit:
		return a.deposit(t)
	case Withdrawal:
		return a.withdrawal(t)
	case Dispute:
		return a.dispute(t), nil
	case Resolve:
		return a.resolve(t), nil
	case Chargeback:
		return a.chargeback(t), nil
	}

	return Rejected, fmt.Errorf("type %q: %w", t.Type, ErrUnknownType)
}

func (a *Account) deposit(t Transaction) (Outcome, error) {
	if t.Amount == nil {
		return IgnoredInvalid, nil
	}
	if a.Locked {
		return Rejected, fmt.Errorf("deposit tx %d: %w", t.Tx, ErrAccountLocked)
	}
	if _, ok := a.transactions[t.Tx]; ok {
		return Rejected, fmt.Errorf("deposit tx %d: %w", t.Tx, ErrDuplicateTx)
	}

	a.Available = a.Available.Add(*t.Amount)
	a.Total = a.Total.Add(*t.Amount)
	a.transactions[t.Tx] = &storedTx{typ: Deposit, amount: *t.Amount}

	return Applied, nil
}

func (a *Account) withdrawal(t Transaction) (Outcome, error) {
	if t.Amount == nil {
		return IgnoredInvalid, nil
	}
	if a.Locked {
		return Rejected, fmt.Errorf("withdrawal tx %d: %w", t.Tx, ErrAccountLocked)
	}
	if _, ok := a.transactions[t.Tx]; ok {
		return Rejected, fmt.Errorf("withdrawal tx %d: %w", t.Tx, ErrDuplicateTx)
	}
	if a.Available.Less(*t.Amount) {
		return Rejected, fmt.Errorf("withdrawal tx %d: %w", t.Tx, ErrInsufficientFunds)
	}

	a.Available = a.Available.Sub(*t.Amount)
	a.Total = a.Total.Sub(*t.Amount)
	a.transactions[t.Tx] = &storedTx{typ: Withdrawal, amount: *t.Amount}

	return Applied, nil
}

// dispute moves the referenced transaction's amount from available to held
// and marks it contested. Disputing an already contested transaction is a
// no-op so funds are never held twice.
func (a *Account) dispute(t Transaction) Outcome {
	st, ok := a.transactions[t.Tx]
	if !ok || st.underDispute {
		return IgnoredNoDispute
	}

	a.Available = a.Available.Sub(st.amount)
	a.Held = a.Held.Add(st.amount)
	st.underDispute = true

	return Applied
}

// resolve releases a hold in the client's favor. The transaction becomes
// disputable again.
func (a *Account) resolve(t Transaction) Outcome {
	st, ok := a.transactions[t.Tx]
	if !ok || !st.underDispute {
		return IgnoredNoDispute
	}

	a.Held = a.Held.Sub(st.amount)
	a.Available = a.Available.Add(st.amount)
	st.underDispute = false

	return Applied
}

// chargeback permanently removes the held funds and locks the account.
// Locking stops new deposits and withdrawals; disputes already open on
// other stored transactions may still be resolved or charged back.
func (a *Account) chargeback(t Transaction) Outcome {
	st, ok := a.transactions[t.Tx]
	if !ok || !st.underDispute {
		return IgnoredNoDispute
	}

	a.Held = a.Held.Sub(st.amount)
	a.Total = a.Total.Sub(st.amount)
	st.underDispute = false
	a.Locked = true

	return Applied
}
