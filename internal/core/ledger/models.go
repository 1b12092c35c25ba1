package ledger

import (
	"github.com/ledgerlab/exchange/internal/currency"
)

// ClientID identifies a client across every record of a run.
type ClientID uint16

// TxID identifies a deposit or withdrawal. Dispute, resolve and chargeback
// records reference an existing TxID instead of minting a new one.
type TxID uint32

// TxType is the closed set of ledger event types. The values match the
// lowercase spelling used on the wire.
type TxType string

const (
	Deposit    TxType = "deposit"
	Withdrawal TxType = "withdrawal"
	Dispute    TxType = "dispute"
	Resolve    TxType = "resolve"
	Chargeback TxType = "chargeback"
)

// ParseTxType validates a wire string against the closed TxType set.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(s); t {
	case Deposit, Withdrawal, Dispute, Resolve, Chargeback:
		return t, nil
	}
	return "", ErrUnknownType
}

// Transaction is one ledger event. Amount is nil for dispute, resolve and
// chargeback records, and for malformed deposits/withdrawals that arrived
// without one.
type Transaction struct {
	Type   TxType
	Client ClientID
	Tx     TxID
	Amount *currency.Amount
}

// storedTx is a deposit or withdrawal the account accepted, kept for the
// lifetime of the run so later dispute records can find it by id.
type storedTx struct {
	typ          TxType
	amount       currency.Amount
	underDispute bool
}

// Outcome classifies what processing a transaction did to the account.
// Every outcome is local to its record; none aborts the run.
type Outcome int

const (
	// Applied means the mutation was performed.
	Applied Outcome = iota
	// IgnoredInvalid means a deposit/withdrawal was dropped for missing
	// its amount; nothing was stored and no balance changed.
	IgnoredInvalid
	// IgnoredNoDispute means a dispute/resolve/chargeback referenced an
	// unknown tx id or one without the required dispute state.
	IgnoredNoDispute
	// Rejected means a deposit/withdrawal was refused; the reason travels
	// in the accompanying error.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case IgnoredInvalid:
		return "ignored_invalid"
	case IgnoredNoDispute:
		return "ignored_no_dispute"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Account holds one client's balances and lock state. Total == Available +
// Held after every processed transaction, accepted or not.
type Account struct {
	ID        ClientID
	Available currency.Amount
	Held      currency.Amount
	Total     currency.Amount
	Locked    bool

	transactions map[TxID]*storedTx
}

// NewAccount returns an unlocked account with zero balances.
func NewAccount(id ClientID) *Account {
	return &Account{
		ID:           id,
		transactions: make(map[TxID]*storedTx),
	}
}
