// Package ledger implements the account ledger state machine: per-client
// balances, the dispute lifecycle of stored deposits and withdrawals, and
// the exchange that routes a stream of transactions to its accounts.
package ledger

import (
	"context"
	"log/slog"
)

// Exchange owns the client id to account mapping and routes each incoming
// transaction to the right account, creating one on first sight of a
// client. Processing is strictly sequential; Exchange is not safe for
// concurrent use.
type Exchange struct {
	log      *slog.Logger
	accounts map[ClientID]*Account
	order    []ClientID
}

// NewExchange constructs an empty exchange.
func NewExchange(log *slog.Logger) *Exchange {
	return &Exchange{
		log:      log,
		accounts: make(map[ClientID]*Account),
	}
}

// Ingest applies one transaction in stream order. Non-applied outcomes are
// logged and returned, never escalated: a malformed or rejected record
// leaves balances unchanged and the run moves on.
func (e *Exchange) Ingest(ctx context.Context, t Transaction) (Outcome, error) {
	acc, ok := e.accounts[t.Client]
	if !ok {
		acc = NewAccount(t.Client)
		e.accounts[t.Client] = acc
		e.order = append(e.order, t.Client)
	}

	outcome, err := acc.Process(t)
	if outcome != Applied {
		e.log.InfoContext(ctx, "transaction not applied",
			"outcome", outcome.String(),
			"type", string(t.Type),
			"client", t.Client,
			"tx", t.Tx,
			"ERROR", err,
		)
	}

	return outcome, err
}

// Accounts returns a snapshot of every account in first-seen client order,
// for report generation at end of stream.
func (e *Exchange) Accounts() []Account {
	accs := make([]Account, 0, len(e.order))
	for _, id := range e.order {
		a := *e.accounts[id]
		a.transactions = nil
		accs = append(accs, a)
	}
	return accs
}
