package ingest_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ledgerlab/exchange/internal/core/ledger"
	"github.com/ledgerlab/exchange/internal/currency"
	"github.com/ledgerlab/exchange/internal/ingest"
)

func amt(s string) *currency.Amount {
	a := currency.MustParse(s)
	return &a
}

var cmpAmount = cmp.Comparer(func(a, b currency.Amount) bool { return a.Equal(b) })

func readAll(t *testing.T, r *ingest.Reader) []ledger.Transaction {
	t.Helper()

	var out []ledger.Transaction
	for {
		tx, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("reading: %v", err)
		}
		out = append(out, tx)
	}
}

func TestReader(t *testing.T) {
	in := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 1.0",
		"withdrawal, 2, 5, 3.0",
		"dispute, 1, 1,",
		"resolve, 1, 1,",
		"chargeback, 1, 1,",
	}, "\n")

	r, err := ingest.NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	want := []ledger.Transaction{
		{Type: ledger.Deposit, Client: 1, Tx: 1, Amount: amt("1.0")},
		{Type: ledger.Withdrawal, Client: 2, Tx: 5, Amount: amt("3.0")},
		{Type: ledger.Dispute, Client: 1, Tx: 1},
		{Type: ledger.Resolve, Client: 1, Tx: 1},
		{Type: ledger.Chargeback, Client: 1, Tx: 1},
	}

	if diff := cmp.Diff(want, readAll(t, r), cmpAmount); diff != "" {
		t.Fatalf("transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderShortDisputeRows(t *testing.T) {
	// Dispute-lifecycle rows may omit the amount field entirely, not just
	// leave it empty.
	in := "type,client,tx,amount\ndispute,1,91\n"

	r, err := ingest.NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	want := []ledger.Transaction{{Type: ledger.Dispute, Client: 1, Tx: 91}}
	if diff := cmp.Diff(want, readAll(t, r), cmpAmount); diff != "" {
		t.Fatalf("transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderMissingAmountBecomesNil(t *testing.T) {
	in := "type,client,tx,amount\ndeposit,1,10,\n"

	r, err := ingest.NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	tx, err := r.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if tx.Amount != nil {
		t.Fatalf("got amount %v want nil", tx.Amount)
	}
}

func TestReaderSkipsBadRows(t *testing.T) {
	in := strings.Join([]string{
		"type,client,tx,amount",
		"transfer,1,1,5.0",
		"deposit,x,2,5.0",
		"deposit,1,3,abc",
		"deposit,1,4,5.0",
	}, "\n")

	r, err := ingest.NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := r.Next(); !errors.Is(err, ingest.ErrBadRow) {
			t.Fatalf("row %d: got %v want ErrBadRow", i, err)
		}
	}

	// The stream stays usable after bad rows.
	tx, err := r.Next()
	if err != nil {
		t.Fatalf("next after bad rows: %v", err)
	}
	if tx.Tx != 4 {
		t.Fatalf("got tx %d want 4", tx.Tx)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("got %v want io.EOF", err)
	}
}

func TestReaderRejectsBadHeader(t *testing.T) {
	if _, err := ingest.NewReader(strings.NewReader("type,client\n")); err == nil {
		t.Fatal("want error for header missing tx column")
	}
	if _, err := ingest.NewReader(strings.NewReader("")); err == nil {
		t.Fatal("want error for empty stream")
	}
}
