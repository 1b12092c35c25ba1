// Package ingest reads the delimited transaction stream: one header row
// naming the columns, then one transaction per row, decoded lazily so a
// large file is never loaded into memory at once.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ledgerlab/exchange/internal/core/ledger"
	"github.com/ledgerlab/exchange/internal/currency"
)

// ErrBadRow marks a row that could not be decoded into a transaction.
// Callers skip the row and keep reading; the stream itself stays usable.
var ErrBadRow = errors.New("ingest: bad row")

// Reader decodes transactions from a CSV stream, forward-only.
type Reader struct {
	csv  *csv.Reader
	cols map[string]int
	line int
}

// NewReader consumes the header row and maps columns by name. The stream
// must name at least the type, client and tx columns; amount is optional
// since dispute-lifecycle rows never carry one.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Dispute rows may omit the trailing amount field entirely.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("header missing %q column", required)
		}
	}

	return &Reader{csv: cr, cols: cols, line: 1}, nil
}

// Next returns the next transaction in arrival order. It returns io.EOF at
// end of stream and an error wrapping ErrBadRow for a row that cannot be
// decoded; any other error means the stream itself failed.
func (r *Reader) Next() (ledger.Transaction, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return ledger.Transaction{}, io.EOF
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			r.line++
			return ledger.Transaction{}, fmt.Errorf("line %d: %v: %w", perr.Line, err, ErrBadRow)
		}
		return ledger.Transaction{}, err
	}
	r.line++

	t, err := r.decode(rec)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("line %d: %v: %w", r.line, err, ErrBadRow)
	}

	return t, nil
}

func (r *Reader) decode(rec []string) (ledger.Transaction, error) {
	typ, err := ledger.ParseTxType(r.field(rec, "type"))
	if err != nil {
		return ledger.Transaction{}, err
	}

	client, err := strconv.ParseUint(r.field(rec, "client"), 10, 16)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("client id: %w", err)
	}

	tx, err := strconv.ParseUint(r.field(rec, "tx"), 10, 32)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("tx id: %w", err)
	}

	t := ledger.Transaction{
		Type:   typ,
		Client: ledger.ClientID(client),
		Tx:     ledger.TxID(tx),
	}

	// An absent or empty amount becomes a nil Amount, not a row error:
	// the ledger decides what a missing amount means for each type.
	if s := r.field(rec, "amount"); s != "" {
		amount, err := currency.Parse(s)
		if err != nil {
			return ledger.Transaction{}, err
		}
		t.Amount = &amount
	}

	return t, nil
}

func (r *Reader) field(rec []string, name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
