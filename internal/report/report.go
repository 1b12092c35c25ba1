// Package report renders the end-of-run account snapshot.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ledgerlab/exchange/internal/core/ledger"
)

// Write renders one row per account in the given order, amounts with
// exactly four fractional digits and the lock flag as true/false.
func Write(w io.Writer, accounts []ledger.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, a := range accounts {
		row := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.Available.String(),
			a.Held.String(),
			a.Total.String(),
			strconv.FormatBool(a.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing client %d: %w", a.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
