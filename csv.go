package yootles

import (
	"encoding/csv"
	"fmt"
	"io"
)

// EncodeTransactionsCSV writes the ledger transactions, in source order, as
// CSV with a `Date,From,To,Amount,Description` header. Parties are written
// with their display names.
func EncodeTransactionsCSV(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "From", "To", "Amount", "Description"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, tx := range l.Transactions {
		record := []string{
			tx.Date.Format("2006-01-02"),
			l.Name(tx.From),
			l.Name(tx.To),
			tx.Amount.StringFixed(2),
			tx.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction on %v: %w", tx.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
