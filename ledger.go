package yootles

import (
	"fmt"

	"github.com/etnz/yootles/date"
	"github.com/shopspring/decimal"
)

// Ledger is the result of processing a ledger source: its accounts with
// their balances, its transactions and its interest rate history.
//
// A Ledger is either complete or carries only an Error, never both.
type Ledger struct {
	ID            string // name of the ledger, empty for anonymous sources
	Accounts      []Account
	Transactions  []Transaction  // in source order
	InterestRates []InterestRate // in source order
	Unregistered  []UnregisteredAccount
	Warnings      []string // recoverable conditions, like invalid amount expressions
	Error         string

	today date.Date       // day the balances were computed for
	rate  decimal.Decimal // rate in effect after the last event
}

// Process parses src and computes balances as of today.
//
// Process is pure: it performs no I/O and shares no state between calls, the
// same source and day always give the same ledger.
func Process(src string, today date.Date) *Ledger {
	p := newParser(today)
	for _, l := range splitLines(src) {
		if err := p.parse(l); err != nil {
			return failed(err, today)
		}
	}

	accounts, unregistered := resolveAccounts(p.accounts, p.transactions)
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	s := newJournal(p.transactions, p.rates).replay(ids, today, nil)

	for i := range accounts {
		id := accounts[i].ID
		accounts[i].Balance = round(s.balance[id])
		accounts[i].InterestAccrued = round(s.interest[id])
	}

	return &Ledger{
		Accounts:      orEmpty(accounts),
		Transactions:  orEmpty(p.transactions),
		InterestRates: orEmpty(p.rates),
		Unregistered:  orEmpty(unregistered),
		Warnings:      p.warnings,
		today:         today,
		rate:          s.rate,
	}
}

// failed returns a ledger reporting err, with empty collections.
func failed(err error, today date.Date) *Ledger {
	return &Ledger{
		Accounts:      []Account{},
		Transactions:  []Transaction{},
		InterestRates: []InterestRate{},
		Unregistered:  []UnregisteredAccount{},
		Error:         err.Error(),
		today:         today,
	}
}

// round rounds money to cents, half away from zero. It is symmetric, so
// opposite balances stay opposite.
func round(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Err returns the processing error, if any.
func (l *Ledger) Err() error {
	if l.Error == "" {
		return nil
	}
	return fmt.Errorf("ledger %q: %s", l.ID, l.Error)
}

// Today returns the day the balances were computed for.
func (l *Ledger) Today() date.Date { return l.today }

// Account returns the account with this id, or nil if unknown.
func (l *Ledger) Account(id string) *Account {
	for i := range l.Accounts {
		if l.Accounts[i].ID == id {
			return &l.Accounts[i]
		}
	}
	return nil
}

// Name returns the display name of the account id, or id itself if unknown.
func (l *Ledger) Name(id string) string {
	if a := l.Account(id); a != nil && a.Name != "" {
		return a.Name
	}
	return id
}

// CurrentRate returns the interest rate in effect after the last event.
func (l *Ledger) CurrentRate() decimal.Decimal { return l.rate }

// Total returns the sum of all balances. A ledger is a closed system: it is
// zero up to the rounding of each balance.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// MarshalJSON writes either the full ledger or only its error.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	var w jsonObject
	if l.Error != "" {
		w.Text("error", l.Error, false)
		return w.MarshalJSON()
	}
	w.Text("id", l.ID, true)
	listField(&w, "accounts", l.Accounts, false)
	listField(&w, "transactions", l.Transactions, false)
	listField(&w, "interestRates", l.InterestRates, false)
	listField(&w, "unregisteredAccounts", l.Unregistered, false)
	listField(&w, "warnings", l.Warnings, true)
	return w.MarshalJSON()
}
