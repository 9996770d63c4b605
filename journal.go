package yootles

import (
	"sort"

	"github.com/etnz/yootles/date"
	"github.com/shopspring/decimal"
)

// event represents a single, atomic operation in the ledger's history.
type event interface {
	date() date.Date
}

// changeRate sets the annual interest rate from its date on.
type changeRate struct {
	on   date.Date
	rate decimal.Decimal
}

func (e changeRate) date() date.Date { return e.on }

// transfer debits from and credits to.
type transfer struct {
	on          date.Date
	amount      decimal.Decimal
	from, to    string
	description string
}

func (e transfer) date() date.Date { return e.on }

// journal holds a chronologically sorted list of all events.
type journal struct {
	events []event
}

// newJournal merges transactions and rate changes into a single chronology.
//
// On the same day rate changes come first, then transactions, each in source
// order. No interest accrues between events of the same day.
func newJournal(txs []Transaction, rates []InterestRate) *journal {
	j := &journal{events: make([]event, 0, len(txs)+len(rates))}
	for _, r := range rates {
		j.events = append(j.events, changeRate{on: r.Date, rate: r.Rate})
	}
	for _, tx := range txs {
		j.events = append(j.events, transfer{on: tx.Date, amount: tx.Amount, from: tx.From, to: tx.To, description: tx.Description})
	}
	// rates were appended first, a stable sort on the date alone keeps them
	// ahead of same day transfers.
	sort.SliceStable(j.events, func(a, b int) bool {
		return j.events[a].date().Before(j.events[b].date())
	})
	return j
}

// state is the running result of a replay, scoped to one call.
type state struct {
	balance  map[string]decimal.Decimal
	interest map[string]decimal.Decimal
	rate     decimal.Decimal
	last     date.Date // date of the last event, zero before the first one
}

// accrue applies the current rate to every balance from the last event to on
// and returns the interest credited to each account, or nil when nothing
// accrued.
func (s *state) accrue(on date.Date) map[string]decimal.Decimal {
	if s.last.IsZero() || !s.rate.IsPositive() || !on.After(s.last) {
		return nil
	}
	// The same factor for everyone keeps the sum of balances unchanged.
	factor := s.rate.Mul(s.last.YearsUntil(on))
	accrued := make(map[string]decimal.Decimal, len(s.balance))
	for id, b := range s.balance {
		i := b.Mul(factor)
		s.balance[id] = b.Add(i)
		s.interest[id] = s.interest[id].Add(i)
		accrued[id] = i
	}
	return accrued
}

func (s *state) apply(e event) {
	switch v := e.(type) {
	case changeRate:
		s.rate = v.rate
	case transfer:
		s.balance[v.from] = s.balance[v.from].Sub(v.amount)
		s.balance[v.to] = s.balance[v.to].Add(v.amount)
	}
	s.last = e.date()
}

// visitor observes a replay. It is called after each event with the interest
// accrued just before it, and once more at the end with a nil event for the
// interest accrued up to today.
type visitor func(on date.Date, e event, accrued map[string]decimal.Decimal, s *state)

// replay computes balances for the given accounts, with interest up to today.
// visit may be nil.
func (j *journal) replay(accounts []string, today date.Date, visit visitor) *state {
	s := &state{
		balance:  make(map[string]decimal.Decimal, len(accounts)),
		interest: make(map[string]decimal.Decimal, len(accounts)),
	}
	for _, id := range accounts {
		s.balance[id] = decimal.Zero
		s.interest[id] = decimal.Zero
	}
	for _, e := range j.events {
		accrued := s.accrue(e.date())
		s.apply(e)
		if visit != nil {
			visit(e.date(), e, accrued, s)
		}
	}
	if accrued := s.accrue(today); accrued != nil && visit != nil {
		visit(today, nil, accrued, s)
	}
	return s
}
