package yootles

import (
	"fmt"

	"github.com/etnz/yootles/date"
	"github.com/shopspring/decimal"
)

// StatementLine is one step in the history of an account.
type StatementLine struct {
	Date        date.Date
	Description string
	Amount      decimal.Decimal // signed effect of the transaction on the account
	Interest    decimal.Decimal // interest accrued since the previous line
	Balance     decimal.Decimal // balance after this line
}

// MarshalJSON implements the json.Marshaler interface for StatementLine.
func (s StatementLine) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("date", s.Date)
	w.Field("description", s.Description)
	w.Money("amount", s.Amount)
	w.Money("interest", s.Interest)
	w.Money("balance", s.Balance)
	return w.MarshalJSON()
}

// Statement replays the ledger and returns the history of one account: a
// line per transaction involving it, per interest rate change, and a final
// line for the interest accrued up to the ledger's day.
func (l *Ledger) Statement(id string) ([]StatementLine, error) {
	if l.Error != "" {
		return nil, l.Err()
	}
	if l.Account(id) == nil {
		return nil, fmt.Errorf("unknown account %q", id)
	}
	ids := make([]string, len(l.Accounts))
	for i, a := range l.Accounts {
		ids[i] = a.ID
	}

	var lines []StatementLine
	pending := decimal.Zero // interest not yet reported
	newLine := func(on date.Date, description string, amount decimal.Decimal, s *state) {
		lines = append(lines, StatementLine{
			Date:        on,
			Description: description,
			Amount:      round(amount),
			Interest:    round(pending),
			Balance:     round(s.balance[id]),
		})
		pending = decimal.Zero
	}

	j := newJournal(l.Transactions, l.InterestRates)
	j.replay(ids, l.today, func(on date.Date, e event, accrued map[string]decimal.Decimal, s *state) {
		pending = pending.Add(accrued[id])
		switch v := e.(type) {
		case transfer:
			if v.from != id && v.to != id {
				return
			}
			amount := decimal.Zero
			if v.to == id {
				amount = amount.Add(v.amount)
			}
			if v.from == id {
				amount = amount.Sub(v.amount)
			}
			newLine(on, v.description, amount, s)
		case changeRate:
			newLine(on, fmt.Sprintf("interest rate %s%%", v.rate.Shift(2).String()), decimal.Zero, s)
		case nil:
			newLine(on, "interest", decimal.Zero, s)
		}
	})
	return lines, nil
}
