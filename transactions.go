package yootles

import (
	"github.com/etnz/yootles/date"
	"github.com/shopspring/decimal"
)

// Account is a party of the ledger.
type Account struct {
	ID              string          // unique, case-sensitive key
	Name            string          // display name
	Email           string          // optional contact
	Balance         decimal.Decimal // computed, rounded to cents
	InterestAccrued decimal.Decimal // computed, cumulative interest, rounded to cents
}

// MarshalJSON implements the json.Marshaler interface for Account.
func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("id", a.ID)
	w.Field("name", a.Name)
	w.Field("email", a.Email)
	w.Money("balance", a.Balance)
	w.Money("interestAccrued", a.InterestAccrued)
	return w.MarshalJSON()
}

// Transaction is an IOU: From owes To the Amount since Date.
type Transaction struct {
	Date        date.Date
	Amount      decimal.Decimal
	From        string
	To          string
	Description string
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("date", t.Date)
	w.Field("amount", t.Amount)
	w.Field("from", t.From)
	w.Field("to", t.To)
	w.Field("description", t.Description)
	return w.MarshalJSON()
}

// InterestRate is a change of the simple annual rate, effective from Date
// until the next change.
type InterestRate struct {
	Date date.Date
	Rate decimal.Decimal // 0.05 is 5% a year
}

// MarshalJSON implements the json.Marshaler interface for InterestRate.
func (r InterestRate) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("date", r.Date)
	w.Field("rate", r.Rate)
	return w.MarshalJSON()
}

// Indefinite is the end date keyword of a monthly series that never ends.
const Indefinite = "INDEFINITE"

// Series is a recurring monthly IOU.
type Series struct {
	Start       date.Date
	End         date.Date // ignored when Indefinite is true
	Indefinite  bool
	Amount      decimal.Decimal
	From        string
	To          string
	Description string
}

// Expand returns one transaction per month from Start to End inclusive, on
// Start's day of the month, clamped to the end of shorter months.
//
// An indefinite series ends one month after today.
func (s Series) Expand(today date.Date) []Transaction {
	end := s.End
	if s.Indefinite {
		end = today.AddMonthClamped(1)
	}
	var txs []Transaction
	for i := 0; ; i++ {
		on := s.Start.AddMonthClamped(i)
		if on.After(end) {
			return txs
		}
		txs = append(txs, Transaction{
			Date:        on,
			Amount:      s.Amount,
			From:        s.From,
			To:          s.To,
			Description: s.Description,
		})
	}
}

// Reference is one use of an undeclared account by a transaction.
type Reference struct {
	Date        date.Date
	Description string
	Role        string // "from" or "to"
}

// MarshalJSON implements the json.Marshaler interface for Reference.
func (r Reference) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("date", r.Date)
	w.Field("description", r.Description)
	w.Field("role", r.Role)
	return w.MarshalJSON()
}

// UnregisteredAccount lists the transactions using an account id that is
// never declared.
type UnregisteredAccount struct {
	ID         string
	References []Reference
}

// MarshalJSON implements the json.Marshaler interface for UnregisteredAccount.
func (u UnregisteredAccount) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("id", u.ID)
	listField(&w, "references", u.References, false)
	return w.MarshalJSON()
}
