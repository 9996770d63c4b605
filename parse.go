package yootles

import (
	"fmt"
	"log"
	"strings"

	"github.com/etnz/yootles/date"
	"github.com/shopspring/decimal"
)

// Entry keywords. A line holding one of them must parse.
const (
	kwAccount = "account["
	kwIOU     = "iou["
	kwMonthly = "iouMonthly["
	kwRate    = "irate["
)

var keywords = []string{kwAccount, kwIOU, kwMonthly, kwRate}

// scanner reads the fields of one entry. Every method skips the blanks in
// front of what it reads and reports false when the input does not match.
type scanner struct {
	s   string
	pos int
}

// after positions a scanner right after the first occurrence of kw in s.
func after(s, kw string) (*scanner, bool) {
	i := strings.Index(s, kw)
	if i < 0 {
		return nil, false
	}
	return &scanner{s: s, pos: i + len(kw)}, true
}

func (sc *scanner) space() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

// char consumes the byte c.
func (sc *scanner) char(c byte) bool {
	sc.space()
	if sc.pos < len(sc.s) && sc.s[sc.pos] == c {
		sc.pos++
		return true
	}
	return false
}

// field returns the trimmed text up to the next comma, not consuming it.
func (sc *scanner) field() (string, bool) {
	sc.space()
	i := strings.IndexByte(sc.s[sc.pos:], ',')
	if i < 0 {
		return "", false
	}
	f := strings.TrimSpace(sc.s[sc.pos : sc.pos+i])
	if f == "" {
		return "", false
	}
	sc.pos += i
	return f, true
}

// item reads a field followed by a comma.
func (sc *scanner) item() (string, bool) {
	f, ok := sc.field()
	return f, ok && sc.char(',')
}

// quoted reads a double quoted string, without any escape.
func (sc *scanner) quoted() (string, bool) {
	if !sc.char('"') {
		return "", false
	}
	i := strings.IndexByte(sc.s[sc.pos:], '"')
	if i < 0 {
		return "", false
	}
	q := sc.s[sc.pos : sc.pos+i]
	sc.pos += i + 1
	return q, true
}

// digits reads a run of digits and dots.
func (sc *scanner) digits() (string, bool) {
	sc.space()
	start := sc.pos
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == '.' || ('0' <= sc.s[sc.pos] && sc.s[sc.pos] <= '9')) {
		sc.pos++
	}
	return sc.s[start:sc.pos], sc.pos > start
}

// date reads a YYYY.MM.DD date.
func (sc *scanner) date() (date.Date, bool) {
	at := sc.pos
	s, ok := sc.digits()
	if !ok {
		return date.Date{}, false
	}
	d, err := date.Parse(s)
	if err != nil {
		sc.pos = at
		return date.Date{}, false
	}
	return d, true
}

// ParseAccount parses `account[ id , "name" (, "email")? ]`.
func ParseAccount(s string) (Account, bool) {
	sc, ok := after(s, kwAccount)
	if !ok {
		return Account{}, false
	}
	id, ok := sc.item()
	if !ok {
		return Account{}, false
	}
	name, ok := sc.quoted()
	if !ok {
		return Account{}, false
	}
	var email string
	if sc.char(',') {
		if email, ok = sc.quoted(); !ok {
			return Account{}, false
		}
	}
	if !sc.char(']') {
		return Account{}, false
	}
	return Account{ID: id, Name: name, Email: email}, true
}

// ParseTransaction parses `iou[ date , amount , from , to , "description" ]`.
//
// An amount expression that cannot be evaluated is logged and counts as zero.
func ParseTransaction(s string) (Transaction, bool) {
	return parseTransaction(s, logWarning)
}

func parseTransaction(s string, warn func(error)) (Transaction, bool) {
	sc, ok := after(s, kwIOU)
	if !ok {
		return Transaction{}, false
	}
	var tx Transaction
	if tx.Date, ok = sc.date(); !ok || !sc.char(',') {
		return Transaction{}, false
	}
	expr, ok := sc.item()
	if !ok {
		return Transaction{}, false
	}
	if !parties(sc, &tx.From, &tx.To, &tx.Description) {
		return Transaction{}, false
	}
	tx.Amount = amount(expr, warn)
	return tx, true
}

// ParseMonthly parses
// `iouMonthly[ start , end|INDEFINITE , amount , from , to , "description" ]`.
func ParseMonthly(s string) (Series, bool) {
	return parseMonthly(s, logWarning)
}

func parseMonthly(s string, warn func(error)) (Series, bool) {
	sc, ok := after(s, kwMonthly)
	if !ok {
		return Series{}, false
	}
	var sr Series
	if sr.Start, ok = sc.date(); !ok || !sc.char(',') {
		return Series{}, false
	}
	if sc.space(); strings.HasPrefix(sc.s[sc.pos:], Indefinite) {
		sc.pos += len(Indefinite)
		sr.Indefinite = true
	} else if sr.End, ok = sc.date(); !ok {
		return Series{}, false
	}
	if !sc.char(',') {
		return Series{}, false
	}
	expr, ok := sc.item()
	if !ok {
		return Series{}, false
	}
	if !parties(sc, &sr.From, &sr.To, &sr.Description) {
		return Series{}, false
	}
	sr.Amount = amount(expr, warn)
	return sr, true
}

// ParseInterestRate parses either `irate[date] = .NN;`, where NN are the
// digits after the decimal point, or `irate[date, rate]`.
func ParseInterestRate(s string) (InterestRate, bool) {
	sc, ok := after(s, kwRate)
	if !ok {
		return InterestRate{}, false
	}
	var r InterestRate
	if r.Date, ok = sc.date(); !ok {
		return InterestRate{}, false
	}
	switch {
	case sc.char(']'):
		if !sc.char('=') {
			return InterestRate{}, false
		}
		sc.char('.')
		digits, ok := sc.digits()
		if !ok || strings.Contains(digits, ".") || !sc.char(';') {
			return InterestRate{}, false
		}
		r.Rate = decimal.RequireFromString("0." + digits)
	case sc.char(','):
		digits, ok := sc.digits()
		if !ok || !sc.char(']') {
			return InterestRate{}, false
		}
		rate, err := decimal.NewFromString(digits)
		if err != nil {
			return InterestRate{}, false
		}
		r.Rate = rate
	default:
		return InterestRate{}, false
	}
	return r, true
}

// parties reads the `from , to , "description" ]` tail of IOU entries.
func parties(sc *scanner, from, to, description *string) bool {
	var ok bool
	if *from, ok = sc.item(); !ok {
		return false
	}
	if *to, ok = sc.item(); !ok {
		return false
	}
	if *description, ok = sc.quoted(); !ok {
		return false
	}
	return sc.char(']')
}

// amount evaluates expr, a failure is reported to warn and counts as zero.
func amount(expr string, warn func(error)) decimal.Decimal {
	v, err := EvalAmount(expr)
	if err != nil {
		warn(err)
		return decimal.Zero
	}
	return v
}

func logWarning(err error) { log.Printf("warning: %v", err) }

// hasKeyword reports whether s names an entry keyword.
func hasKeyword(s string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// parser accumulates the entries of one ledger source.
type parser struct {
	today        date.Date
	accounts     []Account
	index        map[string]int // account position by id
	transactions []Transaction
	rates        []InterestRate
	warnings     []string
}

func newParser(today date.Date) *parser {
	return &parser{today: today, index: make(map[string]int)}
}

// parse dispatches one line to the entry parsers, in precedence order.
func (p *parser) parse(l line) error {
	warn := func(err error) {
		logWarning(err)
		p.warnings = append(p.warnings, fmt.Sprintf("line %d: %v", l.num, err))
	}
	if a, ok := ParseAccount(l.text); ok {
		p.declare(a)
		return nil
	}
	if tx, ok := parseTransaction(l.text, warn); ok {
		p.transactions = append(p.transactions, tx)
		return nil
	}
	if sr, ok := parseMonthly(l.text, warn); ok {
		// Occurrences take the place of the line, in date order.
		p.transactions = append(p.transactions, sr.Expand(p.today)...)
		return nil
	}
	if r, ok := ParseInterestRate(l.text); ok {
		p.rates = append(p.rates, r)
		return nil
	}
	if hasKeyword(l.text) {
		return &SyntaxError{Line: l.num, Text: l.text, Msg: "syntax error"}
	}
	return nil
}

// declare records an account. A second declaration of the same id keeps the
// first position and takes the new display fields.
func (p *parser) declare(a Account) {
	if i, exists := p.index[a.ID]; exists {
		p.accounts[i].Name, p.accounts[i].Email = a.Name, a.Email
		return
	}
	p.index[a.ID] = len(p.accounts)
	p.accounts = append(p.accounts, a)
}
