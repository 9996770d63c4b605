// Package renderer renders ledgers as markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/etnz/yootles"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// Currency used to display amounts. Ledgers carry no currency, the pad
// community has always been counting in dollars.
const Currency = money.USD

var funcs = template.FuncMap{
	"money":   formatMoney,
	"percent": formatPercent,
	"cell":    cell,
}

// formatMoney formats d in Currency, like -$1,050.73.
func formatMoney(d decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// formatPercent formats an annual rate, 0.05 is 5.00%.
func formatPercent(rate decimal.Decimal) string {
	return rate.Shift(2).StringFixed(2) + "%"
}

// cell escapes text for a markdown table cell.
func cell(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}

// RenderBalances renders the accounts of a ledger with their balances,
// followed by the unregistered accounts, if any.
func RenderBalances(l *yootles.Ledger) string {
	partials := map[string]string{
		"unregistered": "unregistered.md",
	}
	return renderTemplate("balances", "balances.md", partials, l)
}

// RenderTransactions renders the transactions of a ledger in source order.
func RenderTransactions(l *yootles.Ledger) string {
	return renderTemplate("transactions", "transactions.md", nil, l)
}

// RenderRates renders the interest rate history of a ledger.
func RenderRates(l *yootles.Ledger) string {
	return renderTemplate("rates", "rates.md", nil, l)
}

// Statement is the history of one account.
type Statement struct {
	Ledger  *yootles.Ledger
	Account *yootles.Account
	Lines   []yootles.StatementLine
}

// RenderStatement renders the statement of the account id.
func RenderStatement(l *yootles.Ledger, id string) (string, error) {
	lines, err := l.Statement(id)
	if err != nil {
		return "", err
	}
	s := &Statement{Ledger: l, Account: l.Account(id), Lines: lines}
	return renderTemplate("statement", "statement.md", nil, s), nil
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
