package yootles

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/etnz/yootles/date"
	"github.com/shopspring/decimal"
)

// day is a helper for test to create dates from const.
func day(s string) date.Date { return date.MustParse(s) }

// dec is a helper for test to create decimals from const.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// balances returns the balance of every account, by id.
func balances(l *Ledger) map[string]string {
	m := make(map[string]string, len(l.Accounts))
	for _, a := range l.Accounts {
		m[a.ID] = a.Balance.StringFixed(2)
	}
	return m
}

// memStore is an in-memory Store.
type memStore map[string]string

func (m memStore) Load(_ context.Context, name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return text, nil
}

func (m memStore) Save(_ context.Context, name, text string) error {
	m[name] = text
	return nil
}

// brokenStore fails every operation.
type brokenStore struct{ err error }

func (b brokenStore) Load(context.Context, string) (string, error) { return "", b.err }
func (b brokenStore) Save(context.Context, string, string) error   { return b.err }
