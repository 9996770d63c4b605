// Package store persists ledger sources, or snapshots, by ledger name.
package store

import (
	"context"
	"fmt"

	"github.com/etnz/yootles"
)

// Store is a yootles.Store that can also enumerate its ledgers.
type Store interface {
	yootles.Store
	// List returns the names of the stored ledgers, sorted.
	List(ctx context.Context) ([]string, error)
}

// Kinds of store accepted by Open.
const (
	KindDir    = "dir"
	KindSQLite = "sqlite"
)

// Open opens the store of the given kind: a directory of snapshot files or a
// SQLite database file.
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindDir, "":
		return Dir(path), nil
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q, want %q or %q", kind, KindDir, KindSQLite)
	}
}

// checkName rejects names that could escape the store.
func checkName(name string) error {
	if !yootles.ValidName(name) {
		return fmt.Errorf("%w: %q", yootles.ErrInvalidName, name)
	}
	return nil
}
