package yootles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"strings"

	"github.com/etnz/yootles/date"
)

// Store persists ledger sources by name.
//
// Load must return an error wrapping fs.ErrNotExist for unknown names.
type Store interface {
	Load(ctx context.Context, name string) (string, error)
	Save(ctx context.Context, name, text string) error
}

var nameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidName reports whether name can name a ledger.
func ValidName(name string) bool { return nameRE.MatchString(name) }

// Load reads the ledger name from the store and processes it as of today.
//
// Errors wrap one of ErrInvalidName, ErrNotFound, ErrEmpty, ErrNoAccounts or
// ErrRead. A source with a syntax error is not a Go error: the returned
// ledger carries it.
func Load(ctx context.Context, s Store, name string, today date.Date) (*Ledger, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	text, err := s.Load(ctx, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case err != nil:
		log.Printf("could not read ledger %q: %v", name, err)
		return nil, fmt.Errorf("%w %q: %w", ErrRead, name, err)
	case strings.TrimSpace(text) == "":
		return nil, fmt.Errorf("%w: %q", ErrEmpty, name)
	}

	ledger := Process(text, today)
	ledger.ID = name
	if ledger.Error == "" && len(ledger.Accounts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoAccounts, name)
	}
	return ledger, nil
}
