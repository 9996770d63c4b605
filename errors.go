package yootles

import (
	"errors"
	"fmt"
)

// SyntaxError reports a line that names a ledger keyword but matches none of
// the entry grammars. It aborts the whole computation.
type SyntaxError struct {
	Line int    // 1-based source line number
	Text string // trimmed source line
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// ExprError reports an amount expression that could not be evaluated.
// It is recoverable: the amount defaults to zero.
type ExprError struct {
	Expr string
	Pos  int // byte offset in Expr where evaluation stopped
	Msg  string
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("invalid amount expression %q at %d: %s", e.Expr, e.Pos, e.Msg)
}

// Errors returned by Load, following the snapshot taxonomy of the web front end.
var (
	ErrInvalidName = errors.New("invalid ledger name")
	ErrNotFound    = errors.New("ledger not found")
	ErrEmpty       = errors.New("ledger is empty")
	ErrNoAccounts  = errors.New("ledger has no accounts defined")
	ErrRead        = errors.New("could not read ledger")
)
