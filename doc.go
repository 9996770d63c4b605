// Package yootles computes the balances of shared IOU ledgers.
//
// A ledger is a plain text document, usually edited collaboratively, where
// friends record who owes whom:
//
//	account[alice, "Alice A", "alice@example.com"];
//	account[bob, "Bob B"];
//	iou[2024.01.15, 30*2, alice, bob, "concert tickets"];
//	iouMonthly[2024.02.01, INDEFINITE, 500, bob, alice, "rent"];
//	irate[2024.01.01] = .05;
//
// Each line declares an account, a one-off IOU, a monthly recurring IOU or a
// change of the simple interest rate. Process parses such a source and
// replays it chronologically up to a given day: every transaction moves money
// from one account to the other, and between two events every balance
// accrues interest at the rate in effect. The ledger is a closed system, the
// sum of all balances is zero.
//
// Processing is pure: no I/O and no shared state. Ledger sources are
// persisted by a Store, fetched from the collaborative pad by a PadSource and
// checked against the historical compute service by a Delegate.
//
// This package serves as the foundational logic for the `yl` command-line
// tool and its HTTP server.
package yootles
