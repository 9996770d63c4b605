package cmd

import (
	"context"
	"flag"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/renderer"
	"github.com/google/subcommands"
)

type transactionsCmd struct {
	csv bool
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list the ledger transactions" }
func (*transactionsCmd) Usage() string {
	return `yl [-l <name> | -f <file>] transactions [-csv]

  Lists every transaction in source order, monthly series expanded.

Usage Examples:
# Export the transactions to a spreadsheet.
$ yl -l flat transactions -csv > flat.csv
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.csv, "csv", false, "Write CSV (Date,From,To,Amount,Description) instead of markdown.")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger(ctx)
	if err != nil {
		return exitOn(err)
	}
	if c.csv {
		if err := yootles.EncodeTransactionsCSV(stdout, l); err != nil {
			return exitOn(err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderTransactions(l))
	return subcommands.ExitSuccess
}
