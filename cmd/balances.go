package cmd

import (
	"context"
	"flag"

	"github.com/etnz/yootles/renderer"
	"github.com/google/subcommands"
)

type balancesCmd struct{}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the balance of every account" }
func (*balancesCmd) Usage() string {
	return `yl [-l <name> | -f <file>] balances

  Displays every account with its balance and the interest it accrued, as of
  today, followed by the accounts used in transactions but never declared.
`
}

func (*balancesCmd) SetFlags(f *flag.FlagSet) {}

func (*balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger(ctx)
	if err != nil {
		return exitOn(err)
	}
	printMarkdown(renderer.RenderBalances(l))
	return subcommands.ExitSuccess
}

type ratesCmd struct{}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display the interest rate history" }
func (*ratesCmd) Usage() string {
	return `yl [-l <name> | -f <file>] rates

  Displays every interest rate change of the ledger, and the current rate.
`
}

func (*ratesCmd) SetFlags(f *flag.FlagSet) {}

func (*ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := DecodeLedger(ctx)
	if err != nil {
		return exitOn(err)
	}
	printMarkdown(renderer.RenderRates(l))
	return subcommands.ExitSuccess
}
