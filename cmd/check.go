package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/yootles"
	"github.com/google/subcommands"
)

type checkCmd struct {
	delegate string
	timeout  time.Duration
	retries  int
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate a ledger, and compare it with the compute service" }
func (*checkCmd) Usage() string {
	return `yl [-l <name> | -f <file>] check [-delegate <url>]

  Validates the ledger source: reports the first syntax error and every
  warning. With -delegate, also asks the remote compute service for the
  balances and reports every account whose balance differs to the cent.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.delegate, "delegate", os.Getenv(EnvDelegateURL), "URL of the compute service to compare balances with.")
	f.DurationVar(&c.timeout, "timeout", envDuration(EnvDelegateTimeout, 30*time.Second), "Timeout of each compute service attempt.")
	f.IntVar(&c.retries, "retries", envInt(EnvDelegateRetries, 2), "Retries after a compute service transport failure.")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	src, err := readSource(ctx)
	if err != nil {
		return exitOn(err)
	}
	on, err := today()
	if err != nil {
		return exitOn(err)
	}
	l := yootles.Process(src, on)
	if err := l.Err(); err != nil {
		return exitOn(err)
	}
	for _, w := range l.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
	}
	fmt.Fprintf(stdout, "%d accounts, %d transactions, %d rate changes, current rate %s\n",
		len(l.Accounts), len(l.Transactions), len(l.InterestRates), l.CurrentRate())

	if c.delegate == "" {
		return subcommands.ExitSuccess
	}
	d := yootles.Delegate{URL: c.delegate, Timeout: c.timeout, Retries: c.retries}
	remote, err := d.Balances(ctx, src)
	if err != nil {
		return exitOn(err)
	}
	diffs := yootles.CompareBalances(l, remote)
	for _, d := range diffs {
		fmt.Fprintf(stdout, "%s: local %s, remote %s\n", d.ID, d.Local.StringFixed(2), d.Remote.StringFixed(2))
	}
	if len(diffs) > 0 {
		fmt.Fprintf(os.Stderr, "%d balances differ from %s\n", len(diffs), c.delegate)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, "balances match the compute service")
	return subcommands.ExitSuccess
}
