package cmd

import (
	"context"
	"flag"

	"github.com/etnz/yootles/renderer"
	"github.com/google/subcommands"
)

type statementCmd struct {
	account string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "display the statement of an account" }
func (*statementCmd) Usage() string {
	return `yl [-l <name> | -f <file>] statement -a <account>

  Displays every transaction and interest accrual of an account with the
  running balance.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id")
}

func (c *statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	l, err := DecodeLedger(ctx)
	if err != nil {
		return exitOn(err)
	}
	md, err := renderer.RenderStatement(l, c.account)
	if err != nil {
		return exitOn(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
