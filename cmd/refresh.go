package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/notify"
	"github.com/google/subcommands"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch ledgers from the pad and save their snapshot" }
func (*refreshCmd) Usage() string {
	return `yl [-l <name>] refresh [<name>...]

  Fetches the plain text of each ledger from its collaborative pad and saves
  it as the new snapshot. Viewers are notified when Kafka brokers are
  configured (YL_KAFKA_BROKERS).

Usage Examples:
# Refresh every ledger already in the store.
$ yl refresh
`
}

func (*refreshCmd) SetFlags(f *flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenStore()
	if err != nil {
		return exitOn(err)
	}
	defer closeStore(s)

	names := f.Args()
	if len(names) == 0 && *ledgerName != "" {
		names = []string{*ledgerName}
	}
	if len(names) == 0 {
		if names, err = s.List(ctx); err != nil {
			return exitOn(err)
		}
	}

	n := notify.New(envList(EnvKafkaBrokers), envOr(EnvKafkaTopic, notify.DefaultTopic))
	if c, ok := n.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Printf("could not close notifier: %v", err)
			}
		}()
	}

	pad := yootles.PadSource{BaseURL: *padURL}
	status := subcommands.ExitSuccess
	for _, name := range names {
		if err := yootles.Refresh(ctx, pad, s, n, name); err != nil {
			fmt.Fprintf(stdout, "❌ %s: %v\n", name, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(stdout, "✅ %s refreshed\n", name)
	}
	return status
}
