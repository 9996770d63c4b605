package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/notify"
	"github.com/etnz/yootles/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledgers as a JSON and CSV HTTP API" }
func (*serveCmd) Usage() string {
	return `yl serve [-addr <host:port>]

  Serves the ledgers of the store:
    GET  /api/ledger/{name}                     ledger JSON
    GET  /api/ledger/{name}/transactions.csv    transactions CSV
    GET  /api/ledger/{name}/statement/{account} account statement JSON
    POST /api/ledger/{name}/refresh             fetch the pad and save
  When Kafka brokers are configured (YL_KAFKA_BROKERS), refreshes are
  published, and refreshes made by other processes evict the cached ledgers.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", envOr("PORT", ":8080"), "Address to listen on.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := OpenStore()
	if err != nil {
		return exitOn(err)
	}
	defer closeStore(s)

	brokers := envList(EnvKafkaBrokers)
	topic := envOr(EnvKafkaTopic, notify.DefaultTopic)
	n := notify.New(brokers, topic)
	if closer, ok := n.(io.Closer); ok {
		defer closer.Close()
	}

	srv := server.New(s, yootles.PadSource{BaseURL: *padURL}, n)

	if len(brokers) > 0 {
		host, _ := os.Hostname()
		sub := notify.NewSubscriber(brokers, topic, fmt.Sprintf("yl-serve-%s-%d", host, os.Getpid()))
		defer sub.Close()
		go func() {
			err := sub.Listen(ctx, func(e notify.Event) {
				log.Printf("ledger %q changed (%s), evicting it", e.Ledger, e.ID)
				srv.Invalidate(e.Ledger)
			})
			if err != nil {
				log.Printf("stopped listening to ledger changes: %v", err)
			}
		}()
	}

	if err := srv.ListenAndServe(ctx, c.addr); err != nil {
		return exitOn(err)
	}
	return subcommands.ExitSuccess
}
