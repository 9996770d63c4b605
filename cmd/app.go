// Package cmd implements the yl command line application to view and
// maintain shared IOU ledgers.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/yootles"
	"github.com/etnz/yootles/date"
	"github.com/etnz/yootles/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Environment variables providing the default value of the global flags.
const (
	EnvLedger          = "YL_LEDGER"
	EnvDataDir         = "YL_DATA_DIR"
	EnvStore           = "YL_STORE"
	EnvPadURL          = "YL_PAD_URL"
	EnvDelegateURL     = "YL_DELEGATE_URL"
	EnvDelegateTimeout = "YL_DELEGATE_TIMEOUT"
	EnvDelegateRetries = "YL_DELEGATE_RETRIES"
	EnvKafkaBrokers    = "YL_KAFKA_BROKERS"
	EnvKafkaTopic      = "YL_KAFKA_TOPIC"
)

func init() {
	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, cannot read .env file:", err)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerName = flag.String("l", os.Getenv(EnvLedger), "Name of the ledger to read from the store.")
	sourceFile = flag.String("f", "", "Read the ledger source from this file instead of the store, '-' for stdin.")
	storeKind  = flag.String("store", envOr(EnvStore, store.KindDir), "Kind of snapshot store: dir or sqlite.")
	dataDir    = flag.String("data", envOr(EnvDataDir, "data"), "Snapshot directory, or SQLite database file.")
	padURL     = flag.String("pad", envOr(EnvPadURL, yootles.DefaultPadURL), "Collaborative pad server hosting the ledger sources.")
	todayFlag  = flag.String("today", "", "Compute the ledger as of this day (YYYY.MM.DD) instead of today.")
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&balancesCmd{}, "ledger")
	c.Register(&transactionsCmd{}, "ledger")
	c.Register(&ratesCmd{}, "ledger")
	c.Register(&statementCmd{}, "ledger")
	c.Register(&checkCmd{}, "ledger")

	c.Register(&refreshCmd{}, "snapshots")
	c.Register(&serveCmd{}, "snapshots")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// stdout is where commands write their output.
var stdout io.Writer = os.Stdout

// envOr returns the environment variable key, or def if it is not set.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// envList splits a comma separated environment variable.
func envList(key string) []string {
	var list []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}

// today returns the day the ledgers are computed on.
func today() (date.Date, error) {
	if *todayFlag == "" {
		return date.Today(), nil
	}
	return date.Parse(*todayFlag)
}

// OpenStore opens the snapshot store selected by the global flags.
func OpenStore() (store.Store, error) {
	return store.Open(*storeKind, *dataDir)
}

// readSource returns the ledger source from the -f file, or from the store.
func readSource(ctx context.Context) (string, error) {
	switch *sourceFile {
	case "":
	case "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	default:
		b, err := os.ReadFile(*sourceFile)
		return string(b), err
	}
	if *ledgerName == "" {
		return "", errors.New("no ledger: use -l <name> or -f <file>")
	}
	s, err := OpenStore()
	if err != nil {
		return "", err
	}
	defer closeStore(s)
	return s.Load(ctx, *ledgerName)
}

// DecodeLedger reads the ledger selected by the global flags and computes it.
// A ledger with a syntax error is returned with a non nil error.
func DecodeLedger(ctx context.Context) (*yootles.Ledger, error) {
	on, err := today()
	if err != nil {
		return nil, err
	}
	var l *yootles.Ledger
	if *sourceFile == "" && *ledgerName != "" {
		s, err := OpenStore()
		if err != nil {
			return nil, err
		}
		defer closeStore(s)
		l, err = yootles.Load(ctx, s, *ledgerName, on)
		if err != nil {
			return nil, err
		}
	} else {
		src, err := readSource(ctx)
		if err != nil {
			return nil, err
		}
		l = yootles.Process(src, on)
	}
	for _, w := range l.Warnings {
		log.Printf("warning: %v", w)
	}
	return l, l.Err()
}

func closeStore(s store.Store) {
	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("could not close store: %v", err)
		}
	}
}

// printMarkdown renders md for the terminal, or prints it raw when stdout is
// not the terminal or rendering fails.
func printMarkdown(md string) {
	if stdout != os.Stdout {
		fmt.Fprintln(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	log.Printf("could not render markdown: %v", err)
	fmt.Fprintln(stdout, md)
}

// printAssist is printMarkdown for the assistant answers.
func printAssist(w io.Writer, md string) {
	if w != os.Stdout {
		fmt.Fprintln(w, md)
		return
	}
	printMarkdown(md)
}

// exitOn reports err and returns the failure status.
func exitOn(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
