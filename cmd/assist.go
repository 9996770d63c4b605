package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/yootles/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `yl [-l <name> | -f <file>] assist [<question>]

  Starts an interactive session with an assistant that reads the ledger and
  writes new entries for it. It needs a Gemini API key (GEMINI_API_KEY).
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	l, err := DecodeLedger(ctx)
	if err != nil {
		return exitOn(err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	clerk, err := agent.NewClerk()
	if err != nil {
		return exitOn(err)
	}
	a := agent.New(os.Stdout, os.Stdin, agent.NewAccountant(l), clerk)
	a.Print = printAssist

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
