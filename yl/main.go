// Command yl views and maintains shared IOU ledgers.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/yootles/cmd"
	"github.com/etnz/yootles/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("yl")

	commander := subcommands.NewCommander(flag.CommandLine, "yl")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion, enabled with
// COMP_INSTALL=1 yl.
func completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	topics = append(topics, docs.Readme)
	noFlags := &complete.Command{}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"l":     predict.Something,
			"f":     predict.Files("*.txt"),
			"store": predict.Set{"dir", "sqlite"},
			"data":  predict.Files("*"),
			"pad":   predict.Something,
			"today": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"balances":     noFlags,
			"rates":        noFlags,
			"transactions": {Flags: map[string]complete.Predictor{"csv": predict.Nothing}},
			"statement":    {Flags: map[string]complete.Predictor{"a": predict.Something}},
			"check": {Flags: map[string]complete.Predictor{
				"delegate": predict.Something,
				"timeout":  predict.Something,
				"retries":  predict.Something,
			}},
			"refresh": noFlags,
			"serve":   {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"topic":   {Args: predict.Set(topics)},
			"assist":  noFlags,
			"help":    noFlags,
		},
	}
}
