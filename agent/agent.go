// Package agent is a chat assistant answering questions about a ledger.
//
// A facilitator talks to the user and asks experts: the accountant reads the
// ledger through function calls, the clerk writes new entries.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent runs the chat session between the user and the facilitator.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Print writes an answer, in markdown. It defaults to the raw text.
	Print func(w io.Writer, markdown string)
}

// New returns an agent reading questions from r and writing answers to w.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
		Print:       func(w io.Writer, markdown string) { fmt.Fprintln(w, markdown) },
	}
}

// Start creates the chats of the experts and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "yl> "

// Run starts the session, if needed, and answers questions until the user
// says bye or closes the input. The prompts are asked first, as if typed.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.w, "Ask anything about the ledger. Type 'bye' to exit.")

	for {
		question, err := a.next(&prompts)
		if err == io.EOF || question == "bye" {
			return nil
		}
		if err != nil {
			return err
		}
		if question == "" {
			continue
		}
		answer, err := a.Facilitator.Ask(ctx, &genai.Part{Text: question})
		if err != nil {
			return err
		}
		a.Print(a.w, answer)
	}
}

// next returns the next question: a queued prompt, or a line read from the user.
func (a *Agent) next(prompts *[]string) (string, error) {
	fmt.Fprint(a.w, prompt)
	if len(*prompts) > 0 {
		q := strings.TrimSpace((*prompts)[0])
		*prompts = (*prompts)[1:]
		fmt.Fprintln(a.w, q)
		return q, nil
	}
	line, err := a.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimSpace(line), err
}
