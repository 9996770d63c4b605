package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/yootles"
	"github.com/etnz/yootles/docs"
	"github.com/etnz/yootles/renderer"
	"google.golang.org/genai"
)

const modelName = "gemini-2.5-flash"

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "facilitator",
		Description: "Facilitator",
		ModelName:   modelName,
		Library:     NewLibrary(experts),
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: `You are the facilitator of a group of friends sharing an IOU ledger. They lend each other money, split bills, pay monthly rent to each other, and the balances accrue simple interest at a rate they agree on.
You answer their questions in markdown.
You are in contact with experts that you can call. Ask them what you need, they do not talk to each other.
- "accountant" knows the ledger: balances, transactions, interest rates and per account statements.
- "clerk" knows how to write entries in the ledger source.
Never invent amounts: ask the accountant.`},
				},
			},
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(experts)}},
		},
	}
}

// NewAccountant returns the expert answering questions about the ledger l.
func NewAccountant(l *yootles.Ledger) *Expert {
	functions := Functions(l)
	return &Expert{
		Name:        "accountant",
		Description: "Knows the ledger content: balances, transactions, interest rate history and account statements.",
		ModelName:   modelName,
		Library:     NewLibrary(functions),
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: fmt.Sprintf(`You are the accountant of a shared IOU ledger. Today is %s.
A positive balance means the account is owed money, a negative balance means it owes money. Balances always sum to zero.
Use your functions to read the ledger, never compute balances yourself.`, l.Today())},
				},
			},
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(functions)}},
		},
	}
}

// NewClerk returns the expert writing ledger entries.
func NewClerk() (*Expert, error) {
	syntax, err := docs.GetTopics("syntax", "dates", "interest")
	if err != nil {
		return nil, err
	}
	return &Expert{
		Name:        "clerk",
		Description: "Knows the ledger syntax and writes the entries to add to the ledger source.",
		ModelName:   modelName,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: "You write entries for a shared IOU ledger. Answer with the exact lines to add, in a ```ledger code block. The ledger documentation follows.\n\n" + syntax},
				},
			},
		},
	}, nil
}

// Functions returns the tools reading the ledger l.
func Functions(l *yootles.Ledger) []*Func {
	report := func(name, description string, render func(*yootles.Ledger) string) *Func {
		return &Func{
			Decl: &genai.FunctionDeclaration{
				Name:        name,
				Description: description,
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return outputResponse(id, name, render(l))
			},
		}
	}

	return []*Func{
		report("balances", "Returns the balance and the accrued interest of every account, as of today.", renderer.RenderBalances),
		report("transactions", "Returns every transaction of the ledger, monthly series expanded.", renderer.RenderTransactions),
		report("rates", "Returns the history of the interest rate.", renderer.RenderRates),
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "statement",
				Description: "Returns the statement of an account: every transaction and interest accrual with the running balance.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"account": {
							Type:        genai.TypeString,
							Description: "The account id, as declared in the ledger (e.g. alice).",
						},
					},
					Required: []string{"account"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown statement."},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				account, ok := args["account"].(string)
				if !ok {
					return errorResponse(id, "statement", fmt.Errorf("invalid type got %T, expected string", args["account"]))
				}
				md, err := renderer.RenderStatement(l, strings.TrimSpace(account))
				if err != nil {
					return errorResponse(id, "statement", err)
				}
				return outputResponse(id, "statement", md)
			},
		},
	}
}
