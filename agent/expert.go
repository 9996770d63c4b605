package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// maxRounds bounds the function call rounds of a single question.
const maxRounds = 8

// Expert is a chat with a model instructed for one job, optionally with
// functions it can call.
type Expert struct {
	Name        string
	Description string
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library // serves the function calls, nil if the expert has no tools
	chat        *genai.Chat
}

// Start creates the expert's chat.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("could not start expert %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// Ask sends parts to the expert and returns its text answer. The function
// calls the expert makes meanwhile are served by its Library, all the calls
// of a round answered together.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	if e.chat == nil {
		return "", fmt.Errorf("expert %s is not started", e.Name)
	}
	for round := 0; round < maxRounds; round++ {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("no response from expert %s", e.Name)
		}

		var answer []string
		var calls []*genai.Part
		for _, p := range resp.Candidates[0].Content.Parts {
			switch {
			case p.FunctionCall != nil:
				if e.Library == nil {
					return "", fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
				}
				// Failures go back to the expert in the response.
				calls = append(calls, &genai.Part{FunctionResponse: e.Library(ctx, p.FunctionCall)})
			case p.Text != "" && !p.Thought:
				answer = append(answer, p.Text)
			}
		}
		if len(calls) == 0 {
			if len(answer) == 0 {
				return "", fmt.Errorf("empty response from expert %s", e.Name)
			}
			return strings.Join(answer, ""), nil
		}
		parts = calls
	}
	return "", errors.New("too many function calls from expert " + e.Name)
}

// Declaration declares the expert as a function taking a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question to ask the expert.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "Expert's response.",
		},
	}
}

// Call asks this expert the "question" argument.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return errorResponse(id, e.Name, fmt.Errorf("invalid question type %T, expected string", args["question"]))
	}
	answer, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, e.Name, fmt.Errorf("the expert could not answer: %w", err))
	}
	log.Printf("expert %s: %q -> %d bytes", e.Name, question, len(answer))
	return outputResponse(id, e.Name, answer)
}
