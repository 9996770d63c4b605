package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library serves the function calls of a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool a model can call.
type Function interface {
	// Declare this function
	Declaration() *genai.FunctionDeclaration
	// Call this function
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary returns a Library dispatching calls to functions by name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return errorResponse(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
	}
}

// NewDeclaration returns the declarations of functions.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// Func implements a simple Function
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}

func outputResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}
