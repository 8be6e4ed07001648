package core

import (
	"context"
	"errors"
)

// ErrNoContent is returned by GenerateResponse.Text when the response has
// no usable candidate text (blocked, empty, or tool-call-only).
var ErrNoContent = errors.New("model response has no text content")

// Conversation is one live model conversation: a server-side handle plus
// accumulated history. Implementations append each exchange to history so a
// session survives across requests.
type Conversation interface {
	// SendMessage sends plain user text and returns the model response.
	SendMessage(ctx context.Context, text string) (*GenerateResponse, error)
	// SendFunctionResponses sends a batch of tool results as the next turn.
	SendFunctionResponses(ctx context.Context, results []FunctionResponse) (*GenerateResponse, error)
}

// ModelClient abstracts the model provider (Gemini, a local stub, etc).
type ModelClient interface {
	StartConversation(systemInstruction string, decls []FunctionDeclaration) Conversation
}

// ToolClient abstracts the external tool server (MCP over stdio).
type ToolClient interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolCallResult, error)
}
