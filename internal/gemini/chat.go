package gemini

import (
	"context"
	"sync"

	"github.com/enrollchat/enrollchat/internal/core"
)

// Chat is one live conversation. Each send posts the system instruction,
// tool declarations, and the full accumulated history; the generateContent
// API is stateless, so the handle owns all state.
type Chat struct {
	client            *Client
	systemInstruction string
	declarations      []core.FunctionDeclaration

	mu      sync.Mutex
	history []core.Content
}

// SendMessage sends plain user text and returns the model response.
func (ch *Chat) SendMessage(ctx context.Context, text string) (*core.GenerateResponse, error) {
	return ch.send(ctx, core.Content{
		Role:  "user",
		Parts: []core.Part{{Text: text}},
	})
}

// SendFunctionResponses sends a batch of tool results as the next turn.
func (ch *Chat) SendFunctionResponses(ctx context.Context, results []core.FunctionResponse) (*core.GenerateResponse, error) {
	parts := make([]core.Part, 0, len(results))
	for i := range results {
		fr := results[i]
		parts = append(parts, core.Part{FunctionResponse: &fr})
	}
	return ch.send(ctx, core.Content{Role: "user", Parts: parts})
}

func (ch *Chat) send(ctx context.Context, next core.Content) (*core.GenerateResponse, error) {
	ch.mu.Lock()
	contents := make([]core.Content, 0, len(ch.history)+1)
	contents = append(contents, ch.history...)
	contents = append(contents, next)
	ch.mu.Unlock()

	req := generateRequest{Contents: contents}
	if ch.systemInstruction != "" {
		req.SystemInstruction = &core.Content{Parts: []core.Part{{Text: ch.systemInstruction}}}
	}
	if len(ch.declarations) > 0 {
		req.Tools = []tool{{FunctionDeclarations: ch.declarations}}
	}

	resp, err := ch.client.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	// Only record history after a successful round trip so a failed send can
	// be retried without a dangling user turn.
	ch.mu.Lock()
	ch.history = append(ch.history, next)
	if len(resp.Candidates) > 0 {
		reply := resp.Candidates[0].Content
		if reply.Role == "" {
			reply.Role = "model"
		}
		ch.history = append(ch.history, reply)
	}
	ch.mu.Unlock()
	return resp, nil
}

// HistoryLen reports the number of recorded turns (for tests and logs).
func (ch *Chat) HistoryLen() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.history)
}
