package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/enrollchat/enrollchat/internal/core"
)

const BaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent API.
type Client struct {
	APIKey  string
	Model   string
	BaseURL string // defaults to the public endpoint
	HTTP    *http.Client
}

// NewClient creates a client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: BaseURL,
		HTTP:    http.DefaultClient,
	}
}

// tool wraps function declarations the way the wire format nests them.
type tool struct {
	FunctionDeclarations []core.FunctionDeclaration `json:"functionDeclarations"`
}

// generateRequest is the request body for models/{model}:generateContent.
type generateRequest struct {
	SystemInstruction *core.Content  `json:"systemInstruction,omitempty"`
	Tools             []tool         `json:"tools,omitempty"`
	Contents          []core.Content `json:"contents"`
}

// generateResponse is the wire response, including the API error envelope.
type generateResponse struct {
	Candidates []core.Candidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// StartConversation returns a conversation with the given system instruction
// and tool declarations. History accumulates in memory; nothing is sent
// until the first message.
func (c *Client) StartConversation(systemInstruction string, decls []core.FunctionDeclaration) core.Conversation {
	return &Chat{
		client:            c,
		systemInstruction: systemInstruction,
		declarations:      decls,
	}
}

// generate sends the full conversation state and returns the model response.
// Includes retry with exponential backoff for transient errors (5xx, 429,
// network errors).
func (c *Client) generate(ctx context.Context, req generateRequest) (*core.GenerateResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key not set")
	}
	if c.Model == "" {
		return nil, fmt.Errorf("gemini: model not set")
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	base := c.BaseURL
	if base == "" {
		base = BaseURL
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", base, c.Model)

	maxRetries := 3
	backoff := 1 * time.Second
	var resp *http.Response
	var lastErr error
	var bodyBytes []byte

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[GEMINI] Retry %d/%d after %v...", attempt, maxRetries, backoff)
			time.Sleep(backoff)
			backoff *= 2
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", c.APIKey)

		resp, lastErr = c.HTTP.Do(httpReq)
		if lastErr != nil {
			log.Printf("[GEMINI] Network error: %v", lastErr)
			continue
		}

		bodyBytes, _ = io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			log.Printf("[GEMINI] Retryable error: HTTP %d", resp.StatusCode)
			continue
		}
		break
	}

	if lastErr != nil {
		return nil, fmt.Errorf("gemini: request failed after %d retries: %w", maxRetries, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: request failed after %d retries", maxRetries)
	}

	var out generateResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, fmt.Errorf("gemini: decode: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("gemini: %s (HTTP %d)", out.Error.Message, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return &core.GenerateResponse{Candidates: out.Candidates}, nil
}
