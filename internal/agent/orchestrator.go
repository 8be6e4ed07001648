package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/enrollchat/enrollchat/internal/core"
	"github.com/enrollchat/enrollchat/internal/session"
	"github.com/enrollchat/enrollchat/internal/store"
	"github.com/enrollchat/enrollchat/internal/toolserver"
)

// ErrMessageRequired is returned when a turn arrives with no message text.
var ErrMessageRequired = errors.New("message is required")

// ErrMissingUserContext is returned when a new session would have to be
// bootstrapped without knowing who the student is.
var ErrMissingUserContext = errors.New("user context is required to start a new session")

// malformedReply is the fixed substitute when the model finished with
// MALFORMED_FUNCTION_CALL and produced no text.
const malformedReply = "I'm sorry, I had trouble completing that action. Could you rephrase your request?"

// processedReply is the substitute when tool rounds ran but the final
// response carried no text at all.
const processedReply = "I've processed your request. Is there anything else I can help you with?"

// UserContext identifies the student a new session is opened for.
type UserContext struct {
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	ID        string `json:"id"`
}

// PriorMessage is one entry of browser-held history, replayed into a fresh
// conversation to reestablish context after a server restart.
type PriorMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is one incoming chat turn.
type TurnRequest struct {
	Message   string
	SessionID string
	Prior     []PriorMessage
	User      *UserContext
}

// TurnResult is the reply for one turn.
type TurnResult struct {
	ResponseText string
	SessionID    string
}

// Orchestrator drives one chat turn: resolve the session, send the message,
// execute requested tool calls against the enrollment tool server, feed
// results back, and extract the final reply text.
type Orchestrator struct {
	Model    core.ModelClient
	Tools    core.ToolClient
	Sessions *session.Store
	// DB receives the transcript when set; nil skips persistence.
	DB store.MessageStore
	// MaxToolTurns bounds tool-execution rounds per request.
	MaxToolTurns int
}

// NewOrchestrator wires an orchestrator with the default turn cap.
func NewOrchestrator(model core.ModelClient, tools core.ToolClient, sessions *session.Store, db store.MessageStore) *Orchestrator {
	return &Orchestrator{
		Model:        model,
		Tools:        tools,
		Sessions:     sessions,
		DB:           db,
		MaxToolTurns: 5,
	}
}

// RunTurn handles one incoming message and returns the assistant reply.
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return TurnResult{}, ErrMessageRequired
	}

	userID := ""
	if req.User != nil {
		userID = req.User.ID
	}

	conv, ok := o.Sessions.Get(req.SessionID)
	if !ok {
		var err error
		conv, err = o.startSession(ctx, req)
		if err != nil {
			return TurnResult{}, err
		}
	}

	if o.DB != nil {
		_, _ = o.DB.InsertMessage(ctx, "user", req.Message, req.SessionID, userID, "", "")
	}

	resp, err := conv.SendMessage(ctx, req.Message)
	if err != nil {
		return TurnResult{}, fmt.Errorf("sending message: %w", err)
	}

	calls := pendingCalls(resp)
	toolTurns := 0
	maxTurns := o.MaxToolTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	for len(calls) > 0 && toolTurns < maxTurns {
		toolTurns++
		log.Printf("[AGENT] Turn %d: executing %d tool calls", toolTurns, len(calls))

		results := make([]core.FunctionResponse, 0, len(calls))
		for _, call := range calls {
			results = append(results, o.executeCall(ctx, call))
		}
		if o.DB != nil {
			callsJSON, _ := json.Marshal(calls)
			resultsJSON, _ := json.Marshal(results)
			_, _ = o.DB.InsertMessage(ctx, "tool", "", req.SessionID, userID, string(callsJSON), string(resultsJSON))
		}

		resp, err = conv.SendFunctionResponses(ctx, results)
		if err != nil {
			return TurnResult{}, fmt.Errorf("sending tool results: %w", err)
		}
		calls = pendingCalls(resp)
	}
	if len(calls) > 0 {
		// Safety valve, not an error: abandon whatever the model still wants.
		log.Printf("[AGENT] Turn limit (%d) reached with %d tool calls pending; abandoning", maxTurns, len(calls))
	}

	text := replyText(resp, toolTurns)
	if o.DB != nil {
		_, _ = o.DB.InsertMessage(ctx, "assistant", text, req.SessionID, userID, "", "")
	}
	return TurnResult{ResponseText: text, SessionID: req.SessionID}, nil
}

// startSession bootstraps a conversation for an unseen session id. The
// session store is only written once the conversation is fully initialized,
// so a catalog or replay failure leaves no entry behind.
func (o *Orchestrator) startSession(ctx context.Context, req TurnRequest) (core.Conversation, error) {
	if req.User == nil {
		return nil, ErrMissingUserContext
	}

	decls, err := toolserver.Catalog(ctx, o.Tools)
	if err != nil {
		return nil, fmt.Errorf("fetching tool catalog: %w", err)
	}
	log.Printf("[AGENT] New session %s for %s: %d tools available", req.SessionID, req.User.StudentID, len(decls))

	conv := o.Model.StartConversation(systemInstruction(req.User), decls)

	// Replay only what the student said; assistant turns regenerate.
	for _, m := range req.Prior {
		if m.Role != "user" || strings.TrimSpace(m.Content) == "" {
			continue
		}
		if _, err := conv.SendMessage(ctx, m.Content); err != nil {
			return nil, fmt.Errorf("replaying prior context: %w", err)
		}
	}

	o.Sessions.Put(req.SessionID, conv)
	return conv, nil
}

// executeCall invokes one tool and wraps the outcome as a function response.
// Failures are folded into an error payload so the model can explain them;
// they never abort the loop.
func (o *Orchestrator) executeCall(ctx context.Context, call core.FunctionCall) core.FunctionResponse {
	result, err := o.Tools.CallTool(ctx, call.Name, call.Args)
	if err != nil {
		log.Printf("[AGENT] Tool %s failed: %v", call.Name, err)
		return core.FunctionResponse{
			Name:     call.Name,
			Response: map[string]interface{}{"error": err.Error()},
		}
	}
	var segments []string
	for _, c := range result.Content {
		if c.Type == "text" {
			segments = append(segments, c.Text)
		}
	}
	return core.FunctionResponse{
		Name:     call.Name,
		Response: map[string]interface{}{"result": strings.Join(segments, "\n")},
	}
}

// pendingCalls extracts tool calls from a response. The structured accessor
// can come back empty even when raw parts carry call payloads (upstream
// accessor unreliability workaround), so fall back to scanning every
// candidate's parts directly.
func pendingCalls(resp *core.GenerateResponse) []core.FunctionCall {
	if calls := resp.FunctionCalls(); len(calls) > 0 {
		return calls
	}
	var calls []core.FunctionCall
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.FunctionCall != nil {
				calls = append(calls, *p.FunctionCall)
			}
		}
	}
	return calls
}

// replyText extracts the final reply with the fallback chain: direct text
// accessor, fixed apology on a malformed function call, then raw first part
// or a generic line once tool rounds ran. Never empty after a tool turn.
func replyText(resp *core.GenerateResponse, toolTurns int) string {
	text, err := resp.Text()
	if err != nil {
		text = ""
	}
	if text != "" {
		return text
	}
	if resp.FinishReason() == core.FinishReasonMalformedFunctionCall {
		return malformedReply
	}
	if toolTurns > 0 {
		if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
			if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
				return t
			}
		}
		return processedReply
	}
	return text
}
