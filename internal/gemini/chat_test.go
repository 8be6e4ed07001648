package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/enrollchat/enrollchat/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", "gemini-2.5-flash")
	c.BaseURL = srv.URL
	return c
}

func modelTextReply(text string) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"role":  "model",
				"parts": []map[string]interface{}{{"text": text}},
			},
		}},
	})
	return b
}

func TestChat_SendMessageWireFormat(t *testing.T) {
	var got generateRequest
	var gotKey, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write(modelTextReply("hello"))
	})

	decls := []core.FunctionDeclaration{{Name: "search_courses"}}
	chat := c.StartConversation("You are an enrollment assistant.", decls)
	resp, err := chat.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}

	if gotKey != "test-key" {
		t.Errorf("api key header: %q", gotKey)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path: %q", gotPath)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "You are an enrollment assistant." {
		t.Error("system instruction not sent")
	}
	if len(got.Tools) != 1 || got.Tools[0].FunctionDeclarations[0].Name != "search_courses" {
		t.Error("tool declarations not sent")
	}
	if len(got.Contents) != 1 || got.Contents[0].Role != "user" || got.Contents[0].Parts[0].Text != "hi" {
		t.Errorf("contents: %+v", got.Contents)
	}
	if text, err := resp.Text(); err != nil || text != "hello" {
		t.Errorf("reply text: %q, %v", text, err)
	}
}

func TestChat_HistoryAccumulates(t *testing.T) {
	var lastContents int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		lastContents = len(req.Contents)
		w.Write(modelTextReply("ok"))
	})

	chat := c.StartConversation("", nil).(*Chat)
	if _, err := chat.SendMessage(context.Background(), "first"); err != nil {
		t.Fatal(err)
	}
	if chat.HistoryLen() != 2 {
		t.Errorf("history after one exchange: %d", chat.HistoryLen())
	}
	if _, err := chat.SendMessage(context.Background(), "second"); err != nil {
		t.Fatal(err)
	}
	// Second request carries user, model, user.
	if lastContents != 3 {
		t.Errorf("second request contents: %d", lastContents)
	}
	if chat.HistoryLen() != 4 {
		t.Errorf("history after two exchanges: %d", chat.HistoryLen())
	}
}

func TestChat_FunctionResponsesAsUserTurn(t *testing.T) {
	var got generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write(modelTextReply("done"))
	})

	chat := c.StartConversation("", nil)
	results := []core.FunctionResponse{
		{Name: "enroll_student", Response: map[string]interface{}{"result": "enrolled"}},
		{Name: "get_holds", Response: map[string]interface{}{"error": "timeout"}},
	}
	if _, err := chat.SendFunctionResponses(context.Background(), results); err != nil {
		t.Fatal(err)
	}

	turn := got.Contents[len(got.Contents)-1]
	if turn.Role != "user" {
		t.Errorf("function responses role: %q", turn.Role)
	}
	if len(turn.Parts) != 2 {
		t.Fatalf("expected 2 response parts, got %d", len(turn.Parts))
	}
	if turn.Parts[0].FunctionResponse == nil || turn.Parts[0].FunctionResponse.Name != "enroll_student" {
		t.Errorf("first part: %+v", turn.Parts[0])
	}
}

func TestChat_APIErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid argument","status":"INVALID_ARGUMENT"}}`))
	})

	chat := c.StartConversation("", nil).(*Chat)
	_, err := chat.SendMessage(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected API error")
	}
	// Failed sends must not pollute history.
	if chat.HistoryLen() != 0 {
		t.Errorf("history after failed send: %d", chat.HistoryLen())
	}
}

func TestClient_RequiresCredentials(t *testing.T) {
	c := NewClient("", "gemini-2.5-flash")
	if _, err := c.generate(context.Background(), generateRequest{}); err == nil {
		t.Error("expected error without API key")
	}
	c = NewClient("key", "")
	if _, err := c.generate(context.Background(), generateRequest{}); err == nil {
		t.Error("expected error without model")
	}
}
