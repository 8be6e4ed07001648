package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/enrollchat/enrollchat/internal/agent"
	"github.com/enrollchat/enrollchat/internal/session"
	"github.com/enrollchat/enrollchat/internal/store"
)

// chatRequest is the POST /chat body sent by the chat page.
type chatRequest struct {
	Message   string               `json:"message"`
	SessionID string               `json:"sessionId"`
	Messages  []agent.PriorMessage `json:"messages,omitempty"`
	User      *agent.UserContext   `json:"user,omitempty"`
}

// chatResponse is the POST /chat reply.
type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

// clearRequest is the DELETE /chat body; a missing sessionId clears everything.
type clearRequest struct {
	SessionID string `json:"sessionId,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Server serves the chat and health endpoints.
type Server struct {
	Addr         string
	Orchestrator *agent.Orchestrator
	Sessions     *session.Store
	DB           *store.DB // optional; user records are upserted when set

	httpServer *http.Server
}

// Handler returns the route table (exposed for tests).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/chat", s.handleChat)
	return mux
}

// Run starts the HTTP server and blocks until Shutdown or failure.
func (s *Server) Run() error {
	s.httpServer = &http.Server{Addr: s.Addr, Handler: s.Handler()}
	log.Printf("[Server] listening on %s", s.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleChatMessage(w, r)
	case http.MethodDelete:
		s.handleChatClear(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// The chat page normally mints the session id; cover clients that don't.
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	if s.DB != nil && req.User != nil && req.User.ID != "" {
		if _, err := s.DB.GetOrCreateUser(r.Context(), req.User.ID, req.User.Name, req.User.StudentID); err != nil {
			log.Printf("[Server] user upsert failed for %s: %v", req.User.ID, err)
		}
	}

	result, err := s.Orchestrator.RunTurn(r.Context(), agent.TurnRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
		Prior:     req.Messages,
		User:      req.User,
	})
	if err != nil {
		if errors.Is(err, agent.ErrMessageRequired) || errors.Is(err, agent.ErrMissingUserContext) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		log.Printf("[Server] chat turn failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   "Failed to process message",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  result.ResponseText,
		SessionID: result.SessionID,
	})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.SessionID != "" {
		s.Sessions.Remove(req.SessionID)
		log.Printf("[Server] cleared session %s", req.SessionID)
	} else {
		s.Sessions.Clear()
		log.Printf("[Server] cleared all sessions")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] encode response: %v", err)
	}
}
