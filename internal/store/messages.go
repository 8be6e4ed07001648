package store

import (
	"context"
	"database/sql"
	"time"
)

// Message is one persisted transcript entry (user, assistant, or tool).
type Message struct {
	ID          int64     `json:"id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id,omitempty"`
	ToolCalls   string    `json:"tool_calls,omitempty"`   // JSON
	ToolResults string    `json:"tool_results,omitempty"` // JSON
	CreatedAt   time.Time `json:"created_at"`
}

// InsertMessage inserts a transcript entry and returns its id.
func (db *DB) InsertMessage(ctx context.Context, role, content, sessionID, userID, toolCalls, toolResults string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO messages (role, content, session_id, user_id, tool_calls, tool_results) VALUES (?, ?, ?, ?, ?, ?)`,
		role, content, sessionID, userID, toolCalls, toolResults,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentMessages returns the last N entries for a session in chronological
// order. Pass sessionID "" to ignore the session filter.
func (db *DB) RecentMessages(ctx context.Context, limit int, sessionID string) ([]Message, error) {
	query := `SELECT id, role, content, session_id, COALESCE(user_id, ''), tool_calls, tool_results, created_at
		 FROM messages`
	var args []interface{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		var toolCalls, toolResults sql.NullString
		err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.SessionID, &m.UserID, &toolCalls, &toolResults, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		if toolCalls.Valid {
			m.ToolCalls = toolCalls.String
		}
		if toolResults.Valid {
			m.ToolResults = toolResults.String
		}
		out = append(out, m)
	}
	// Reverse to get chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

// DeleteSessionMessages removes the transcript for one session.
func (db *DB) DeleteSessionMessages(ctx context.Context, sessionID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}

// MessageStore is the transcript surface the orchestrator and server need.
type MessageStore interface {
	InsertMessage(ctx context.Context, role, content, sessionID, userID, toolCalls, toolResults string) (int64, error)
	RecentMessages(ctx context.Context, limit int, sessionID string) ([]Message, error)
}

var _ MessageStore = (*DB)(nil)
