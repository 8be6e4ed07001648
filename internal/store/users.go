package store

import (
	"context"
	"database/sql"
	"time"
)

// User is one account seen by the chat surface. ID is the internal account
// identifier; StudentID is the display identifier students know (and the
// only one the assistant is allowed to mention).
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StudentID string    `json:"student_id"`
	Role      string    `json:"role"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// GetOrCreateUser retrieves a user by internal id, creating the record on
// first sight and refreshing name/student id on later ones.
func (db *DB) GetOrCreateUser(ctx context.Context, id, name, studentID string) (*User, error) {
	u, err := db.GetUser(ctx, id)
	if err == nil {
		_, _ = db.ExecContext(ctx,
			"UPDATE users SET name=?, student_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?",
			name, studentID, id)
		u.Name = name
		u.StudentID = studentID
		return u, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	if name == "" {
		name = "Student " + id
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, name, student_id) VALUES (?, ?, ?)`,
		id, name, studentID,
	)
	if err != nil {
		return nil, err
	}
	return db.GetUser(ctx, id)
}

// GetUser retrieves a user by internal id.
func (db *DB) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(student_id, ''), role, first_seen, last_seen FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Name, &u.StudentID, &u.Role, &u.FirstSeen, &u.LastSeen)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
