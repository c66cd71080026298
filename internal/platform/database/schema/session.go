// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SessionTable represents the 'session' table.
// Token holds the hex SHA-256 of the signed token, never the token itself.
type SessionTable struct {
	Table     string
	ID        string
	Token     string
	UserID    string
	Type      string
	ExpiresAt string
}

// Session is the schema definition for session
var Session = SessionTable{
	Table:     "session",
	ID:        "id",
	Token:     "token",
	UserID:    "user_id",
	Type:      "type",
	ExpiresAt: "expires_at",
}

// Columns returns all standard column names
func (t SessionTable) Columns() []string {
	return []string{t.ID, t.Token, t.UserID, t.Type, t.ExpiresAt}
}
