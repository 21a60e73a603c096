package domain

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultSessionTitle is the title given to freshly created sessions
// until the first user query replaces it.
const DefaultSessionTitle = "New Chat"

// Session represents a persisted conversation thread
type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents one turn in a session. User messages carry Query,
// assistant messages carry Answer and Sources.
type Message struct {
	ID        string    `json:"-"`
	SessionID string    `json:"-"`
	Role      string    `json:"role"`
	Query     string    `json:"query,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// Reference tracks a source document citation seen by a user
type Reference struct {
	UserID   string    `json:"-"`
	Source   string    `json:"source"`
	LastSeen time.Time `json:"last_seen"`
}

// SessionSummary is the per-session entry in the recent chats list
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// SessionListResponse is the response for GET /sessions
type SessionListResponse struct {
	RecentChats []SessionSummary `json:"recent_chats"`
}

// SessionDetail is the response for GET /chat/:session_id
type SessionDetail struct {
	Title    string     `json:"title"`
	Messages []*Message `json:"messages"`
}

// NewSessionRequest is the optional body for POST /new_session
type NewSessionRequest struct {
	Title string `json:"title"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id"`
}

// RenameSessionRequest is the body for PATCH /chat/rename/:session_id
type RenameSessionRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// Stats represents system statistics
type Stats struct {
	TotalUsers     int `json:"total_users"`
	TotalSessions  int `json:"total_sessions"`
	TotalChats     int `json:"total_chats"`
	TotalDocuments int `json:"total_documents"`
}
