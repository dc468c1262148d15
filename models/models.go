package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionSettings is the loose form submitted by the UI. Only the fields of
// the selected kind are read.
type ConnectionSettings struct {
	Kind             string `json:"kind" binding:"required" example:"local"`
	Host             string `json:"host,omitempty"`
	Server           string `json:"server,omitempty"`
	User             string `json:"user,omitempty"`
	Password         string `json:"password,omitempty"`
	Database         string `json:"database,omitempty"`
	AuthMode         string `json:"auth_mode,omitempty" example:"sql_login"` // "integrated" or "sql_login"
	TrustCertificate bool   `json:"trust_certificate,omitempty"`
	Driver           string `json:"driver,omitempty" example:"ODBC Driver 18 for SQL Server"`
}

type Session struct {
	ID         string              `json:"id"`
	Connection *ConnectionSettings `json:"-"`
	APIKey     string              `json:"-"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type SessionResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind,omitempty"`
	HasAPIKey bool       `json:"has_api_key"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []ChatTurn `json:"messages"`
}

type ConnectRequest struct {
	ConnectionSettings
	APIKey string `json:"api_key,omitempty"`
}

type ConnectResponse struct {
	Status     string   `json:"status" example:"connected"`
	Kind       string   `json:"kind"`
	Descriptor string   `json:"descriptor"`
	Tables     []string `json:"tables"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Failed   bool   `json:"failed,omitempty"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type SQLResult struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Truncated bool            `json:"truncated,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// KindInfo describes one selectable database kind for the UI.
type KindInfo struct {
	Kind     string            `json:"kind"`
	Label    string            `json:"label"`
	Required []string          `json:"required"`
	Defaults map[string]string `json:"defaults,omitempty"`
}

// ProgressEvent is streamed over the session websocket while the agent works.
type ProgressEvent struct {
	Type    string `json:"type"` // "thought", "tool_start", "tool_end", "answer"
	Tool    string `json:"tool,omitempty"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}
