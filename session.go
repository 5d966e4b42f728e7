package muxsup

import "context"

// SessionManager is the capability interface the supervisor needs from a
// session server. The tmux-backed ClientTmux is the production
// implementation; FakeServer is an in-memory substitute for tests.
type SessionManager interface {
	// StartServer starts (or attaches to) the session server
	StartServer(ctx context.Context) error

	// HasSession reports whether a session named name exists
	HasSession(ctx context.Context, name string) (bool, error)

	// NewSession creates a detached session named name
	NewSession(ctx context.Context, name string) error

	// SendText injects text, followed by a carriage return, as input into
	// the named session
	SendText(ctx context.Context, name, text string) error
}

// SessionState represents how far a service's session got during a run
type SessionState int

const (
	// SessionAbsent means no session exists for the service
	SessionAbsent SessionState = iota
	// SessionCreated means the session exists but no command was dispatched
	SessionCreated
	// SessionDispatched means the start command was sent to the session
	SessionDispatched
)

// SessionState string constants
const (
	sessionAbsentStr     = "absent"
	sessionCreatedStr    = "created"
	sessionDispatchedStr = "dispatched"
)

// String returns the string representation of a SessionState
func (s SessionState) String() string {
	switch s {
	case SessionCreated:
		return sessionCreatedStr
	case SessionDispatched:
		return sessionDispatchedStr
	default:
		return sessionAbsentStr
	}
}

// SessionInfo describes one session reported by the server
type SessionInfo struct {
	// Name is the session name
	Name string
	// Attached reports whether a client is currently attached
	Attached bool
}
