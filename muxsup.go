package muxsup

import "time"

// Defaults for the tmux-backed client that can be overridden with options
const (
	// DefaultTmuxPath is the default path to the tmux binary
	DefaultTmuxPath = "tmux"

	// DefaultSocketName is the default server socket name (tmux -L)
	DefaultSocketName = "muxsup"

	// DefaultExecTimeout is the default timeout for a single tmux invocation
	DefaultExecTimeout = 5 * time.Second

	// DefaultServerWaitTimeout is the default time to wait for the server
	// socket to appear after start-server
	DefaultServerWaitTimeout = 10 * time.Second
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode = 0o755

	// FileMode is the default mode for created files
	FileMode = 0o644
)

// Operation represents a session-server operation type
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpStartServer starts (or attaches to) the session server
	OpStartServer
	// OpHasSession checks whether a named session exists
	OpHasSession
	// OpNewSession creates a detached named session
	OpNewSession
	// OpSendText injects text as input into a session
	OpSendText
	// OpListSessions lists the sessions known to the server
	OpListSessions
	// OpKillSession destroys a named session
	OpKillSession
)

// Operation string constants
const (
	opUnknownStr      = "unknown"
	opStartServerStr  = "start-server"
	opHasSessionStr   = "has-session"
	opNewSessionStr   = "new-session"
	opSendTextStr     = "send-keys"
	opListSessionsStr = "list-sessions"
	opKillSessionStr  = "kill-session"
)

// String returns the string representation of an Operation
func (op Operation) String() string {
	switch op {
	case OpStartServer:
		return opStartServerStr
	case OpHasSession:
		return opHasSessionStr
	case OpNewSession:
		return opNewSessionStr
	case OpSendText:
		return opSendTextStr
	case OpListSessions:
		return opListSessionsStr
	case OpKillSession:
		return opKillSessionStr
	default:
		return opUnknownStr
	}
}

// Verb returns the tmux subcommand for this operation, or "" if the
// operation has no direct tmux counterpart
func (op Operation) Verb() string {
	switch op {
	case OpStartServer:
		return "start-server"
	case OpHasSession:
		return "has-session"
	case OpNewSession:
		return "new-session"
	case OpSendText:
		return "send-keys"
	case OpListSessions:
		return "list-sessions"
	case OpKillSession:
		return "kill-session"
	default:
		return ""
	}
}
