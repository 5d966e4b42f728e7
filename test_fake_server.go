package muxsup

import (
	"context"
	"sync"
)

// FakeServer is an in-memory SessionManager for testing. It records every
// session created and every line of input sent, and can be told to fail
// specific operations, so tests never need a real multiplexer server.
type FakeServer struct {
	mu       sync.Mutex
	started  bool
	sessions map[string][]string
	order    []string

	// FailStart, when set, is returned by StartServer
	FailStart error

	// FailCreate maps session names to errors returned by NewSession
	FailCreate map[string]error

	// FailSend maps session names to errors returned by SendText
	FailSend map[string]error
}

// NewFakeServer creates a FakeServer with no sessions
func NewFakeServer() *FakeServer {
	return &FakeServer{
		sessions:   make(map[string][]string),
		FailCreate: make(map[string]error),
		FailSend:   make(map[string]error),
	}
}

// StartServer marks the fake server as running
func (f *FakeServer) StartServer(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailStart != nil {
		return f.FailStart
	}
	f.started = true
	return nil
}

// HasSession reports whether a session was created
func (f *FakeServer) HasSession(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return false, ErrServerUnavailable
	}
	_, ok := f.sessions[name]
	return ok, nil
}

// NewSession records a new named session. Like a real server, creating a
// name twice is rejected; callers are expected to check HasSession first.
func (f *FakeServer) NewSession(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return ErrServerUnavailable
	}
	if err := f.FailCreate[name]; err != nil {
		return err
	}
	if _, ok := f.sessions[name]; ok {
		return &OpError{Op: OpNewSession, Target: name, Err: ErrDuplicateName}
	}
	f.sessions[name] = nil
	f.order = append(f.order, name)
	return nil
}

// SendText records a line of input sent to a session
func (f *FakeServer) SendText(_ context.Context, name, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return ErrServerUnavailable
	}
	if err := f.FailSend[name]; err != nil {
		return err
	}
	if _, ok := f.sessions[name]; !ok {
		return &OpError{Op: OpSendText, Target: name, Err: ErrSessionVanished}
	}
	f.sessions[name] = append(f.sessions[name], text)
	return nil
}

// Sessions returns the session names in creation order
func (f *FakeServer) Sessions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}

// Inputs returns the input lines sent to a session, in order
func (f *FakeServer) Inputs(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	inputs := make([]string, len(f.sessions[name]))
	copy(inputs, f.sessions[name])
	return inputs
}

// State returns how far a session got
func (f *FakeServer) State(name string) SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()

	inputs, ok := f.sessions[name]
	switch {
	case !ok:
		return SessionAbsent
	case len(inputs) == 0:
		return SessionCreated
	default:
		return SessionDispatched
	}
}
