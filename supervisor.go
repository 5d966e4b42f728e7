package muxsup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Supervisor brings up one session per configured service and hands each
// session its start command. It runs the table sequentially, in order, and
// tolerates re-invocation: existing sessions are reused, not duplicated.
type Supervisor struct {
	mgr SessionManager
	out io.Writer
	log *log.Logger
}

// SupervisorOption configures a Supervisor
type SupervisorOption func(*Supervisor)

// WithOutput sets the writer for the operator-facing launch lines
// (default: stdout)
func WithOutput(w io.Writer) SupervisorOption {
	return func(s *Supervisor) {
		s.out = w
	}
}

// WithLogger sets the logger used for warnings and errors
func WithLogger(l *log.Logger) SupervisorOption {
	return func(s *Supervisor) {
		s.log = l
	}
}

// New creates a Supervisor driving the given session manager
func New(mgr SessionManager, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		mgr: mgr,
		out: os.Stdout,
		log: log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize starts (or attaches to) the session server. This is the
// supervisor's only fatal path: if the server cannot come up, nothing can
// be launched and the whole run must abort.
func (s *Supervisor) Initialize(ctx context.Context) error {
	if err := s.mgr.StartServer(ctx); err != nil {
		return fmt.Errorf("starting session server: %w", err)
	}
	return nil
}

// EnsureSession guarantees a session named name exists. It is idempotent:
// an existing session is success without modification.
func (s *Supervisor) EnsureSession(ctx context.Context, name string) error {
	exists, err := s.mgr.HasSession(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.mgr.NewSession(ctx, name)
}

// Dispatch sends command as input to the named session, causing it to begin
// executing. The supervisor does not wait for, capture, or validate
// anything about the command after this point.
func (s *Supervisor) Dispatch(ctx context.Context, name, command string) error {
	return s.mgr.SendText(ctx, name, command)
}

// Report describes the outcome of one supervisor pass
type Report struct {
	// States maps each service name to how far its launch got
	States map[string]SessionState

	// Failures collects the recoverable per-service errors. A non-empty
	// collection still means the pass completed.
	Failures *MultiError

	order []string
}

// Dispatched returns, in table order, the services whose start command was
// sent
func (r *Report) Dispatched() []string {
	var names []string
	for _, name := range r.order {
		if r.States[name] == SessionDispatched {
			names = append(names, name)
		}
	}
	return names
}

// Run launches every service in the table, in table order: for each
// descriptor it ensures the session exists, then dispatches the start
// command. A failing service is logged and skipped; the loop never
// short-circuits. The returned error is non-nil only for an invalid table.
func (s *Supervisor) Run(ctx context.Context, table Table) (*Report, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		States:   make(map[string]SessionState, len(table)),
		Failures: &MultiError{},
		order:    table.Names(),
	}

	fmt.Fprintln(s.out, "Starting services..")

	for _, svc := range table {
		fmt.Fprintf(s.out, "Service: %s: %s\n", svc.Name, svc.Command)

		if err := s.EnsureSession(ctx, svc.Name); err != nil {
			s.log.Warn("session not created, skipping service", "service", svc.Name, "err", err)
			report.States[svc.Name] = SessionAbsent
			report.Failures.Add(err)
			continue
		}
		report.States[svc.Name] = SessionCreated

		if err := s.Dispatch(ctx, svc.Name, svc.Command); err != nil {
			s.log.Warn("dispatch failed", "service", svc.Name, "err", err)
			report.Failures.Add(err)
			continue
		}
		report.States[svc.Name] = SessionDispatched
	}

	fmt.Fprintln(s.out, "Companion running!")

	return report, nil
}
