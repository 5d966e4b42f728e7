package muxsup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ClientTmux provides session-server operations backed by the tmux binary.
// tmux exposes no stable control protocol besides its own CLI, so every
// operation is a short-lived tmux invocation against the server socket.
type ClientTmux struct {
	// TmuxPath is the path to the tmux binary
	TmuxPath string

	// ConfigFile is the server configuration file passed via -f; empty
	// means tmux's own defaults
	ConfigFile string

	// SocketName is the server socket name passed via -L; empty means
	// tmux's default socket
	SocketName string

	// ExecTimeout bounds a single tmux invocation
	ExecTimeout time.Duration

	// ServerWaitTimeout bounds the wait for the server socket to appear
	// after start-server
	ServerWaitTimeout time.Duration

	// execTmux runs the tmux binary with the given arguments and returns
	// its stdout. Replaced in tests to avoid spawning real servers.
	execTmux func(ctx context.Context, args ...string) (string, error)
}

// ClientOption configures a ClientTmux
type ClientOption func(*ClientTmux)

// WithTmuxPath sets the path to the tmux binary
func WithTmuxPath(path string) ClientOption {
	return func(c *ClientTmux) {
		c.TmuxPath = path
	}
}

// WithConfigFile sets the server configuration file passed to tmux via -f
func WithConfigFile(path string) ClientOption {
	return func(c *ClientTmux) {
		c.ConfigFile = path
	}
}

// WithSocketName sets the server socket name passed to tmux via -L
func WithSocketName(name string) ClientOption {
	return func(c *ClientTmux) {
		c.SocketName = name
	}
}

// WithExecTimeout sets the timeout for a single tmux invocation
func WithExecTimeout(d time.Duration) ClientOption {
	return func(c *ClientTmux) {
		c.ExecTimeout = d
	}
}

// WithServerWaitTimeout sets the timeout for the server socket to appear
func WithServerWaitTimeout(d time.Duration) ClientOption {
	return func(c *ClientTmux) {
		c.ServerWaitTimeout = d
	}
}

// NewClientTmux creates a ClientTmux with default settings and applies any
// provided options
func NewClientTmux(opts ...ClientOption) (*ClientTmux, error) {
	c := &ClientTmux{
		TmuxPath:          DefaultTmuxPath,
		SocketName:        DefaultSocketName,
		ExecTimeout:       DefaultExecTimeout,
		ServerWaitTimeout: DefaultServerWaitTimeout,
	}
	c.execTmux = c.execReal

	for _, opt := range opts {
		opt(c)
	}

	if c.TmuxPath == "" {
		return nil, fmt.Errorf("muxsup: tmux path not specified")
	}

	return c, nil
}

// globalArgs returns the arguments placed before every tmux subcommand
func (c *ClientTmux) globalArgs() []string {
	var args []string
	if c.ConfigFile != "" {
		args = append(args, "-f", c.ConfigFile)
	}
	if c.SocketName != "" {
		args = append(args, "-L", c.SocketName)
	}
	return args
}

// execReal runs the tmux binary and returns its stdout
func (c *ClientTmux) execReal(ctx context.Context, args ...string) (string, error) {
	if c.ExecTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ExecTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.TmuxPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// SocketPath returns the filesystem path of the server socket this client
// talks to, following tmux's TMUX_TMPDIR convention.
func (c *ClientTmux) SocketPath() string {
	name := c.SocketName
	if name == "" {
		name = "default"
	}

	base := os.Getenv("TMUX_TMPDIR")
	if base == "" {
		base = os.TempDir()
	}

	return filepath.Join(base, fmt.Sprintf("tmux-%d", os.Getuid()), name)
}

// StartServer starts the session server (a no-op on the tmux side if one is
// already listening on the socket) and waits for the server socket to
// appear. Failure here is the supervisor's fatal path.
func (c *ClientTmux) StartServer(ctx context.Context) error {
	args := append(c.globalArgs(), "start-server")
	if _, err := c.execTmux(ctx, args...); err != nil {
		return &OpError{Op: OpStartServer, Target: c.SocketPath(), Err: fmt.Errorf("%w: %v", ErrServerUnavailable, err)}
	}

	if err := awaitPath(ctx, c.SocketPath(), c.ServerWaitTimeout); err != nil {
		return &OpError{Op: OpStartServer, Target: c.SocketPath(), Err: fmt.Errorf("%w: %v", ErrServerUnavailable, err)}
	}

	return nil
}

// HasSession reports whether a session named name exists. A non-zero tmux
// exit means the session is absent, not that the check failed.
func (c *ClientTmux) HasSession(ctx context.Context, name string) (bool, error) {
	args := append(c.globalArgs(), "has-session", "-t", exactTarget(name))
	if _, err := c.execTmux(ctx, args...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, &OpError{Op: OpHasSession, Target: name, Err: err}
	}
	return true, nil
}

// NewSession creates a detached session named name. Creating a name that
// already exists is treated as success so that supervisor re-runs reuse the
// live session instead of failing.
func (c *ClientTmux) NewSession(ctx context.Context, name string) error {
	args := append(c.globalArgs(), "new-session", "-d", "-s", name)
	if _, err := c.execTmux(ctx, args...); err != nil {
		if strings.Contains(err.Error(), "duplicate session") {
			return nil
		}
		return &OpError{Op: OpNewSession, Target: name, Err: err}
	}
	return nil
}

// SendText types text into the named session as literal keystrokes followed
// by a carriage return. The supervisor never learns what the text did; this
// is fire-and-forget input injection.
func (c *ClientTmux) SendText(ctx context.Context, name, text string) error {
	literal := append(c.globalArgs(), "send-keys", "-t", exactTarget(name), "-l", "--", text)
	if _, err := c.execTmux(ctx, literal...); err != nil {
		return c.sendErr(name, err)
	}

	enter := append(c.globalArgs(), "send-keys", "-t", exactTarget(name), "Enter")
	if _, err := c.execTmux(ctx, enter...); err != nil {
		return c.sendErr(name, err)
	}

	return nil
}

func (c *ClientTmux) sendErr(name string, err error) error {
	if strings.Contains(err.Error(), "can't find session") {
		err = fmt.Errorf("%w: %v", ErrSessionVanished, err)
	}
	return &OpError{Op: OpSendText, Target: name, Err: err}
}

// ListSessions returns the sessions known to the server. A server with no
// sessions (or no server at all) yields an empty slice.
func (c *ClientTmux) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	args := append(c.globalArgs(), "list-sessions", "-F", "#{session_name}\t#{session_attached}")
	out, err := c.execTmux(ctx, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, nil
		}
		return nil, &OpError{Op: OpListSessions, Target: c.SocketPath(), Err: err}
	}

	var sessions []SessionInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, attached, _ := strings.Cut(line, "\t")
		sessions = append(sessions, SessionInfo{
			Name:     name,
			Attached: attached != "" && attached != "0",
		})
	}

	return sessions, nil
}

// KillSession destroys the named session. This is an operator helper; the
// supervisor itself never stops what it launched.
func (c *ClientTmux) KillSession(ctx context.Context, name string) error {
	args := append(c.globalArgs(), "kill-session", "-t", exactTarget(name))
	if _, err := c.execTmux(ctx, args...); err != nil {
		return &OpError{Op: OpKillSession, Target: name, Err: err}
	}
	return nil
}

// exactTarget prefixes a session name with = so tmux matches it exactly
// instead of by prefix
func exactTarget(name string) string {
	return "=" + name
}
