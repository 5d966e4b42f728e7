package muxsup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// ServerConfBuilder provides a fluent interface for generating the session
// server's configuration resource (the file handed to the server at start).
type ServerConfBuilder struct {
	// Path is where the configuration file is written
	Path string
	// HistoryLimit is the per-session scrollback limit in lines
	HistoryLimit int
	// Mouse enables mouse support in attached clients
	Mouse bool
	// StatusLine enables the server's status line
	StatusLine bool
	// DefaultShell is the shell spawned inside new sessions
	DefaultShell string
	// Extra contains raw configuration lines appended verbatim
	Extra []string
}

// NewServerConfBuilder creates a ServerConfBuilder with default settings
func NewServerConfBuilder(path string) *ServerConfBuilder {
	return &ServerConfBuilder{
		Path:         path,
		HistoryLimit: 5000,
	}
}

// WithHistoryLimit sets the per-session scrollback limit
func (b *ServerConfBuilder) WithHistoryLimit(lines int) *ServerConfBuilder {
	b.HistoryLimit = lines
	return b
}

// WithMouse enables or disables mouse support
func (b *ServerConfBuilder) WithMouse(on bool) *ServerConfBuilder {
	b.Mouse = on
	return b
}

// WithStatusLine enables or disables the status line
func (b *ServerConfBuilder) WithStatusLine(on bool) *ServerConfBuilder {
	b.StatusLine = on
	return b
}

// WithDefaultShell sets the shell spawned inside new sessions
func (b *ServerConfBuilder) WithDefaultShell(shell string) *ServerConfBuilder {
	b.DefaultShell = shell
	return b
}

// WithExtra appends raw configuration lines
func (b *ServerConfBuilder) WithExtra(lines ...string) *ServerConfBuilder {
	b.Extra = append(b.Extra, lines...)
	return b
}

// Render returns the configuration file contents
func (b *ServerConfBuilder) Render() string {
	var lines []string

	if b.HistoryLimit > 0 {
		lines = append(lines, fmt.Sprintf("set-option -g history-limit %d", b.HistoryLimit))
	}

	lines = append(lines, "set-option -g mouse "+onOff(b.Mouse))
	lines = append(lines, "set-option -g status "+onOff(b.StatusLine))

	if b.DefaultShell != "" {
		lines = append(lines, "set-option -g default-shell "+b.DefaultShell)
	}

	// Sessions must survive the supervisor exiting
	lines = append(lines, "set-option -g exit-unattached off")

	lines = append(lines, b.Extra...)

	return strings.Join(lines, "\n") + "\n"
}

// Build writes the configuration file atomically, creating parent
// directories as needed
func (b *ServerConfBuilder) Build() error {
	if b.Path == "" {
		return fmt.Errorf("config path not specified")
	}

	if err := os.MkdirAll(filepath.Dir(b.Path), DirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := renameio.WriteFile(b.Path, []byte(b.Render()), FileMode); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
