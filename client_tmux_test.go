package muxsup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// recordCalls swaps the client's exec hook for one that records every argv
// and replays canned responses
func recordCalls(c *ClientTmux, respond func(args []string) (string, error)) *[][]string {
	var calls [][]string
	c.execTmux = func(_ context.Context, args ...string) (string, error) {
		calls = append(calls, args)
		if respond != nil {
			return respond(args)
		}
		return "", nil
	}
	return &calls
}

func TestClientTmuxDefaults(t *testing.T) {
	client, err := NewClientTmux()
	if err != nil {
		t.Fatal(err)
	}

	if client.TmuxPath != DefaultTmuxPath {
		t.Errorf("TmuxPath = %v, want %v", client.TmuxPath, DefaultTmuxPath)
	}
	if client.SocketName != DefaultSocketName {
		t.Errorf("SocketName = %v, want %v", client.SocketName, DefaultSocketName)
	}
	if client.ExecTimeout != DefaultExecTimeout {
		t.Errorf("ExecTimeout = %v, want %v", client.ExecTimeout, DefaultExecTimeout)
	}
	if client.ServerWaitTimeout != DefaultServerWaitTimeout {
		t.Errorf("ServerWaitTimeout = %v, want %v", client.ServerWaitTimeout, DefaultServerWaitTimeout)
	}
}

func TestClientTmuxOptions(t *testing.T) {
	client, err := NewClientTmux(
		WithTmuxPath("/usr/local/bin/tmux"),
		WithConfigFile("/etc/muxsup/server.conf"),
		WithSocketName("boot"),
		WithExecTimeout(3*time.Second),
		WithServerWaitTimeout(20*time.Second),
	)
	if err != nil {
		t.Fatal(err)
	}

	if client.TmuxPath != "/usr/local/bin/tmux" {
		t.Errorf("TmuxPath = %v", client.TmuxPath)
	}
	if client.ConfigFile != "/etc/muxsup/server.conf" {
		t.Errorf("ConfigFile = %v", client.ConfigFile)
	}
	if client.SocketName != "boot" {
		t.Errorf("SocketName = %v", client.SocketName)
	}
	if client.ExecTimeout != 3*time.Second {
		t.Errorf("ExecTimeout = %v", client.ExecTimeout)
	}
	if client.ServerWaitTimeout != 20*time.Second {
		t.Errorf("ServerWaitTimeout = %v", client.ServerWaitTimeout)
	}

	if _, err := NewClientTmux(WithTmuxPath("")); err == nil {
		t.Fatal("expected error for empty tmux path")
	}
}

func TestSocketPath(t *testing.T) {
	t.Setenv("TMUX_TMPDIR", "/run/shm")

	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join("/run/shm", fmt.Sprintf("tmux-%d", os.Getuid()), "boot")
	if got := client.SocketPath(); got != want {
		t.Errorf("SocketPath = %v, want %v", got, want)
	}
}

func TestStartServerArgs(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("TMUX_TMPDIR", tmpDir)

	client, err := NewClientTmux(
		WithConfigFile("/etc/muxsup/server.conf"),
		WithSocketName("boot"),
	)
	if err != nil {
		t.Fatal(err)
	}

	// Pre-create the socket so StartServer does not wait.
	sockDir := filepath.Dir(client.SocketPath())
	if err := os.MkdirAll(sockDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(client.SocketPath(), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	calls := recordCalls(client, nil)

	if err := client.StartServer(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(*calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(*calls))
	}
	want := "-f /etc/muxsup/server.conf -L boot start-server"
	if got := strings.Join((*calls)[0], " "); got != want {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

func TestStartServerFailureIsFatal(t *testing.T) {
	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	recordCalls(client, func(_ []string) (string, error) {
		return "", errors.New("exec: \"tmux\": executable file not found in $PATH")
	})

	err = client.StartServer(context.Background())
	if !errors.Is(err, ErrServerUnavailable) {
		t.Errorf("err = %v, want ErrServerUnavailable", err)
	}
}

func TestHasSession(t *testing.T) {
	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("present", func(t *testing.T) {
		calls := recordCalls(client, nil)

		ok, err := client.HasSession(context.Background(), "wifi")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("expected session to be reported present")
		}
		want := "-L boot has-session -t =wifi"
		if got := strings.Join((*calls)[0], " "); got != want {
			t.Errorf("argv = %q, want %q", got, want)
		}
	})

	t.Run("absent", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "", fmt.Errorf("%w (stderr: can't find session: wifi)", &exec.ExitError{})
		})

		ok, err := client.HasSession(context.Background(), "wifi")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("non-zero exit should mean absent, not an error")
		}
	})

	t.Run("exec failure", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "", errors.New("fork/exec: permission denied")
		})

		if _, err := client.HasSession(context.Background(), "wifi"); err == nil {
			t.Error("expected error for non-exit exec failure")
		}
	})
}

func TestNewSession(t *testing.T) {
	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("creates detached", func(t *testing.T) {
		calls := recordCalls(client, nil)

		if err := client.NewSession(context.Background(), "wifi"); err != nil {
			t.Fatal(err)
		}
		want := "-L boot new-session -d -s wifi"
		if got := strings.Join((*calls)[0], " "); got != want {
			t.Errorf("argv = %q, want %q", got, want)
		}
	})

	t.Run("duplicate is success", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "", fmt.Errorf("%w (stderr: duplicate session: wifi)", &exec.ExitError{})
		})

		if err := client.NewSession(context.Background(), "wifi"); err != nil {
			t.Errorf("duplicate session should be a no-op, got %v", err)
		}
	})

	t.Run("other failure", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "", fmt.Errorf("%w (stderr: create window failed)", &exec.ExitError{})
		})

		err := client.NewSession(context.Background(), "wifi")
		var opErr *OpError
		if !errors.As(err, &opErr) || opErr.Op != OpNewSession {
			t.Errorf("err = %v, want OpError{OpNewSession}", err)
		}
	})
}

func TestSendText(t *testing.T) {
	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("literal then enter", func(t *testing.T) {
		calls := recordCalls(client, nil)

		if err := client.SendText(context.Background(), "wifi", "wifi-manager --flag"); err != nil {
			t.Fatal(err)
		}

		if len(*calls) != 2 {
			t.Fatalf("calls = %d, want 2", len(*calls))
		}
		if got := strings.Join((*calls)[0], " "); got != "-L boot send-keys -t =wifi -l -- wifi-manager --flag" {
			t.Errorf("literal argv = %q", got)
		}
		if got := strings.Join((*calls)[1], " "); got != "-L boot send-keys -t =wifi Enter" {
			t.Errorf("enter argv = %q", got)
		}
	})

	t.Run("vanished session", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "", fmt.Errorf("%w (stderr: can't find session: wifi)", &exec.ExitError{})
		})

		err := client.SendText(context.Background(), "wifi", "run")
		if !errors.Is(err, ErrSessionVanished) {
			t.Errorf("err = %v, want ErrSessionVanished", err)
		}
	})
}

func TestListSessions(t *testing.T) {
	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("parses names and attachment", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "cable_guy\t0\nwifi\t1\n", nil
		})

		sessions, err := client.ListSessions(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if len(sessions) != 2 {
			t.Fatalf("sessions = %d, want 2", len(sessions))
		}
		if sessions[0].Name != "cable_guy" || sessions[0].Attached {
			t.Errorf("sessions[0] = %+v", sessions[0])
		}
		if sessions[1].Name != "wifi" || !sessions[1].Attached {
			t.Errorf("sessions[1] = %+v", sessions[1])
		}
	})

	t.Run("no server means no sessions", func(t *testing.T) {
		recordCalls(client, func(_ []string) (string, error) {
			return "", fmt.Errorf("%w (stderr: no server running)", &exec.ExitError{})
		})

		sessions, err := client.ListSessions(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(sessions) != 0 {
			t.Errorf("sessions = %v, want none", sessions)
		}
	})
}

func TestKillSessionArgs(t *testing.T) {
	client, err := NewClientTmux(WithSocketName("boot"))
	if err != nil {
		t.Fatal(err)
	}

	calls := recordCalls(client, nil)

	if err := client.KillSession(context.Background(), "wifi"); err != nil {
		t.Fatal(err)
	}
	want := "-L boot kill-session -t =wifi"
	if got := strings.Join((*calls)[0], " "); got != want {
		t.Errorf("argv = %q, want %q", got, want)
	}
}
