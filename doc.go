// Package muxsup provides a one-shot service supervisor that boots a fixed
// table of companion services into named sessions of a terminal-multiplexer
// server, so each service runs isolated from the others but stays
// attachable for inspection.
//
// The core types are Supervisor, which owns the launch loop, and
// SessionManager, the capability interface the supervisor needs from the
// session server:
//
//	client, err := muxsup.NewClientTmux()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sup := muxsup.New(client)
//	if err := sup.Initialize(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	table := muxsup.Table{
//	    {Name: "cable_guy", Command: "cable-guy --interface eth0"},
//	    {Name: "wifi", Command: "wifi-manager --socket /tmp/wifi.sock"},
//	}
//	report, err := sup.Run(context.Background(), table)
//
// # Launch Semantics
//
// The supervisor is a launcher, not a monitor. Run creates one session per
// descriptor (idempotently: an existing session with the same name is
// reused), types the service's start command into it, and returns. The
// session server and the launched services outlive the supervisor process.
//
// A failure to create or dispatch a single service is logged and skipped;
// the remaining services still launch. The only fatal condition is the
// session server itself being unavailable.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - A minimal capability interface over the session server, so tests can
//     substitute an in-memory fake (see FakeServer)
//   - Strict table order with no concurrency between launches
//   - Fire-and-forget dispatch: no exit-status capture, no retries, no
//     restart-on-crash
//   - Explicit fatal vs. recoverable error paths
//
// Re-running the supervisor against live sessions re-sends each start
// command as input to whatever is in the session's foreground at that
// moment. That is a known limitation of keystroke-based dispatch, inherited
// from the multiplexer model, and is not detected or corrected here.
package muxsup
