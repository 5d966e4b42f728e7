// Command muxboot boots the companion computer's background services into
// named multiplexer sessions. It is a one-shot launcher: the session server
// and the services it starts outlive this process, and each session stays
// attachable for inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	muxsup "github.com/axondata/go-muxsup"
)

// defaultTable is the static service list for a companion boot. It is
// rebuilt fresh on every invocation; re-running muxboot reuses live
// sessions instead of duplicating them.
func defaultTable() muxsup.Table {
	return muxsup.Table{
		{Name: "cable_guy", Command: "cable-guy --port 9090"},
		{Name: "wifi", Command: "wifi-manager --socket wlan0"},
		{Name: "autopilot", Command: "autopilot-manager --mavlink udpin:0.0.0.0:14550"},
		{Name: "video", Command: "camera-streamer --rtsp-port 8554"},
		{Name: "mavlink_bridge", Command: "mavlink2rest --connect udpin:127.0.0.1:14551"},
		{Name: "web_terminal", Command: "ttyd -p 8088 /bin/sh"},
		{Name: "helper", Command: "companion-helper --port 81"},
	}
}

func main() {
	var (
		tmuxPath    = flag.String("tmux", muxsup.DefaultTmuxPath, "Path to the tmux binary")
		socketName  = flag.String("socket", muxsup.DefaultSocketName, "Session server socket name")
		confPath    = flag.String("conf", "/etc/muxsup/server.conf", "Where to write the generated server config")
		execTimeout = flag.Duration("exec-timeout", muxsup.DefaultExecTimeout, "Timeout for a single server operation")
		list        = flag.Bool("list", false, "Print the service table and exit without launching")
	)
	flag.Parse()

	table := defaultTable()

	if *list {
		for _, svc := range table {
			fmt.Printf("%s\t%s\n", svc.Name, svc.Command)
		}
		return
	}

	logger := log.New(os.Stderr)
	logger.SetReportTimestamp(true)

	if err := run(table, *tmuxPath, *socketName, *confPath, *execTimeout, logger); err != nil {
		logger.Fatal("boot failed", "err", err)
	}
}

func run(table muxsup.Table, tmuxPath, socketName, confPath string, execTimeout time.Duration, logger *log.Logger) error {
	ctx := context.Background()

	conf := muxsup.NewServerConfBuilder(confPath).
		WithHistoryLimit(10000).
		WithMouse(true).
		WithStatusLine(true)
	if err := conf.Build(); err != nil {
		// The server runs fine on its own defaults; a read-only /etc
		// must not stop the boot.
		logger.Warn("could not write server config, using server defaults", "path", confPath, "err", err)
		confPath = ""
	}

	client, err := muxsup.NewClientTmux(
		muxsup.WithTmuxPath(tmuxPath),
		muxsup.WithSocketName(socketName),
		muxsup.WithConfigFile(confPath),
		muxsup.WithExecTimeout(execTimeout),
	)
	if err != nil {
		return err
	}

	sup := muxsup.New(client, muxsup.WithLogger(logger))

	if err := sup.Initialize(ctx); err != nil {
		return err
	}

	report, err := sup.Run(ctx, table)
	if err != nil {
		return err
	}

	// Recoverable per-service failures were already logged; a completed
	// pass still exits zero.
	if n := len(report.Failures.Errors); n > 0 {
		logger.Warn("some services did not launch", "failed", n, "total", len(table))
	}

	return nil
}
