package muxsup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// awaitPollInterval is the fallback poll cadence used while the socket's
// parent directory does not exist yet (tmux creates it with the server)
const awaitPollInterval = 50 * time.Millisecond

// awaitPath blocks until path exists, the timeout elapses, or ctx is done.
// It prefers an fsnotify watch on the parent directory and degrades to
// polling while the parent itself is still missing.
func awaitPath(ctx context.Context, path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	found := make(chan struct{})
	errs := make(chan error, 1)

	sctx := stopper.WithContext(ctx)
	sctx.Go(func(sctx *stopper.Context) error {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			errs <- err
			return nil
		}
		sctx.Defer(func() { _ = watcher.Close() })

		dir := filepath.Dir(path)
		watching := watcher.Add(dir) == nil

		poll := time.NewTicker(awaitPollInterval)
		sctx.Defer(poll.Stop)

		for !sctx.IsStopping() {
			if _, err := os.Stat(path); err == nil {
				close(found)
				return nil
			}

			if !watching {
				// Parent directory still missing; retry the watch so
				// we switch off polling once it shows up.
				watching = watcher.Add(dir) == nil
			}

			select {
			case <-sctx.Stopping():
				return nil
			case <-poll.C:
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != path && event.Name != dir {
					continue
				}
			case err, ok := <-watcher.Errors:
				if ok && err != nil {
					errs <- err
					return nil
				}
			}
		}
		return nil
	})

	stop := func() {
		sctx.Stop(100 * time.Millisecond)
		_ = sctx.Wait()
	}

	select {
	case <-found:
		stop()
		return nil
	case err := <-errs:
		stop()
		return err
	case <-ctx.Done():
		stop()
		return ctx.Err()
	case <-deadline.C:
		stop()
		return fmt.Errorf("no server socket at %s after %s", path, timeout)
	}
}
