// Package watch detects when a browser download has finished by polling
// the output directory. There is no completion signal from the page, so
// the only observable evidence is the file itself: first a provisional
// artifact with a pending suffix, then the final document.
package watch

import (
	"context"
	"os"
	"strings"
	"time"
)

// readDir is swapped out in tests to count and steer polls.
var readDir = os.ReadDir

// Watcher polls Dir at Interval until a completed download shows up or
// Timeout elapses.
//
// A name carrying PendingSuffix marks a transfer still in flight and takes
// precedence over everything else: no success is reported while one exists,
// baseline or not. Otherwise the first regular file ending in TargetExt
// counts as the finished document. With a nil Baseline a file that predates
// the watch also counts; callers that care snapshot the directory first.
type Watcher struct {
	Dir           string
	Timeout       time.Duration
	Interval      time.Duration
	TargetExt     string
	PendingSuffix string

	// Baseline holds names to ignore when looking for the finished
	// document. Nil disables the filter.
	Baseline map[string]struct{}
}

// Wait runs the watch loop. It returns a terminal status (StatusDone or
// StatusTimedOut) on a normal exit; a scan failure or canceled context
// aborts the watch with StatusPolling and the error.
func (w *Watcher) Wait(ctx context.Context) (Status, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}

	deadline := time.Now().Add(w.Timeout)
	for time.Now().Before(deadline) {
		found, err := w.scan()
		if err != nil {
			return StatusPolling, err
		}
		if found {
			return StatusDone, nil
		}

		select {
		case <-ctx.Done():
			return StatusPolling, ctx.Err()
		case <-time.After(interval):
		}
	}
	return StatusTimedOut, nil
}

// scan reads the directory once. It reports whether a completed download
// is present; a pending artifact forces another round.
func (w *Watcher) scan() (bool, error) {
	entries, err := readDir(w.Dir)
	if err != nil {
		return false, err
	}

	var completed bool
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, w.PendingSuffix) {
			return false, nil
		}
		if !strings.HasSuffix(name, w.TargetExt) {
			continue
		}
		if w.Baseline != nil {
			if _, old := w.Baseline[name]; old {
				continue
			}
		}
		completed = true
	}
	return completed, nil
}

// Snapshot records the names currently present in dir, for use as a
// Watcher baseline.
func Snapshot(dir string) (map[string]struct{}, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	return names, nil
}
