// Package browser defines the automation surface the converter drives.
// The chromedp-backed implementation lives in internal/infra/chrome;
// tests substitute fakes.
package browser

import (
	"context"
	"errors"
	"strings"
)

// Session is a live browser tab. All methods honor the deadline of the
// passed context. Close may be called more than once; only the first call
// tears the session down.
type Session interface {
	// Navigate opens url and waits for the document body to become ready.
	Navigate(ctx context.Context, url string) error

	// Actionable probes once whether the first element matching selector is
	// present, visible and enabled. A missing element is (false, nil), not
	// an error.
	Actionable(ctx context.Context, selector string) (bool, error)

	// Click clicks the first visible element matching selector.
	Click(ctx context.Context, selector string) error

	// SetFiles attaches paths to the file input matching selector. The
	// input may be visually hidden, as upload widgets usually are.
	SetFiles(ctx context.Context, selector string, paths []string) error

	// Close releases the browser and its profile directory.
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	// Launch starts a session whose downloads are written to downloadDir
	// without prompting.
	Launch(ctx context.Context, downloadDir string) (Session, error)
}

// IsInterrupted reports whether err means the session itself is gone
// rather than a single probe or click having failed. Waits give up
// immediately on interrupted sessions instead of polling a dead tab.
func IsInterrupted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "target closed")
}
