// Package convert turns a PDF into a Word document by driving a public web
// converter in a browser: upload the file, click through the page, then
// watch the download directory for the result.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"pdf2word/internal/browser"
	"pdf2word/internal/config"
	"pdf2word/internal/infra/logging"
	"pdf2word/internal/progress"
	"pdf2word/internal/watch"
)

// Converter runs one conversion end to end: validate the request, drive
// the page, watch the download directory.
type Converter struct {
	cfg      config.Config
	launcher browser.Launcher
	report   progress.Reporter
}

// New creates a Converter. The launcher supplies browser sessions; the
// reporter receives the human-readable progress lines.
func New(cfg config.Config, launcher browser.Launcher, report progress.Reporter) *Converter {
	return &Converter{cfg: cfg, launcher: launcher, report: report}
}

// Convert converts source into a Word document inside outDir and reduces
// every outcome to a single bool. Nothing escapes, panics included: the
// caller only ever learns whether the document arrived.
func (cv *Converter) Convert(ctx context.Context, source, outDir string) (ok bool) {
	attempt := xid.New().String()

	defer func() {
		if r := recover(); r != nil {
			logging.Error("conversion panicked", "attempt", attempt, "panic", fmt.Sprint(r))
			cv.report.Failure("Conversion failed: internal error")
			ok = false
		}
	}()

	req, err := NewRequest(source, outDir, cv.cfg.Converter.SourceExt)
	if err != nil {
		logging.Error("invalid request", "attempt", attempt, "error", err.Error())
		cv.report.Failure("Invalid request: %v", err)
		return false
	}
	logging.Info("conversion started", "attempt", attempt, "source", req.Source, "out_dir", req.OutDir)

	// The baseline must be taken before the browser exists so its own
	// download can never end up in it.
	var baseline map[string]struct{}
	if cv.cfg.Converter.FreshOnly {
		baseline, err = watch.Snapshot(req.OutDir)
		if err != nil {
			logging.Error("baseline snapshot failed", "attempt", attempt, "error", err.Error())
			cv.report.Failure("Cannot inspect output directory: %v", err)
			return false
		}
	}

	cv.report.Step("Launching browser")
	sess, err := cv.launcher.Launch(ctx, req.OutDir)
	if err != nil {
		logging.Error("browser launch failed", "attempt", attempt, "error", err.Error())
		cv.report.Failure("Browser launch failed: %v", err)
		return false
	}
	defer func() {
		// Chrome needs a moment to flush an in-flight download to disk
		// before it goes away.
		if grace := time.Duration(cv.cfg.Converter.CloseGraceSecs) * time.Second; grace > 0 {
			time.Sleep(grace)
		}
		sess.Close()
		cv.report.Step("Browser closed")
		logging.Info("browser session closed", "attempt", attempt)
	}()

	d := newDriver(sess, cv.cfg, cv.report, attempt)
	if err := d.run(ctx, req.Source); err != nil {
		var stepErr *StepError
		switch {
		case errors.As(err, &stepErr) && (errors.Is(err, ErrWaitTimeout) || errors.Is(err, context.DeadlineExceeded)):
			logging.Error("page interaction timed out", "attempt", attempt, "step", stepErr.Step, "error", err.Error())
			cv.report.Failure("Gave up waiting during the %s step", stepErr.Step)
		case browser.IsInterrupted(err):
			logging.Error("browser session interrupted", "attempt", attempt, "error", err.Error())
			cv.report.Failure("Browser session interrupted")
		default:
			logging.Error("page interaction failed", "attempt", attempt, "error", err.Error())
			cv.report.Failure("Conversion failed: %v", err)
		}
		return false
	}

	cv.report.Step("Waiting for download (up to %ds)", cv.cfg.Converter.WatchTimeoutSecs)
	w := &watch.Watcher{
		Dir:           req.OutDir,
		Timeout:       time.Duration(cv.cfg.Converter.WatchTimeoutSecs) * time.Second,
		Interval:      time.Duration(cv.cfg.Converter.PollIntervalSecs) * time.Second,
		TargetExt:     cv.cfg.Converter.OutputExt,
		PendingSuffix: cv.cfg.Converter.PendingSuffix,
		Baseline:      baseline,
	}
	status, err := w.Wait(ctx)
	if err != nil {
		logging.Error("download watch aborted", "attempt", attempt, "error", err.Error())
		cv.report.Failure("Download watch aborted: %v", err)
		return false
	}
	if status != watch.StatusDone {
		logging.Warn("download did not finish in time", "attempt", attempt, "status", status.String(),
			"timeout_secs", cv.cfg.Converter.WatchTimeoutSecs)
		cv.report.Warn("Download did not finish within the time limit")
		return false
	}

	logging.Info("conversion finished", "attempt", attempt, "status", status.String())
	cv.report.Success("Word document saved to %s", req.OutDir)
	return true
}
