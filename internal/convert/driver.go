package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"pdf2word/internal/browser"
	"pdf2word/internal/config"
	"pdf2word/internal/infra/logging"
	"pdf2word/internal/progress"
)

// probeInterval is the pause between actionability probes while waiting
// for a control to appear. Overridden in tests.
var probeInterval = 500 * time.Millisecond

// ErrWaitTimeout means no candidate selector became actionable within the
// step budget.
var ErrWaitTimeout = errors.New("no matching control became actionable")

// StepError records which stage of the page interaction failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// CookieOutcome is the explicit result of the optional consent step.
type CookieOutcome string

const (
	// CookieHandled means a consent banner was found and dismissed.
	CookieHandled CookieOutcome = "Handled"
	// CookieAbsent means no consent banner showed up within the budget.
	// That is a normal outcome, not an error.
	CookieAbsent CookieOutcome = "Absent"
	// CookieFailed means a banner was found but its dismissal failed.
	// The conversion continues regardless.
	CookieFailed CookieOutcome = "Failed"
)

// String returns the string representation of CookieOutcome.
func (o CookieOutcome) String() string {
	return string(o)
}

// driver walks the conversion page through its fixed sequence: navigate,
// consent, upload, convert, download. Each step runs under its own
// timeout; the first failure of a non-optional step aborts the sequence.
type driver struct {
	sess    browser.Session
	report  progress.Reporter
	attempt string

	pageURL     string
	fileInput   string
	cookieSel   []string
	convertSel  []string
	downloadSel []string

	navigateTimeout time.Duration
	cookieTimeout   time.Duration
	uploadTimeout   time.Duration
	settleDelay     time.Duration
	convertTimeout  time.Duration
	downloadTimeout time.Duration
}

func newDriver(sess browser.Session, cfg config.Config, report progress.Reporter, attempt string) *driver {
	c := cfg.Converter
	return &driver{
		sess:            sess,
		report:          report,
		attempt:         attempt,
		pageURL:         c.PageURL,
		fileInput:       cfg.Selectors.FileInput,
		cookieSel:       cfg.Selectors.CookieAccept,
		convertSel:      cfg.Selectors.Convert,
		downloadSel:     cfg.Selectors.Download,
		navigateTimeout: time.Duration(c.NavigateTimeoutSecs) * time.Second,
		cookieTimeout:   time.Duration(c.CookieTimeoutSecs) * time.Second,
		uploadTimeout:   time.Duration(c.UploadTimeoutSecs) * time.Second,
		settleDelay:     time.Duration(c.SettleDelaySecs) * time.Second,
		convertTimeout:  time.Duration(c.ConvertTimeoutSecs) * time.Second,
		downloadTimeout: time.Duration(c.DownloadTimeoutSecs) * time.Second,
	}
}

func (d *driver) run(ctx context.Context, source string) error {
	d.report.Step("Opening %s", d.pageURL)
	err := d.step(ctx, "navigate", d.navigateTimeout, func(stepCtx context.Context) error {
		return d.sess.Navigate(stepCtx, d.pageURL)
	})
	if err != nil {
		return err
	}

	outcome, err := d.acceptCookies(ctx)
	if err != nil {
		return err
	}
	switch outcome {
	case CookieHandled:
		d.report.Step("Cookie banner dismissed")
	case CookieFailed:
		d.report.Warn("Cookie banner found but not dismissed")
	}
	logging.Info("cookie consent step finished", "attempt", d.attempt, "outcome", outcome.String())

	d.report.Step("Uploading %s", filepath.Base(source))
	err = d.step(ctx, "upload", d.uploadTimeout, func(stepCtx context.Context) error {
		return d.sess.SetFiles(stepCtx, d.fileInput, []string{source})
	})
	if err != nil {
		return err
	}

	// The page gives no signal that the upload was registered, so the
	// sequence settles for a fixed pause before probing for controls.
	if err := d.settle(ctx); err != nil {
		return err
	}

	sel, err := d.clickFirst(ctx, "convert", d.convertTimeout, d.convertSel)
	if err != nil {
		return err
	}
	d.report.Step("Conversion started")
	logging.Info("convert control clicked", "attempt", d.attempt, "selector", sel)

	sel, err = d.clickFirst(ctx, "download", d.downloadTimeout, d.downloadSel)
	if err != nil {
		return err
	}
	d.report.Step("Download started")
	logging.Info("download control clicked", "attempt", d.attempt, "selector", sel)

	return nil
}

// acceptCookies dismisses the consent banner if one appears within the
// cookie budget. A budget of zero or an empty selector list skips the
// probe entirely. The whole step is optional: a banner that never shows
// up, or resists the click, leaves the conversion alone. Only a dead
// session or a canceled conversion aborts.
func (d *driver) acceptCookies(ctx context.Context) (CookieOutcome, error) {
	if d.cookieTimeout <= 0 || len(d.cookieSel) == 0 {
		return CookieAbsent, nil
	}
	stepCtx, cancel := context.WithTimeout(ctx, d.cookieTimeout)
	defer cancel()

	sel, err := d.waitFirstActionable(stepCtx, d.cookieSel)
	if errors.Is(err, ErrWaitTimeout) {
		return CookieAbsent, nil
	}
	if err != nil {
		// The wait only fails hard when the session died or the
		// conversion was canceled.
		return CookieFailed, &StepError{Step: "cookies", Err: err}
	}
	if err := d.sess.Click(stepCtx, sel); err != nil {
		if ctx.Err() != nil || (browser.IsInterrupted(err) && !errors.Is(err, context.DeadlineExceeded)) {
			return CookieFailed, &StepError{Step: "cookies", Err: err}
		}
		logging.Warn("cookie banner not dismissed", "attempt", d.attempt, "selector", sel, "error", err.Error())
		return CookieFailed, nil
	}
	return CookieHandled, nil
}

func (d *driver) settle(ctx context.Context) error {
	if d.settleDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return &StepError{Step: "settle", Err: ctx.Err()}
	case <-time.After(d.settleDelay):
		return nil
	}
}

// step runs fn under its own timeout and tags any failure with the step name.
func (d *driver) step(ctx context.Context, name string, timeout time.Duration, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := fn(stepCtx); err != nil {
		return &StepError{Step: name, Err: err}
	}
	return nil
}

// clickFirst waits for the first actionable selector among the candidates
// and clicks it.
func (d *driver) clickFirst(ctx context.Context, name string, timeout time.Duration, selectors []string) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sel, err := d.waitFirstActionable(stepCtx, selectors)
	if err != nil {
		return "", &StepError{Step: name, Err: err}
	}
	if err := d.sess.Click(stepCtx, sel); err != nil {
		return "", &StepError{Step: name, Err: err}
	}
	return sel, nil
}

// waitFirstActionable polls the candidate selectors in priority order until
// one is ready to click. A probe failure keeps the wait alive: pages swap
// their DOM mid-flight and a transient error on one candidate must not kill
// the whole wait. A dead session ends it immediately.
func (d *driver) waitFirstActionable(ctx context.Context, selectors []string) (string, error) {
	for {
		for _, sel := range selectors {
			ok, err := d.sess.Actionable(ctx, sel)
			if err != nil {
				if browser.IsInterrupted(err) && ctx.Err() == nil {
					return "", err
				}
				logging.Debug("probe failed", "attempt", d.attempt, "selector", sel, "error", err.Error())
				continue
			}
			if ok {
				return sel, nil
			}
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", ErrWaitTimeout
			}
			return "", ctx.Err()
		case <-time.After(probeInterval):
		}
	}
}
