package chrome

import (
	"context"
	"fmt"
	"os"
	"sync"

	cdbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"pdf2word/internal/browser"
	"pdf2word/internal/config"
)

// Launcher starts throwaway Chrome instances prepared for unattended
// downloads. Each Launch gets a fresh profile directory that is removed
// again when the session closes.
type Launcher struct {
	cfg config.ChromeConfig
}

// NewLauncher creates a Launcher for the given Chrome settings.
func NewLauncher(cfg config.ChromeConfig) *Launcher {
	return &Launcher{cfg: cfg}
}

// Launch starts Chrome and routes downloads into downloadDir. The returned
// session lives until Close; canceling ctx also tears the browser down.
func (l *Launcher) Launch(ctx context.Context, downloadDir string) (browser.Session, error) {
	profileDir, err := createProfileDir(l.cfg)
	if err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(l.cfg, profileDir)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &session{
		ctx:         tabCtx,
		cancelTab:   tabCancel,
		cancelAlloc: allocCancel,
		profileDir:  profileDir,
	}

	// The first Run starts the browser process. Allowing downloads up front
	// replaces the usual save-as prompt with a silent write to downloadDir.
	err = s.run(ctx, cdbrowser.
		SetDownloadBehavior(cdbrowser.SetDownloadBehaviorBehaviorAllow).
		WithDownloadPath(downloadDir))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return s, nil
}

// allocatorOptions builds the Chrome startup options. The fixed window size
// applies only in headless mode; headed sessions start maximized instead.
func allocatorOptions(cfg config.ChromeConfig, profileDir string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(profileDir),
		// Avoid GPU/shared-memory issues in minimal container environments.
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
	)
	if cfg.Headless {
		if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
			opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
		}
	} else {
		opts = append(opts,
			chromedp.Flag("headless", false),
			chromedp.Flag("start-maximized", true),
		)
	}
	if cfg.Path != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Path))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts
}

// createProfileDir creates a throwaway Chrome profile directory. An empty
// base falls back to the system temp dir.
func createProfileDir(cfg config.ChromeConfig) (string, error) {
	base := cfg.UserDataDir
	if base != "" {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return "", fmt.Errorf("cannot create profile base dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(base, "pdf2word-profile-*")
	if err != nil {
		return "", fmt.Errorf("cannot create profile dir: %w", err)
	}
	return dir, nil
}

// session drives a single Chrome tab.
type session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	profileDir  string
	closeOnce   sync.Once
}

// run executes actions on the tab, honoring the caller's deadline. All
// chromedp actions must run on the tab context, so the deadline is merged
// onto it rather than passed through directly.
func (s *session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

func (s *session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *session) Actionable(ctx context.Context, selector string) (bool, error) {
	var ok bool
	if err := s.run(ctx, chromedp.Evaluate(actionableExpr(selector), &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *session) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (s *session) SetFiles(ctx context.Context, selector string, paths []string) error {
	// NodeReady instead of NodeVisible: upload inputs are usually hidden
	// behind a styled label but still accept files.
	return s.run(ctx, chromedp.SetUploadFiles(selector, paths, chromedp.ByQuery, chromedp.NodeReady))
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelTab()
		s.cancelAlloc()
		if s.profileDir != "" {
			os.RemoveAll(s.profileDir)
		}
	})
	return nil
}

// actionableExpr builds the clickability probe for a selector: the element
// must exist, be enabled, be rendered and occupy space.
func actionableExpr(selector string) string {
	return fmt.Sprintf(`(function() {
	var el = document.querySelector(%q);
	if (!el || el.disabled) {
		return false;
	}
	var style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') {
		return false;
	}
	var rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
})()`, selector)
}
