package chrome

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf2word/internal/config"
)

func TestAllocatorOptions_WindowSizeHeadlessOnly(t *testing.T) {
	sized := config.ChromeConfig{Headless: true, WindowWidth: 1920, WindowHeight: 1080}
	plain := config.ChromeConfig{Headless: true}
	if got, want := len(allocatorOptions(sized, "/p")), len(allocatorOptions(plain, "/p"))+1; got != want {
		t.Fatalf("headless mode must apply the window size: %d options, want %d", got, want)
	}

	sized.Headless = false
	plain.Headless = false
	if got, want := len(allocatorOptions(sized, "/p")), len(allocatorOptions(plain, "/p")); got != want {
		t.Fatalf("headed mode stays maximized, the window size must not add an option: got %d, want %d", got, want)
	}
}

func TestCreateProfileDir_DefaultAndCustomBase(t *testing.T) {
	var cfg config.ChromeConfig
	dir1, err := createProfileDir(cfg)
	if err != nil {
		t.Fatalf("createProfileDir default base failed: %v", err)
	}
	defer os.RemoveAll(dir1)
	if _, err := os.Stat(dir1); err != nil {
		t.Fatalf("expected created dir to exist: %v", err)
	}

	customBase := t.TempDir()
	cfg.UserDataDir = customBase
	dir2, err := createProfileDir(cfg)
	if err != nil {
		t.Fatalf("createProfileDir custom base failed: %v", err)
	}
	defer os.RemoveAll(dir2)
	if filepath.Dir(dir2) != customBase {
		t.Fatalf("expected profile dir under custom base %q, got %q", customBase, dir2)
	}
}

func TestCreateProfileDir_CreatesMissingBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "profiles")
	cfg := config.ChromeConfig{UserDataDir: base}
	dir, err := createProfileDir(cfg)
	if err != nil {
		t.Fatalf("createProfileDir: %v", err)
	}
	if filepath.Dir(dir) != base {
		t.Fatalf("expected profile dir under %q, got %q", base, dir)
	}
}

func TestCreateProfileDir_InvalidBase(t *testing.T) {
	cfg := config.ChromeConfig{UserDataDir: "/dev/null/x"}
	if _, err := createProfileDir(cfg); err == nil {
		t.Fatalf("expected error for invalid base dir")
	}
}

func TestSessionClose_IdempotentAndRemovesProfile(t *testing.T) {
	profile := t.TempDir()
	tabCancels, allocCancels := 0, 0
	s := &session{
		ctx:         context.Background(),
		cancelTab:   func() { tabCancels++ },
		cancelAlloc: func() { allocCancels++ },
		profileDir:  profile,
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if tabCancels != 1 || allocCancels != 1 {
		t.Fatalf("expected one teardown, got tab=%d alloc=%d", tabCancels, allocCancels)
	}
	if _, err := os.Stat(profile); !os.IsNotExist(err) {
		t.Fatalf("expected profile dir removed, got %v", err)
	}
}

func TestActionableExpr_QuotesSelector(t *testing.T) {
	expr := actionableExpr(`a[href*='download']`)
	if !strings.Contains(expr, `document.querySelector("a[href*='download']")`) {
		t.Fatalf("selector not embedded: %s", expr)
	}
	if !strings.Contains(expr, "getBoundingClientRect") {
		t.Fatalf("expected geometry check in expression: %s", expr)
	}
}
