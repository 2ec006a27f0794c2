package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{}},
		{name: "too many args", args: []string{"a.pdf", "out", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tc.args)
			if err := cmd.Execute(); err == nil {
				t.Fatalf("expected usage error for %v", tc.args)
			}
		})
	}
}

func TestExecute_MissingSourceFailsCleanly(t *testing.T) {
	// The log file and any working-dir config lookups must stay inside the
	// test sandbox.
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.pdf"), t.TempDir()})

	err := cmd.Execute()
	if !errors.Is(err, errConversionFailed) {
		t.Fatalf("expected conversion failure sentinel, got %v", err)
	}
	if !strings.Contains(out.String(), "Invalid request") {
		t.Fatalf("expected a failure line on stdout, got %q", out.String())
	}
}

func TestBuildConfig_FlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cmd := newRootCmd()
	for flag, value := range map[string]string{
		"headed":     "true",
		"chrome":     "/usr/bin/google-chrome",
		"fresh-only": "true",
		"timeout":    "15",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("set %s: %v", flag, err)
		}
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Chrome.Headless {
		t.Errorf("--headed must turn headless off")
	}
	if cfg.Chrome.Path != "/usr/bin/google-chrome" {
		t.Errorf("chrome path = %q", cfg.Chrome.Path)
	}
	if !cfg.Converter.FreshOnly {
		t.Errorf("--fresh-only not applied")
	}
	if cfg.Converter.WatchTimeoutSecs != 15 {
		t.Errorf("watch timeout = %d, want 15", cfg.Converter.WatchTimeoutSecs)
	}
}

func TestBuildConfig_ChromeBinEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CHROME_BIN", "/opt/chrome")

	cfg, err := buildConfig(newRootCmd())
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Chrome.Path != "/opt/chrome" {
		t.Fatalf("expected CHROME_BIN fallback, got %q", cfg.Chrome.Path)
	}

	// An explicit flag wins over the environment.
	cmd := newRootCmd()
	if err := cmd.Flags().Set("chrome", "/usr/bin/chromium"); err != nil {
		t.Fatalf("set chrome: %v", err)
	}
	cfg, err = buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Chrome.Path != "/usr/bin/chromium" {
		t.Fatalf("expected flag to beat CHROME_BIN, got %q", cfg.Chrome.Path)
	}
}

func TestBuildConfig_ConfigFlag(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	body := `converter:
  page_url: "https://flagged.example.com"
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.Flags().Set("config", p); err != nil {
		t.Fatalf("set config: %v", err)
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Converter.PageURL != "https://flagged.example.com" {
		t.Fatalf("config flag ignored, got %q", cfg.Converter.PageURL)
	}

	cmd = newRootCmd()
	if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("set config: %v", err)
	}
	if _, err := buildConfig(cmd); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestDefaultDownloadDir(t *testing.T) {
	dir, err := defaultDownloadDir()
	if err != nil {
		t.Fatalf("defaultDownloadDir: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}
	if dir != filepath.Join(home, "Downloads") {
		t.Fatalf("dir = %q", dir)
	}
}
