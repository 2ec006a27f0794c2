package config

import (
	"fmt"
	neturl "net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultFile is picked up from the working directory when no explicit
// path and no CONFIG_PATH are given.
const defaultFile = "pdf2word.yaml"

// Config holds all runtime settings for the converter.
type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Converter ConverterConfig `yaml:"converter"`
	Selectors SelectorsConfig `yaml:"selectors"`
	Chrome    ChromeConfig    `yaml:"chrome"`
}

// LoggerConfig controls the rotated JSON log file.
type LoggerConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ConverterConfig drives the upload/convert/download sequence and the
// download watch. Timeouts are in whole seconds.
type ConverterConfig struct {
	PageURL       string `yaml:"page_url"`
	SourceExt     string `yaml:"source_ext"`
	OutputExt     string `yaml:"output_ext"`
	PendingSuffix string `yaml:"pending_suffix"`

	NavigateTimeoutSecs int `yaml:"navigate_timeout_secs"`
	CookieTimeoutSecs   int `yaml:"cookie_timeout_secs"`
	UploadTimeoutSecs   int `yaml:"upload_timeout_secs"`
	SettleDelaySecs     int `yaml:"settle_delay_secs"`
	ConvertTimeoutSecs  int `yaml:"convert_timeout_secs"`
	DownloadTimeoutSecs int `yaml:"download_timeout_secs"`
	WatchTimeoutSecs    int `yaml:"watch_timeout_secs"`
	PollIntervalSecs    int `yaml:"poll_interval_secs"`
	CloseGraceSecs      int `yaml:"close_grace_secs"`

	// FreshOnly ignores files that were already in the output directory
	// before the session started. Off by default: a completed file that
	// predates the conversion still counts as success.
	FreshOnly bool `yaml:"fresh_only"`
}

// SelectorsConfig lists the CSS selectors probed on the conversion page.
// Convert and Download are tried in order; the first actionable one wins.
type SelectorsConfig struct {
	CookieAccept []string `yaml:"cookie_accept"`
	FileInput    string   `yaml:"file_input"`
	Convert      []string `yaml:"convert"`
	Download     []string `yaml:"download"`
}

// ChromeConfig controls how the browser is started.
type ChromeConfig struct {
	Path         string `yaml:"path"`
	Headless     bool   `yaml:"headless"`
	NoSandbox    bool   `yaml:"no_sandbox"`
	UserDataDir  string `yaml:"user_data_dir"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

// Default returns the built-in configuration, tuned for ilovepdf.com.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			File:       "pdf2word.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   false,
		},
		Converter: ConverterConfig{
			PageURL:             "https://www.ilovepdf.com/pdf_to_word",
			SourceExt:           ".pdf",
			OutputExt:           ".docx",
			PendingSuffix:       ".crdownload",
			NavigateTimeoutSecs: 60,
			CookieTimeoutSecs:   5,
			UploadTimeoutSecs:   10,
			SettleDelaySecs:     3,
			ConvertTimeoutSecs:  30,
			DownloadTimeoutSecs: 60,
			WatchTimeoutSecs:    120,
			PollIntervalSecs:    1,
			CloseGraceSecs:      2,
		},
		Selectors: SelectorsConfig{
			CookieAccept: []string{"#c-p-bn"},
			FileInput:    "input[type='file']",
			Convert: []string{
				"#processTask",
				"button[type='submit']",
				".process__btn",
			},
			Download: []string{
				"a.downloader__btn",
				"#downloadFile",
				".download__btn",
				"a[href*='download']",
			},
		},
		Chrome: ChromeConfig{
			Headless:     true,
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
	}
}

// Load resolves the configuration file and loads it. Resolution order:
// explicit path, CONFIG_PATH env var, ./pdf2word.yaml. When none of these
// exists the built-in defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat(defaultFile); err == nil {
			path = defaultFile
		}
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates one concrete configuration file. Keys that
// are absent keep their default values.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	parsed, err := neturl.ParseRequestURI(c.Converter.PageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("converter.page_url must be an http(s) URL")
	}
	if !strings.HasPrefix(c.Converter.SourceExt, ".") {
		return fmt.Errorf("converter.source_ext must start with a dot")
	}
	if !strings.HasPrefix(c.Converter.OutputExt, ".") {
		return fmt.Errorf("converter.output_ext must start with a dot")
	}
	if !strings.HasPrefix(c.Converter.PendingSuffix, ".") {
		return fmt.Errorf("converter.pending_suffix must start with a dot")
	}
	if c.Converter.NavigateTimeoutSecs <= 0 {
		return fmt.Errorf("converter.navigate_timeout_secs must be positive")
	}
	if c.Converter.UploadTimeoutSecs <= 0 {
		return fmt.Errorf("converter.upload_timeout_secs must be positive")
	}
	if c.Converter.ConvertTimeoutSecs <= 0 {
		return fmt.Errorf("converter.convert_timeout_secs must be positive")
	}
	if c.Converter.DownloadTimeoutSecs <= 0 {
		return fmt.Errorf("converter.download_timeout_secs must be positive")
	}
	if c.Converter.WatchTimeoutSecs <= 0 {
		return fmt.Errorf("converter.watch_timeout_secs must be positive")
	}
	if c.Converter.PollIntervalSecs <= 0 {
		return fmt.Errorf("converter.poll_interval_secs must be positive")
	}
	// Heuristic delays and the optional cookie step may be disabled entirely.
	if c.Converter.CookieTimeoutSecs < 0 {
		return fmt.Errorf("converter.cookie_timeout_secs must not be negative")
	}
	if c.Converter.SettleDelaySecs < 0 {
		return fmt.Errorf("converter.settle_delay_secs must not be negative")
	}
	if c.Converter.CloseGraceSecs < 0 {
		return fmt.Errorf("converter.close_grace_secs must not be negative")
	}
	if c.Selectors.FileInput == "" {
		return fmt.Errorf("selectors.file_input must be set")
	}
	if len(c.Selectors.Convert) == 0 {
		return fmt.Errorf("selectors.convert must list at least one selector")
	}
	if len(c.Selectors.Download) == 0 {
		return fmt.Errorf("selectors.download must list at least one selector")
	}
	if c.Chrome.WindowWidth < 0 || c.Chrome.WindowHeight < 0 {
		return fmt.Errorf("chrome window size must not be negative")
	}
	if c.Logger.File == "" {
		return fmt.Errorf("logger.file must be set")
	}
	return nil
}
