// Package main is the entry point for the pdf2word CLI: it converts a PDF
// to a Word document by driving ilovepdf.com in a Chrome session.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"pdf2word/internal/config"
	"pdf2word/internal/convert"
	"pdf2word/internal/infra/chrome"
	"pdf2word/internal/infra/logging"
	"pdf2word/internal/progress"
)

// errConversionFailed keeps the exit-code contract: the reporter already
// told the user what went wrong, so main only maps it to exit code 1.
var errConversionFailed = errors.New("conversion failed")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf2word <file.pdf> [output-dir]",
		Short: "Convert a PDF to a Word document via ilovepdf.com",
		Long: `pdf2word drives a Chrome session against the iLovePDF PDF-to-Word page:
it uploads the given file, clicks through the conversion, and waits until
the converted document lands in the output directory (default: the user's
Downloads folder).

Exit code 0 means the document arrived; anything else exits with 1.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConvert,
	}

	cmd.Flags().String("config", "", "config file (default: $CONFIG_PATH or ./pdf2word.yaml)")
	cmd.Flags().Bool("headed", false, "run Chrome with a visible window")
	cmd.Flags().String("chrome", "", "path to the Chrome binary (default: $CHROME_BIN or autodetect)")
	cmd.Flags().Bool("fresh-only", false, "ignore documents that existed before the conversion started")
	cmd.Flags().Int("timeout", 0, "download wait budget in seconds (overrides the config)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]
	outDir := ""
	if len(args) == 2 {
		outDir = args[1]
	} else {
		d, err := defaultDownloadDir()
		if err != nil {
			return fmt.Errorf("resolve default output dir: %w", err)
		}
		outDir = d
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	logging.SetLogLevel(cfg.Logger.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	launcher := chrome.NewLauncher(cfg.Chrome)
	reporter := progress.NewConsole(cmd.OutOrStdout())
	conv := convert.New(cfg, launcher, reporter)

	if !conv.Convert(ctx, source, outDir) {
		return errConversionFailed
	}
	return nil
}

// buildConfig loads the configuration and layers the command-line
// overrides on top.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("headed") {
		headed, _ := cmd.Flags().GetBool("headed")
		cfg.Chrome.Headless = !headed
	}
	if cmd.Flags().Changed("chrome") {
		cfg.Chrome.Path, _ = cmd.Flags().GetString("chrome")
	}
	if cmd.Flags().Changed("fresh-only") {
		cfg.Converter.FreshOnly, _ = cmd.Flags().GetBool("fresh-only")
	}
	if v, _ := cmd.Flags().GetInt("timeout"); v > 0 {
		cfg.Converter.WatchTimeoutSecs = v
	}

	// Allow common container env var to override the chrome path.
	if cfg.Chrome.Path == "" {
		if v := os.Getenv("CHROME_BIN"); v != "" {
			cfg.Chrome.Path = v
		}
	}
	return cfg, nil
}

// defaultDownloadDir is where converted documents land when no output
// directory is given: the user's Downloads folder.
func defaultDownloadDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errConversionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
