package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrSourceNotFound signals that the source document does not exist or
	// is not a regular file.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrBadExtension signals that the source document has the wrong
	// extension for this conversion.
	ErrBadExtension = errors.New("unexpected source extension")
)

// Request is a validated conversion job: one source document and the
// directory the converted file must land in. Both paths are absolute.
type Request struct {
	Source string
	OutDir string
}

// NewRequest checks the source document and prepares the output directory.
// The extension check is case-insensitive. No browser resources are touched
// here; a bad request never launches anything.
func NewRequest(source, outDir, sourceExt string) (Request, error) {
	src, err := filepath.Abs(source)
	if err != nil {
		return Request{}, fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}
	if info.IsDir() {
		return Request{}, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, src)
	}
	if !strings.EqualFold(filepath.Ext(src), sourceExt) {
		return Request{}, fmt.Errorf("%w: want %s, got %q", ErrBadExtension, sourceExt, filepath.Ext(src))
	}

	out, err := filepath.Abs(outDir)
	if err != nil {
		return Request{}, fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return Request{}, fmt.Errorf("create output dir: %w", err)
	}
	return Request{Source: src, OutDir: out}, nil
}
