// Package pdf extracts text from PDF blobs using the pdftotext tool
// from poppler-utils.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// CommandRunner executes an external command and returns its stdout.
// Injectable for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor extracts text from PDF documents.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor using pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Extract converts a PDF blob to plain text preserving reading order.
// pdftotext reads from a temp file and writes UTF-8 to stdout; any
// failure (corrupt file, encrypted file, missing binary) surfaces as
// domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty blob", domain.ErrInvalidInput)
	}

	tmpDir, err := os.MkdirTemp("", "askdocs-pdf-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpFile := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(tmpFile, blob, 0600); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	// "-" sends the text to stdout
	output, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", tmpFile, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", domain.ErrExtraction, err)
	}

	return string(output), nil
}
