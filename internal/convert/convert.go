// Package convert turns non-canonical input formats into PDF bytes. The
// external engine invocation hides behind the Converter interface so the
// ingestion pipeline stays testable without LibreOffice installed.
package convert

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"redink/internal/document/models"
	derrors "redink/pkg/domain-errors"
)

// Converter converts source bytes of the given original format into
// canonical PDF bytes. Failures are CodeConversion errors carrying the
// engine's diagnostic output; no partial output is left behind.
type Converter interface {
	Convert(ctx context.Context, src []byte, format models.Format) ([]byte, error)
}

// Passthrough handles already-canonical input. It exists so the pipeline
// can treat every upload uniformly.
type Passthrough struct{}

func (Passthrough) Convert(_ context.Context, src []byte, format models.Format) ([]byte, error) {
	if format.Convertible() {
		return nil, derrors.Newf(derrors.CodeConversion, "passthrough cannot convert %s", format)
	}
	return src, nil
}

// LibreOffice converts documents by invoking soffice headless as a blocking
// subprocess with a per-call scratch directory. The engine writes its output
// next to the input with the extension swapped to .pdf, which makes the
// output location deterministic.
type LibreOffice struct {
	binary  string
	workDir string
	timeout time.Duration
}

// NewLibreOffice builds a converter around the given soffice binary.
// workDir is where scratch directories are created; empty means the system
// temp directory.
func NewLibreOffice(binary, workDir string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &LibreOffice{binary: binary, workDir: workDir, timeout: timeout}
}

func (c *LibreOffice) Convert(ctx context.Context, src []byte, format models.Format) ([]byte, error) {
	scratch, err := os.MkdirTemp(c.workDir, "redink-convert-*")
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "create conversion scratch dir")
	}
	// The scratch directory holds the input and any partial output; removing
	// it wholesale is what guarantees no leftover artifacts on any path.
	defer os.RemoveAll(scratch)

	srcPath := filepath.Join(scratch, "input."+format.Extension())
	if err := os.WriteFile(srcPath, src, 0o600); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "write conversion input")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", scratch,
		srcPath,
	)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, derrors.Newf(derrors.CodeConversion,
				"conversion timed out after %s: %s", c.timeout, diagnostic(&output))
		}
		return nil, derrors.Newf(derrors.CodeConversion,
			"conversion engine failed: %v: %s", err, diagnostic(&output))
	}

	outPath := filepath.Join(scratch, "input.pdf")
	out, err := os.ReadFile(outPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// soffice exits zero on some failures without producing output.
			return nil, derrors.Newf(derrors.CodeConversion,
				"conversion produced no output: %s", diagnostic(&output))
		}
		return nil, derrors.Wrap(err, derrors.CodeStorage, "read conversion output")
	}
	return out, nil
}

func diagnostic(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return "(no engine output)"
	}
	return s
}
