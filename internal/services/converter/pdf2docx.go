package converter

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
)

// Pdf2DocxConverter runs the pdf2docx command-line tool.
type Pdf2DocxConverter struct {
	binPath string
}

// NewPdf2Docx creates a converter that shells out to the binary at binPath.
func NewPdf2Docx(binPath string) *Pdf2DocxConverter {
	return &Pdf2DocxConverter{binPath: binPath}
}

// Name identifies the backend in logs and the health endpoint.
func (c *Pdf2DocxConverter) Name() string { return "pdf2docx" }

// Convert runs `pdf2docx convert <pdf> <docx>` with the tuning flags and
// blocks until the process exits.
func (c *Pdf2DocxConverter) Convert(ctx context.Context, pdfPath, docxPath string, opts Options) error {
	// exec.CommandContext kills the process if ctx is cancelled, so a client
	// disconnect or a configured timeout doesn't leave it running.
	cmd := exec.CommandContext(ctx, c.binPath, buildArgs(pdfPath, docxPath, opts)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("📄 pdf2docx: %s → %s", pdfPath, docxPath)
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("pdf2docx failed: %s: %w", msg, err)
		}
		return fmt.Errorf("pdf2docx failed: %w", err)
	}
	return nil
}

// buildArgs renders the pdf2docx CLI arguments. The tool parses flags as
// Python literals, hence True/False and integer OCR mode.
func buildArgs(pdfPath, docxPath string, opts Options) []string {
	ocr := "0"
	if opts.OCR {
		ocr = "1"
	}
	return []string{
		"convert", pdfPath, docxPath,
		"--start=0", // whole document
		"--x_tolerance=" + strconv.FormatFloat(opts.XTolerance, 'f', -1, 64),
		"--y_tolerance=" + strconv.FormatFloat(opts.YTolerance, 'f', -1, 64),
		"--keep_al=" + pyBool(opts.StrictLayout),
		"--ocr=" + ocr,
	}
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// lastLine returns the last non-empty line of a tool's stderr, which for
// Python tracebacks is the exception message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
