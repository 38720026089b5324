// Package converter wraps the PDF-to-DOCX conversion backends.
//
// The layout analysis itself is not done here. The default backend hands the
// file to the external pdf2docx tool; the native backend is a text-only
// fallback for hosts where that tool isn't installed.
//
// Go Pattern: Converter is a small interface defined next to the code that
// consumes it, so tests can swap in a fake without touching a real PDF.
package converter

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
)

// Options are the tuning parameters passed to every conversion.
type Options struct {
	XTolerance   float64 // Horizontal gap (relative to font size) that still joins fragments into one word
	YTolerance   float64 // Vertical offset (relative to font size) that still counts as the same line
	StrictLayout bool    // Keep the original alignment instead of reflowing text
	OCR          bool    // Run OCR on image-only pages
}

// DefaultOptions returns the settings the service was tuned with:
// a tight horizontal tolerance to stop words merging, strict layout,
// and OCR off so a missing Tesseract install can't crash a request.
func DefaultOptions() Options {
	return Options{
		XTolerance:   0.25,
		YTolerance:   0.5,
		StrictLayout: true,
		OCR:          false,
	}
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		XTolerance:   cfg.XTolerance,
		YTolerance:   cfg.YTolerance,
		StrictLayout: cfg.StrictLayout,
		OCR:          cfg.OCR,
	}
}

// Converter turns the PDF at pdfPath into a DOCX written at docxPath.
// Implementations must either produce a complete file or return an error.
type Converter interface {
	Convert(ctx context.Context, pdfPath, docxPath string, opts Options) error
	Name() string
}

// New returns the converter for the given backend name.
func New(backend, pdf2docxPath string) (Converter, error) {
	switch backend {
	case config.BackendPdf2Docx:
		if pdf2docxPath == "" {
			return nil, fmt.Errorf("pdf2docx backend selected but no binary path given")
		}
		return NewPdf2Docx(pdf2docxPath), nil
	case config.BackendNative:
		return NewNative(), nil
	default:
		return nil, fmt.Errorf("unknown converter backend %q", backend)
	}
}
