package converter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when a file doesn't start with the PDF header.
var ErrNotPDF = errors.New("file is not a valid PDF")

// PDFInfo is what we learn about an upload before converting it.
type PDFInfo struct {
	PageCount int
	Size      int64
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// Inspect checks the magic bytes of the file at path and counts its pages.
func Inspect(path string) (*PDFInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 5)
	if _, err := io.ReadFull(f, head); err != nil || !ValidatePDF(head) {
		return nil, ErrNotPDF
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	pages, err := countPages(f, stat.Size())
	if err != nil {
		return nil, err
	}
	return &PDFInfo{PageCount: pages, Size: stat.Size()}, nil
}

// countPages opens the PDF structure. The pdf library panics on some
// malformed cross-reference tables, so the panic is turned into an error.
func countPages(r io.ReaderAt, size int64) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to open PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader.NumPage(), nil
}
