package converter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// ErrNoTextLayer is returned by the native backend for PDFs without any
// extractable text (typically scans).
var ErrNoTextLayer = errors.New("PDF has no text layer; enable OCR with the pdf2docx backend")

// NativeConverter rebuilds a DOCX from the PDF text layer alone.
// It keeps line and page structure but drops images, tables and styling.
type NativeConverter struct{}

// NewNative creates the pure-Go fallback converter.
func NewNative() *NativeConverter {
	return &NativeConverter{}
}

// Name identifies the backend in logs and the health endpoint.
func (c *NativeConverter) Name() string { return "native" }

// Convert reads positioned text from every page, merges fragments into lines
// using the tolerances, and writes one paragraph per line. Pages are
// separated by an empty paragraph.
func (c *NativeConverter) Convert(ctx context.Context, pdfPath, docxPath string, opts Options) error {
	pages, err := readPages(ctx, pdfPath, opts)
	if err != nil {
		return err
	}

	hasText := false
	for _, lines := range pages {
		if len(lines) > 0 {
			hasText = true
			break
		}
	}
	if !hasText {
		return ErrNoTextLayer
	}

	doc := docx.New().WithDefaultTheme()
	for i, lines := range pages {
		if i > 0 {
			doc.AddParagraph()
		}
		for _, line := range lines {
			doc.AddParagraph().AddText(line)
		}
	}

	f, err := os.Create(docxPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", docxPath, err)
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write DOCX: %w", err)
	}
	return f.Close()
}

// readPages returns the reconstructed lines of each page.
func readPages(ctx context.Context, path string, opts Options) (pages [][]string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to read PDF content: %v", rec)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, groupLines(page.Content().Text, opts))
	}
	return pages, nil
}

// groupLines merges glyph fragments into text lines.
//
// Fragments whose baselines are within YTolerance×fontSize of a line's first
// fragment join that line. Within a line, a gap wider than
// XTolerance×fontSize between the end of one fragment and the start of the
// next becomes a space. The PDF library drops literal space glyphs, so this
// gap test is the only thing that separates words.
func groupLines(texts []pdf.Text, opts Options) []string {
	if len(texts) == 0 {
		return nil
	}

	// PDF y grows upwards: top of the page first.
	frags := make([]pdf.Text, len(texts))
	copy(frags, texts)
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].Y > frags[j].Y })

	var groups [][]pdf.Text
	for _, t := range frags {
		if n := len(groups); n > 0 {
			first := groups[n-1][0]
			if math.Abs(first.Y-t.Y) <= opts.YTolerance*fontSize(first) {
				groups[n-1] = append(groups[n-1], t)
				continue
			}
		}
		groups = append(groups, []pdf.Text{t})
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].X < g[j].X })

		var b strings.Builder
		for i, t := range g {
			if i > 0 {
				prev := g[i-1]
				gap := t.X - (prev.X + prev.W)
				if gap > opts.XTolerance*fontSize(prev) && !strings.HasSuffix(b.String(), " ") {
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.S)
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fontSize guards against zero-size fragments, which would make every
// tolerance zero.
func fontSize(t pdf.Text) float64 {
	if t.FontSize <= 0 {
		return 1
	}
	return t.FontSize
}
