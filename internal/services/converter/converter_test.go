package converter

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/testutil"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.7\n..."), true},
		{"too short", []byte("%PDF"), false},
		{"docx zip", []byte("PK\x03\x04"), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePDF(tt.data))
		})
	}
}

func TestInspect(t *testing.T) {
	path := writeFile(t, "two.pdf", testutil.BuildPDF([]string{"one"}, []string{"two"}))

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
	assert.Positive(t, info.Size)
}

func TestInspect_RejectsNonPDF(t *testing.T) {
	path := writeFile(t, "fake.pdf", []byte("just some text"))

	_, err := Inspect(path)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestInspect_BrokenStructure(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("%PDF-1.4\nnot really a pdf"))

	_, err := Inspect(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPDF)
}

func TestNew(t *testing.T) {
	c, err := New(config.BackendNative, "")
	require.NoError(t, err)
	assert.Equal(t, "native", c.Name())

	c, err = New(config.BackendPdf2Docx, "/usr/bin/pdf2docx")
	require.NoError(t, err)
	assert.Equal(t, "pdf2docx", c.Name())

	_, err = New(config.BackendPdf2Docx, "")
	assert.Error(t, err)

	_, err = New("libreoffice", "")
	assert.Error(t, err)
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("in.pdf", "out.docx", DefaultOptions())
	assert.Equal(t, []string{
		"convert", "in.pdf", "out.docx",
		"--start=0",
		"--x_tolerance=0.25",
		"--y_tolerance=0.5",
		"--keep_al=True",
		"--ocr=0",
	}, args)

	args = buildArgs("in.pdf", "out.docx", Options{XTolerance: 1, YTolerance: 2, OCR: true})
	assert.Contains(t, args, "--keep_al=False")
	assert.Contains(t, args, "--ocr=1")
	assert.Contains(t, args, "--x_tolerance=1")
}

// fakeTool writes a shell script standing in for the pdf2docx binary.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "pdf2docx")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestPdf2Docx_Convert(t *testing.T) {
	// The stand-in records its arguments in the output file ($3).
	bin := fakeTool(t, `echo "$@" > "$3"`)
	out := filepath.Join(t.TempDir(), "out.docx")

	err := NewPdf2Docx(bin).Convert(context.Background(), "in.pdf", out, DefaultOptions())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "convert in.pdf "+out)
	assert.Contains(t, string(data), "--x_tolerance=0.25")
	assert.Contains(t, string(data), "--ocr=0")
}

func TestPdf2Docx_ConvertFailure(t *testing.T) {
	bin := fakeTool(t, `echo "Traceback (most recent call last):" >&2
echo "ValueError: broken xref" >&2
exit 3`)

	err := NewPdf2Docx(bin).Convert(context.Background(), "in.pdf", "out.docx", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ValueError: broken xref")
}

func TestPdf2Docx_ContextCancelled(t *testing.T) {
	bin := fakeTool(t, `sleep 5`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPdf2Docx(bin).Convert(ctx, "in.pdf", "out.docx", DefaultOptions())
	assert.Error(t, err)
}

func TestNative_Convert(t *testing.T) {
	src := writeFile(t, "report.pdf", testutil.BuildPDF(
		[]string{"Quarterly Report", "Revenue grew by ten percent"},
		[]string{"Second page"},
	))
	out := filepath.Join(t.TempDir(), "report.docx")

	err := NewNative().Convert(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, VerifyDOCX(out))

	doc, err := docx.ReadDocxFile(out)
	require.NoError(t, err)
	defer doc.Close()
	content := doc.Editable().GetContent()

	assert.Contains(t, content, "Quarterly Report")
	assert.Contains(t, content, "Revenue grew by ten percent")
	assert.Contains(t, content, "Second page")
	assert.Less(t, strings.Index(content, "Quarterly Report"), strings.Index(content, "Second page"))
}

func TestNative_NoTextLayer(t *testing.T) {
	src := writeFile(t, "scan.pdf", testutil.BuildPDF([]string{}))
	out := filepath.Join(t.TempDir(), "scan.docx")

	err := NewNative().Convert(context.Background(), src, out, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoTextLayer)
	assert.NoFileExists(t, out)
}

func TestGroupLines(t *testing.T) {
	frag := func(x, y float64, s string) pdf.Text {
		return pdf.Text{X: x, Y: y, W: 6, FontSize: 10, S: s}
	}

	tests := []struct {
		name  string
		texts []pdf.Text
		opts  Options
		want  []string
	}{
		{
			name:  "adjacent glyphs form one word",
			texts: []pdf.Text{frag(0, 100, "a"), frag(6, 100, "b"), frag(12, 100, "c")},
			opts:  DefaultOptions(),
			want:  []string{"abc"},
		},
		{
			name:  "gap wider than tolerance becomes a space",
			texts: []pdf.Text{frag(0, 100, "a"), frag(10, 100, "b")},
			opts:  DefaultOptions(), // 0.25 × 10pt = 2.5 < 4
			want:  []string{"a b"},
		},
		{
			name:  "looser tolerance merges the same gap",
			texts: []pdf.Text{frag(0, 100, "a"), frag(10, 100, "b")},
			opts:  Options{XTolerance: 0.5, YTolerance: 0.5}, // 5 > 4
			want:  []string{"ab"},
		},
		{
			name:  "small baseline jitter stays on one line",
			texts: []pdf.Text{frag(0, 100, "x"), frag(6, 98, "y")},
			opts:  DefaultOptions(),
			want:  []string{"xy"},
		},
		{
			name:  "lines ordered top to bottom, glyphs left to right",
			texts: []pdf.Text{frag(6, 80, "d"), frag(0, 100, "a"), frag(0, 80, "c"), frag(6, 100, "b")},
			opts:  DefaultOptions(),
			want:  []string{"ab", "cd"},
		},
		{
			name:  "empty input",
			texts: nil,
			opts:  DefaultOptions(),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groupLines(tt.texts, tt.opts))
		})
	}
}

func TestVerifyDOCX_RejectsGarbage(t *testing.T) {
	path := writeFile(t, "bad.docx", []byte("not a zip"))
	assert.Error(t, VerifyDOCX(path))
}
