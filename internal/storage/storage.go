// Package storage manages the two working directories of the converter:
// the incoming directory holding uploaded PDFs and the outgoing directory
// holding produced DOCX files.
//
// Files are keyed only by their sanitized name. Writing a name that already
// exists overwrites it (last write wins).
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested file does not exist.
var ErrNotFound = errors.New("file not found")

// Dirs holds the incoming and outgoing directory paths.
type Dirs struct {
	Incoming string
	Outgoing string
}

// New creates both directories if they don't exist yet.
func New(incoming, outgoing string) (*Dirs, error) {
	for _, dir := range []string{incoming, outgoing} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &Dirs{Incoming: incoming, Outgoing: outgoing}, nil
}

// SourcePath returns where an uploaded file with this name lives.
func (d *Dirs) SourcePath(name string) string {
	return filepath.Join(d.Incoming, name)
}

// TargetPath returns where a converted file with this name lives.
func (d *Dirs) TargetPath(name string) string {
	return filepath.Join(d.Outgoing, name)
}

// SaveUpload writes r into the incoming directory under name, replacing any
// existing file. It returns the stored path and the number of bytes written.
func (d *Dirs) SaveUpload(name string, r io.Reader) (string, int64, error) {
	path := d.SourcePath(name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, n, nil
}

// OpenConverted stats a converted file and returns its path.
// Names that don't survive sanitization unchanged are reported as not found,
// so a request can never reach outside the outgoing directory.
func (d *Dirs) OpenConverted(name string) (string, fs.FileInfo, error) {
	if name == "" || SanitizeFilename(name) != name {
		return "", nil, ErrNotFound
	}

	path := d.TargetPath(name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", nil, ErrNotFound
	}
	return path, info, nil
}

// FindSource locates the uploaded PDF that produced docxName. The upload may
// have used any case for its extension ("Report.PDF"), so the match on the
// extension is case-insensitive while the base name must match exactly.
func (d *Dirs) FindSource(docxName string) (string, error) {
	base := strings.TrimSuffix(docxName, filepath.Ext(docxName))

	exact := d.SourcePath(base + ".pdf")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(d.Incoming)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", d.Incoming, err)
	}
	for _, e := range entries {
		name := e.Name()
		ext := filepath.Ext(name)
		if !e.IsDir() && strings.EqualFold(ext, ".pdf") && strings.TrimSuffix(name, ext) == base {
			return d.SourcePath(name), nil
		}
	}
	return "", ErrNotFound
}

// Remove deletes path. A file that is already gone is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SweepConverted deletes regular files in the outgoing directory whose
// modification time is older than maxAge. It returns how many were removed.
// Files that fail to delete are skipped; the first such error is returned
// alongside the count.
func (d *Dirs) SweepConverted(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(d.Outgoing)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", d.Outgoing, err)
	}

	var (
		removed  int
		firstErr error
	)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // deleted underneath us
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := Remove(d.TargetPath(e.Name())); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}
