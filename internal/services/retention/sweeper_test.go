package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/metrics"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

func newDirs(t *testing.T) *storage.Dirs {
	t.Helper()
	root := t.TempDir()
	dirs, err := storage.New(filepath.Join(root, "in"), filepath.Join(root, "out"))
	require.NoError(t, err)
	return dirs
}

func TestSweepOnce(t *testing.T) {
	dirs := newDirs(t)
	s := NewSweeper(dirs, time.Hour, time.Minute, metrics.New(prometheus.NewRegistry()))

	now := time.Now()
	s.now = func() time.Time { return now.Add(2 * time.Hour) }

	require.NoError(t, os.WriteFile(dirs.TargetPath("a.docx"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(dirs.TargetPath("b.docx"), []byte("b"), 0o644))
	fresh := now.Add(90 * time.Minute)
	require.NoError(t, os.Chtimes(dirs.TargetPath("b.docx"), fresh, fresh))

	assert.Equal(t, 1, s.SweepOnce())
	assert.NoFileExists(t, dirs.TargetPath("a.docx"))
	assert.FileExists(t, dirs.TargetPath("b.docx"))
}

func TestSweeper_DisabledByDefault(t *testing.T) {
	s := NewSweeper(newDirs(t), 0, time.Minute, metrics.New(prometheus.NewRegistry()))
	assert.False(t, s.Enabled())

	// Start/Stop must be safe even when nothing runs.
	s.Start()
	s.Stop()
}

func TestSweeper_StartStop(t *testing.T) {
	dirs := newDirs(t)
	s := NewSweeper(dirs, time.Nanosecond, 10*time.Millisecond, metrics.New(prometheus.NewRegistry()))
	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	require.NoError(t, os.WriteFile(dirs.TargetPath("old.docx"), []byte("x"), 0o644))

	s.Start()
	assert.Eventually(t, func() bool {
		_, err := os.Stat(dirs.TargetPath("old.docx"))
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}
