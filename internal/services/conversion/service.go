// Package conversion runs one upload through validation, storage and the
// converter backend, and serves the result back.
//
// Each request is handled synchronously. The only state shared between
// requests is the pair of directories, keyed by sanitized filename, so two
// uploads with the same name simply overwrite each other (last write wins).
// Converted output is written to a temporary name and renamed into place,
// which keeps a half-written DOCX from ever being served.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/metrics"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/models"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/converter"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

// Settings are the policy knobs of the Service.
type Settings struct {
	Options                   converter.Options
	AllowedExtensions         []string
	Timeout                   time.Duration // 0 = no limit
	DeleteSourceAfterDownload bool
}

// SettingsFromConfig pulls the Service settings out of the app config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Options:                   converter.OptionsFromConfig(cfg),
		AllowedExtensions:         cfg.AllowedExtensions,
		Timeout:                   cfg.ConvertTimeout,
		DeleteSourceAfterDownload: cfg.DeleteSourceAfterDownload,
	}
}

// Service coordinates storage and the converter backend.
type Service struct {
	dirs     *storage.Dirs
	conv     converter.Converter
	metrics  *metrics.Metrics
	settings Settings
}

// NewService creates a conversion service.
func NewService(dirs *storage.Dirs, conv converter.Converter, m *metrics.Metrics, s Settings) *Service {
	return &Service{dirs: dirs, conv: conv, metrics: m, settings: s}
}

// Backend returns the converter's name.
func (s *Service) Backend() string { return s.conv.Name() }

// Dirs exposes the storage directories (used by the health check).
func (s *Service) Dirs() *storage.Dirs { return s.dirs }

// Convert validates and stores the upload, then converts it.
// The returned job is non-nil even on failure so callers can log it.
func (s *Service) Convert(ctx context.Context, filename string, r io.Reader) (*models.Job, error) {
	now := time.Now().UTC()
	job := &models.Job{
		ID:           uuid.New().String(),
		OriginalName: filename,
		Status:       models.StatusReceived,
		Backend:      s.conv.Name(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.validate(job); err != nil {
		return s.fail(job, err)
	}

	// Step 1: Save the PDF
	path, size, err := s.dirs.SaveUpload(job.SourceName, r)
	if err != nil {
		return s.fail(job, &Error{Kind: KindInternal, Message: "Failed to save upload", Err: err})
	}
	job.SourcePath = path
	job.SizeBytes = size
	job.SetStatus(models.StatusSaved)
	s.metrics.ObserveUpload(size)

	// Step 2: Check it really is a PDF
	info, err := converter.Inspect(path)
	switch {
	case errors.Is(err, converter.ErrNotPDF):
		// The name passed validation, so this is a failed conversion like any
		// other: nothing of the same name may stay downloadable.
		storage.Remove(path)
		s.discardTarget(job)
		return s.fail(job, &Error{Kind: KindConversion, Message: "The uploaded file is not a valid PDF", Err: err})
	case err != nil:
		// The backend has a more forgiving parser than ours; let it decide.
		log.Printf("⚠️  [%s] could not read page count of %s: %v", job.ID, job.SourceName, err)
	default:
		job.PageCount = info.PageCount
	}

	// Step 3: Run the conversion
	if err := s.run(ctx, job); err != nil {
		return s.fail(job, err)
	}

	job.SetStatus(models.StatusConverted)
	s.metrics.ConversionFinished(metrics.StatusSuccess)
	log.Printf("✅ [%s] converted %s → %s (%d pages, %s)", job.ID, job.SourceName, job.TargetName, job.PageCount, job.Backend)
	return job, nil
}

// validate checks the declared filename and fills in the storage names.
func (s *Service) validate(job *models.Job) error {
	if job.OriginalName == "" {
		return Validation("No selected file")
	}
	if !storage.HasAllowedExtension(job.OriginalName, s.settings.AllowedExtensions) {
		return Validation("Invalid file type")
	}

	name := storage.SanitizeFilename(job.OriginalName)
	if !storage.HasAllowedExtension(name, s.settings.AllowedExtensions) {
		// Non-ASCII stems fold away entirely ("報告.pdf" sanitizes to "pdf");
		// put the extension back so the pair still maps to a DOCX name.
		name = storage.SanitizeFilename(name + strings.ToLower(filepath.Ext(job.OriginalName)))
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" || !storage.HasAllowedExtension(name, s.settings.AllowedExtensions) {
		return Validation("Invalid file name")
	}

	job.SourceName = name
	job.TargetName = storage.TargetName(name)
	job.TargetPath = s.dirs.TargetPath(job.TargetName)
	return nil
}

// run converts into a temporary file and renames it over the target.
// On any failure neither the temporary file nor a stale target survives.
func (s *Service) run(ctx context.Context, job *models.Job) error {
	job.SetStatus(models.StatusConverting)

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	// A leading dot keeps the temp file out of reach of /download, since
	// sanitization strips it.
	tmp := s.dirs.TargetPath("." + job.ID + ".docx")

	start := time.Now()
	err := s.conv.Convert(ctx, job.SourcePath, tmp, s.settings.Options)
	s.metrics.ObserveConversion(time.Since(start))
	if err == nil {
		err = converter.VerifyDOCX(tmp)
	}
	if err != nil {
		storage.Remove(tmp)
		s.discardTarget(job)
		return &Error{Kind: KindConversion, Message: err.Error(), Err: err}
	}

	if err := os.Rename(tmp, job.TargetPath); err != nil {
		storage.Remove(tmp)
		return &Error{Kind: KindInternal, Message: "Failed to store converted file", Err: err}
	}
	return nil
}

// discardTarget removes a DOCX left by an earlier upload of the same name.
func (s *Service) discardTarget(job *models.Job) {
	if err := storage.Remove(job.TargetPath); err != nil {
		log.Printf("⚠️  [%s] failed to remove stale %s: %v", job.ID, job.TargetName, err)
	}
}

// fail marks the job failed, records metrics and logs the classified error.
func (s *Service) fail(job *models.Job, err error) (*models.Job, error) {
	job.SetStatus(models.StatusFailed)
	job.ErrorMessage = err.Error()

	kind := KindOf(err)
	if kind == KindValidation {
		s.metrics.ConversionFinished(metrics.StatusValidation)
	} else {
		s.metrics.ConversionFinished(metrics.StatusFailed)
	}

	log.Printf("❌ [%s] %s failure for %q: %v", job.ID, kind, job.OriginalName, err)
	return job, err
}

// Download describes a converted file ready to be streamed.
type Download struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Open resolves a requested DOCX name in the outgoing directory.
func (s *Service) Open(name string) (*Download, error) {
	path, info, err := s.dirs.OpenConverted(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.DownloadFinished(metrics.StatusNotFound)
			return nil, &Error{Kind: KindNotFound, Message: "File not found", Err: err}
		}
		s.metrics.DownloadFinished(metrics.StatusFailed)
		return nil, &Error{Kind: KindInternal, Message: "Failed to open file", Err: err}
	}

	s.metrics.DownloadFinished(metrics.StatusSuccess)
	return &Download{Name: name, Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// AfterDownload applies the retention policy once a DOCX has been fully
// sent. When enabled, the matching source PDF is deleted. Failures are
// logged and reported through the returned status only; the response has
// already gone out.
func (s *Service) AfterDownload(name string) models.JobStatus {
	if !s.settings.DeleteSourceAfterDownload {
		return models.StatusDownloaded
	}

	src, err := s.dirs.FindSource(name)
	if errors.Is(err, storage.ErrNotFound) {
		return models.StatusSourceCleaned // nothing left to delete
	}
	if err == nil {
		err = storage.Remove(src)
	}
	if err != nil {
		s.metrics.CleanupFinished(metrics.StatusFailed)
		log.Printf("⚠️  Cleanup after download of %s failed: %v", name, err)
		return models.StatusCleanupFailed
	}

	s.metrics.CleanupFinished(metrics.StatusSuccess)
	log.Printf("🧹 Removed source %s after download", filepath.Base(src))
	return models.StatusSourceCleaned
}

// String helps when logging a Download.
func (d *Download) String() string {
	return fmt.Sprintf("%s (%d bytes)", d.Name, d.Size)
}
