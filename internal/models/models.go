// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// Nothing here is persisted; a Job lives for the length of one request and
// only the files it points at outlive it.
package models

import "time"

// JobStatus is a step in a conversion's lifecycle.
//
//	received → saved → converting → converted | failed
//	converted → downloaded → source_cleaned | cleanup_failed
type JobStatus string

const (
	StatusReceived      JobStatus = "received"
	StatusSaved         JobStatus = "saved"
	StatusConverting    JobStatus = "converting"
	StatusConverted     JobStatus = "converted"
	StatusFailed        JobStatus = "failed"
	StatusDownloaded    JobStatus = "downloaded"
	StatusSourceCleaned JobStatus = "source_cleaned"
	StatusCleanupFailed JobStatus = "cleanup_failed"
)

// Job tracks one PDF through upload and conversion. Its only identity across
// requests is TargetName; ID is for correlating log lines.
type Job struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"` // As sent by the client
	SourceName   string    `json:"source_name"`   // Sanitized, e.g. report.pdf
	SourcePath   string    `json:"-"`
	TargetName   string    `json:"target_name"` // e.g. report.docx
	TargetPath   string    `json:"-"`
	Status       JobStatus `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	PageCount    int       `json:"page_count"`
	SizeBytes    int64     `json:"size_bytes"`
	Backend      string    `json:"backend"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetStatus moves the job to a new lifecycle step.
func (j *Job) SetStatus(s JobStatus) {
	j.Status = s
	j.UpdatedAt = time.Now().UTC()
}

// --- Request/Response DTOs ---

// ConvertResponse is returned by POST /convert on success.
type ConvertResponse struct {
	Status      string `json:"status"` // always "success"
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	Pages       int    `json:"pages"`
}

// ErrorResponse is the JSON error body for POST /convert.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Backend      string `json:"backend"`
	UploadDir    string `json:"upload_dir"`
	ConvertedDir string `json:"converted_dir"`
	Storage      string `json:"storage"`
}
