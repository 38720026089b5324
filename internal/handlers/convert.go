// convert.go handles the upload-and-convert endpoint.
//
// POST /convert — Upload a PDF (field "file") and convert it to DOCX
package handlers

import (
	"errors"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/models"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/conversion"
)

// ConvertPDF handles PDF upload and conversion.
// POST /convert
//
// Processing is synchronous: the response is sent once the converter has
// finished, and points at the download URL of the produced DOCX.
func (h *Handler) ConvertPDF(c *gin.Context) {
	part, err := filePart(c.Request)
	if err != nil {
		respondError(c, err)
		return
	}
	defer part.Close()

	// The part is streamed straight into the upload directory.
	job, err := h.Service.Convert(c.Request.Context(), part.FileName(), part)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConvertResponse{
		Status:      "success",
		DownloadURL: "/download/" + job.TargetName,
		Filename:    job.TargetName,
		Pages:       job.PageCount,
	})
}

// filePart advances the multipart stream to the file part named "file".
// A file input submitted with nothing selected arrives as a part with an
// empty filename parameter; a plain text field of the same name carries no
// filename parameter at all and doesn't count as an upload.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, conversion.Validation("No file uploaded")
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("⚠️  Malformed multipart body: %v", err)
			}
			return nil, conversion.Validation("No file uploaded")
		}
		if part.FormName() != "file" || !hasFilenameParam(part) {
			part.Close()
			continue
		}
		if part.FileName() == "" {
			part.Close()
			return nil, conversion.Validation("No selected file")
		}
		return part, nil
	}
}

func hasFilenameParam(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

// respondError writes the JSON error body for a classified failure.
// Unclassified errors are reported as a generic 500 so internals don't leak.
func respondError(c *gin.Context, err error) {
	var convErr *conversion.Error
	if !errors.As(err, &convErr) {
		log.Printf("❌ Unclassified error: %v", err)
		convErr = &conversion.Error{Kind: conversion.KindInternal, Message: "Internal server error", Err: err}
	}
	c.JSON(convErr.HTTPStatus(), models.ErrorResponse{Error: convErr.Message})
}
