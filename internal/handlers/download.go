// download.go streams converted files back to the caller.
//
// GET /download/:filename — Download a converted DOCX as an attachment
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/conversion"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DownloadFile serves a converted DOCX.
// GET /download/:filename
//
// Responds 404 with a plain-text body when the file doesn't exist. After a
// complete 200 response the retention policy runs, which may delete the
// source PDF; its outcome never changes the response already sent.
func (h *Handler) DownloadFile(c *gin.Context) {
	dl, err := h.Service.Open(c.Param("filename"))
	if err != nil {
		if conversion.KindOf(err) == conversion.KindNotFound {
			c.String(http.StatusNotFound, "File not found")
			return
		}
		log.Printf("❌ Download of %q failed: %v", c.Param("filename"), err)
		c.String(http.StatusInternalServerError, "Failed to read file")
		return
	}

	c.Header("Content-Type", docxContentType)
	c.FileAttachment(dl.Path, dl.Name)

	// Range and conditional requests can end in 206/304; only a full body
	// counts as a completed download.
	if c.Writer.Status() != http.StatusOK {
		return
	}

	status := h.Service.AfterDownload(dl.Name)
	log.Printf("📥 Served %s → %s", dl, status)
}
