package converter

import (
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// VerifyDOCX opens a produced file as a Word document and checks that it has
// a document body. A converter that exits cleanly but leaves a truncated or
// empty archive behind is treated as a failed conversion.
func VerifyDOCX(path string) error {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return fmt.Errorf("converter produced an unreadable DOCX: %w", err)
	}
	defer doc.Close()

	if !strings.Contains(doc.Editable().GetContent(), "<w:body") {
		return fmt.Errorf("converter produced a DOCX without a document body")
	}
	return nil
}
