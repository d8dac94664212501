// Package render defines the renderer contract shared by the format
// backends. Each backend walks the assembled document independently and
// serializes it to bytes; none of them mutate the document or the report.
package render

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/llmlens/llmlens/internal/doc"
)

// Format is a supported output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatText:
		return true
	}
	return false
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func (f Format) Extension() string {
	return string(f)
}

// Renderer serializes one assembled document to bytes. Implementations are
// stateless and safe for concurrent use across render jobs.
type Renderer interface {
	Format() Format
	Render(d *doc.Document) ([]byte, error)
}

// Error is the typed rendering failure surfaced to the job dispatcher.
type Error struct {
	ReportID uuid.UUID
	Format   Format
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering report %s as %s: %v", e.ReportID, e.Format, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
