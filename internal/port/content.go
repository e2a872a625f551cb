package port

import (
	"context"

	"declara/internal/domain"
)

// RawContent is the normalized form of an uploaded document's content:
// page-ordered text for PDFs and plain text, or a row/cell matrix for
// spreadsheets and CSV. At least one of the two is populated.
type RawContent struct {
	Pages []string
	Rows  [][]string
}

// IsEmpty reports whether the content carries no usable text or rows.
func (c *RawContent) IsEmpty() bool {
	for _, p := range c.Pages {
		if p != "" {
			return false
		}
	}
	return len(c.Rows) == 0
}

// ContentProvider converts raw file bytes into RawContent. PDF text-layout
// extraction is supplied by the host system; this module only requires the
// page-ordered-text capability it exposes.
type ContentProvider interface {
	Extract(ctx context.Context, fileType domain.FileType, data []byte) (*RawContent, error)
}
