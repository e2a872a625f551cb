// Package content converts uploaded file bytes into the normalized
// RawContent shape the extractor consumes: page-ordered text or a row/cell
// matrix.
package content

import (
	"context"
	"fmt"

	"declara/internal/domain"
	"declara/internal/port"
)

// PageTextFunc extracts page-ordered text from PDF bytes. The host system
// supplies this capability; it is not reimplemented here.
type PageTextFunc func(ctx context.Context, data []byte) ([]string, error)

// Provider implements port.ContentProvider for the supported file types.
type Provider struct {
	pdfText PageTextFunc
}

// NewProvider creates a Provider. pdfText may be nil when PDF ingestion is
// not configured; PDF extraction then fails with a surfaced error.
func NewProvider(pdfText PageTextFunc) *Provider {
	return &Provider{pdfText: pdfText}
}

// Extract returns normalized content for the file. An error here is a true
// read failure and is distinct from "no fields found" downstream.
func (p *Provider) Extract(ctx context.Context, fileType domain.FileType, data []byte) (*port.RawContent, error) {
	switch fileType {
	case domain.FileTypeXLSX:
		return extractXLSX(data)
	case domain.FileTypeCSV:
		return extractCSV(data)
	case domain.FileTypeTXT:
		return &port.RawContent{Pages: []string{string(data)}}, nil
	case domain.FileTypePDF:
		if p.pdfText == nil {
			return nil, fmt.Errorf("content.Provider: no PDF text capability configured")
		}
		pages, err := p.pdfText(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("content.Provider: pdf text extraction: %w", err)
		}
		return &port.RawContent{Pages: pages}, nil
	default:
		return nil, fmt.Errorf("content.Provider: unsupported file type %q", fileType)
	}
}
