package content_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"declara/internal/content"
	"declara/internal/domain"
)

func xlsxBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestExtractXLSX(t *testing.T) {
	p := content.NewProvider(nil)
	data := xlsxBytes(t, [][]string{
		{"Part No.", "Description", "QTY"},
		{"P-100", "Steel widget", "100"},
	})

	raw, err := p.Extract(context.Background(), domain.FileTypeXLSX, data)

	assert.NoError(t, err)
	assert.Empty(t, raw.Pages)
	assert.Len(t, raw.Rows, 2)
	assert.Equal(t, []string{"Part No.", "Description", "QTY"}, raw.Rows[0])
	assert.Equal(t, []string{"P-100", "Steel widget", "100"}, raw.Rows[1])
}

func TestExtractCSV(t *testing.T) {
	p := content.NewProvider(nil)
	data := []byte("Part No.,Description,QTY\nP-100,Steel widget,100\nP-200,Brass gadget\n")

	raw, err := p.Extract(context.Background(), domain.FileTypeCSV, data)

	assert.NoError(t, err)
	// Ragged rows are kept as-is.
	assert.Len(t, raw.Rows, 3)
	assert.Equal(t, []string{"P-200", "Brass gadget"}, raw.Rows[2])
}

func TestExtractTXT(t *testing.T) {
	p := content.NewProvider(nil)

	raw, err := p.Extract(context.Background(), domain.FileTypeTXT, []byte("INVOICE NO: INV-1"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"INVOICE NO: INV-1"}, raw.Pages)
	assert.False(t, raw.IsEmpty())
}

func TestExtractPDFWithPageTextFunc(t *testing.T) {
	p := content.NewProvider(func(ctx context.Context, data []byte) ([]string, error) {
		return []string{"page one text", "page two text"}, nil
	})

	raw, err := p.Extract(context.Background(), domain.FileTypePDF, []byte("%PDF-1.4"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"page one text", "page two text"}, raw.Pages)
}

func TestExtractPDFWithoutCapability(t *testing.T) {
	p := content.NewProvider(nil)

	_, err := p.Extract(context.Background(), domain.FileTypePDF, []byte("%PDF-1.4"))

	assert.Error(t, err)
}

func TestExtractUnsupportedType(t *testing.T) {
	p := content.NewProvider(nil)

	_, err := p.Extract(context.Background(), domain.FileType("docx"), []byte("x"))

	assert.Error(t, err)
}
