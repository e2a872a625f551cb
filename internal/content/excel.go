package content

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"declara/internal/port"
)

// extractXLSX reads the first sheet of a workbook into a row/cell matrix.
func extractXLSX(data []byte) (*port.RawContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("content: opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("content: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("content: reading sheet %q: %w", sheets[0], err)
	}
	return &port.RawContent{Rows: rows}, nil
}
