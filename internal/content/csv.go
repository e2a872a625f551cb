package content

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"declara/internal/port"
)

// extractCSV reads comma-separated bytes into a row/cell matrix. Ragged rows
// are tolerated; column counts vary across real export files.
func extractCSV(data []byte) (*port.RawContent, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("content: reading csv: %w", err)
	}
	return &port.RawContent{Rows: rows}, nil
}
