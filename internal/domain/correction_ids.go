package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CorrectionIDs is a JSONB-backed set of correction IDs already consumed by
// a customer rule.
type CorrectionIDs []uuid.UUID

// Contains reports whether id is already in the set.
func (c CorrectionIDs) Contains(id uuid.UUID) bool {
	for _, existing := range c {
		if existing == id {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (c CorrectionIDs) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *CorrectionIDs) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("CorrectionIDs.Scan: unsupported type %T", src)
	}
}
