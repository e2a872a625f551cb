package extract

import "declara/internal/domain"

// HSLookup provides in-memory existence checks against the customs HS
// catalog. It is immutable after construction and safe for concurrent use.
type HSLookup struct {
	byCode map[string]domain.HSCode
}

// NewHSLookup builds an HSLookup from catalog entries loaded from the database.
func NewHSLookup(entries []domain.HSCode) *HSLookup {
	m := make(map[string]domain.HSCode, len(entries))
	for _, e := range entries {
		m[e.Code] = e
	}
	return &HSLookup{byCode: m}
}

// Exists reports whether the HS code (or a prefix of it) is in the catalog.
// It checks exact match first, then falls back from 8 to 6 to 4 digit prefixes.
func (h *HSLookup) Exists(code string) bool {
	if len(h.byCode) == 0 || code == "" {
		return false
	}
	if _, ok := h.byCode[code]; ok {
		return true
	}
	for _, prefixLen := range []int{8, 6, 4} {
		if len(code) > prefixLen {
			if _, ok := h.byCode[code[:prefixLen]]; ok {
				return true
			}
		}
	}
	return false
}

// Describe returns the catalog entry for a code when present.
func (h *HSLookup) Describe(code string) (domain.HSCode, bool) {
	e, ok := h.byCode[code]
	return e, ok
}
