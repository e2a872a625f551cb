package partner

import "strings"

// canonicalTokens folds common corporate-suffix spellings so fuzzy
// comparison is not dominated by "CO., LTD" vs "COMPANY LIMITED" noise.
var canonicalTokens = map[string]string{
	"COMPANY":       "CO",
	"LIMITED":       "LTD",
	"INCORPORATED":  "INC",
	"CORPORATION":   "CORP",
	"PRIVATE":       "PVT",
	"MANUFACTURING": "MFG",
	"INTERNATIONAL": "INTL",
	"INDUSTRIES":    "IND",
	"INDUSTRY":      "IND",
	"JOINT":         "JT",
	"STOCK":         "STK",
}

var punctFolder = strings.NewReplacer(
	".", " ", ",", " ", ";", " ", ":", " ", "&", " AND ",
	"(", " ", ")", " ", "/", " ", "-", " ", "'", "", "\"", "",
)

// Normalize folds case, punctuation and whitespace. It is the key used for
// exact matching and alias lookups.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = punctFolder.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// canonicalize additionally rewrites corporate-suffix tokens to short forms;
// used only for fuzzy scoring, never for storage.
func canonicalize(s string) string {
	tokens := strings.Fields(Normalize(s))
	for i, t := range tokens {
		if short, ok := canonicalTokens[t]; ok {
			tokens[i] = short
		}
	}
	return strings.Join(tokens, " ")
}
