package extract

import (
	"strings"

	"declara/internal/domain"
)

// itemColumn identifies a ParsedItem field fed by a spreadsheet column.
type itemColumn int

const (
	colNone itemColumn = iota
	colProductCode
	colSupplierCode
	colProductName
	colHSCode
	colQuantity
	colUnit
	colUnitPrice
	colTotalValue
	colGrossWeight
	colNetWeight
	colOrigin
)

// columnSynonyms maps normalized column-header text to item fields. Keys are
// upper-cased with punctuation collapsed by normalizeHeader.
var columnSynonyms = map[string]itemColumn{
	"P N":                  colProductCode,
	"PART NO":              colProductCode,
	"PART NUMBER":          colProductCode,
	"ITEM CODE":            colProductCode,
	"PRODUCT CODE":         colProductCode,
	"MODEL":                colProductCode,
	"MODEL NO":             colProductCode,
	"SUPPLIER CODE":        colSupplierCode,
	"VENDOR CODE":          colSupplierCode,
	"S C":                  colSupplierCode,
	"DESCRIPTION":          colProductName,
	"DESCRIPTION OF GOODS": colProductName,
	"COMMODITY":            colProductName,
	"PRODUCT NAME":         colProductName,
	"GOODS":                colProductName,
	"ITEM NAME":            colProductName,
	"HS CODE":              colHSCode,
	"HSCODE":               colHSCode,
	"H S CODE":             colHSCode,
	"QTY":                  colQuantity,
	"Q TY":                 colQuantity,
	"QUANTITY":             colQuantity,
	"UNIT":                 colUnit,
	"UOM":                  colUnit,
	"UNIT PRICE":           colUnitPrice,
	"U PRICE":              colUnitPrice,
	"PRICE":                colUnitPrice,
	"AMOUNT":               colTotalValue,
	"TOTAL AMOUNT":         colTotalValue,
	"TOTAL":                colTotalValue,
	"VALUE":                colTotalValue,
	"GROSS WEIGHT":         colGrossWeight,
	"G W":                  colGrossWeight,
	"G W KG":               colGrossWeight,
	"NET WEIGHT":           colNetWeight,
	"N W":                  colNetWeight,
	"N W KG":               colNetWeight,
	"ORIGIN":               colOrigin,
	"COUNTRY OF ORIGIN":    colOrigin,
	"C O":                  colOrigin,
	"MADE IN":              colOrigin,
}

var headerNormalizer = strings.NewReplacer("/", " ", ".", " ", "(", " ", ")", " ", "'", " ", "-", " ", "_", " ")

func normalizeHeader(cell string) string {
	s := strings.ToUpper(strings.TrimSpace(cell))
	s = headerNormalizer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// locateHeaderRow scans the leading rows for the one that looks most like an
// item-table header. A row qualifies when at least two cells map to known
// item columns.
func locateHeaderRow(rows [][]string) (int, map[int]itemColumn) {
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	bestIdx, bestHits := -1, 0
	var bestMapping map[int]itemColumn
	for i := 0; i < limit; i++ {
		mapping := map[int]itemColumn{}
		hits := 0
		for col, cell := range rows[i] {
			if c, ok := columnSynonyms[normalizeHeader(cell)]; ok {
				if _, taken := mapping[col]; !taken {
					mapping[col] = c
					hits++
				}
			}
		}
		if hits > bestHits {
			bestIdx, bestHits, bestMapping = i, hits, mapping
		}
	}
	if bestHits < 2 {
		return -1, nil
	}
	return bestIdx, bestMapping
}

// extractItems parses the item table out of a row/cell matrix. Rows below
// the header that yield neither a product code nor a product name are
// skipped (totals rows, blank separators).
func extractItems(rows [][]string) []domain.ParsedItem {
	headerIdx, mapping := locateHeaderRow(rows)
	if headerIdx < 0 {
		return nil
	}

	var items []domain.ParsedItem
	for _, row := range rows[headerIdx+1:] {
		item := domain.ParsedItem{}
		for col, cell := range row {
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			switch mapping[col] {
			case colProductCode:
				item.ProductCode = value
			case colSupplierCode:
				item.SupplierCode = value
			case colProductName:
				item.ProductName = value
			case colHSCode:
				item.HSCode = strings.ReplaceAll(value, ".", "")
			case colQuantity:
				item.Quantity = parseAmount(value)
			case colUnit:
				item.Unit = value
			case colUnitPrice:
				item.UnitPrice = parseAmount(value)
			case colTotalValue:
				item.TotalValue = parseAmount(value)
			case colGrossWeight:
				item.GrossWeight = parseAmount(value)
			case colNetWeight:
				item.NetWeight = parseAmount(value)
			case colOrigin:
				item.CountryOfOrigin = value
			}
		}
		if item.ProductCode == "" && item.ProductName == "" {
			continue
		}
		item.ItemNo = len(items) + 1
		items = append(items, item)
	}
	return items
}
