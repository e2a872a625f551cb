package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Label synonyms for anchored header-field lookups. Matching is
// case-insensitive; longer labels are listed first so "INVOICE DATE" is not
// swallowed by "INVOICE".
var (
	invoiceNoLabels = []string{"COMMERCIAL INVOICE NO", "INVOICE NUMBER", "INVOICE NO", "INV NO", "INV."}
	invoiceDtLabels = []string{"INVOICE DATE", "INV DATE", "DATE OF INVOICE"}
	blNoLabels      = []string{"BILL OF LADING NO", "B/L NUMBER", "B/L NO", "BL NUMBER", "BL NO", "OBL NO"}
	blDateLabels    = []string{"B/L DATE", "BL DATE", "DATE OF ISSUE", "ON BOARD DATE", "SHIPPED ON BOARD"}
	awbNoLabels     = []string{"AIR WAYBILL NO", "AIRWAY BILL NO", "AWB NUMBER", "AWB NO", "MAWB NO", "HAWB NO"}
	exporterLabels  = []string{"SHIPPER/EXPORTER", "EXPORTER", "SHIPPER", "SELLER", "CONSIGNOR"}
	importerLabels  = []string{"CONSIGNEE/IMPORTER", "IMPORTER", "CONSIGNEE", "BUYER", "NOTIFY PARTY"}
	vesselLabels    = []string{"VESSEL/VOYAGE", "VESSEL & VOYAGE", "OCEAN VESSEL", "VESSEL NAME", "VESSEL"}
	voyageLabels    = []string{"VOYAGE NO", "VOYAGE", "VOY NO"}
	flightLabels    = []string{"FLIGHT NO", "FLIGHT NUMBER", "FLIGHT/DATE", "FLIGHT"}
	polLabels       = []string{"PORT OF LOADING", "PLACE OF LOADING", "PLACE OF RECEIPT", "LOADING PORT", "POL"}
	podLabels       = []string{"PORT OF DISCHARGE", "PLACE OF DELIVERY", "DISCHARGE PORT", "FINAL DESTINATION", "POD"}
	etaLabels       = []string{"ESTIMATED TIME OF ARRIVAL", "ARRIVAL DATE", "ETA"}
	currencyLabels  = []string{"CURRENCY"}
	totalLabels     = []string{"TOTAL INVOICE VALUE", "TOTAL AMOUNT", "INVOICE TOTAL", "GRAND TOTAL", "TOTAL VALUE"}
	grossWtLabels   = []string{"TOTAL GROSS WEIGHT", "GROSS WEIGHT", "G.W.", "G/W"}
	netWtLabels     = []string{"TOTAL NET WEIGHT", "NET WEIGHT", "N.W.", "N/W"}
	volumeLabels    = []string{"MEASUREMENT", "TOTAL CBM", "VOLUME", "CBM"}
	packagesLabels  = []string{"NO. OF PACKAGES", "TOTAL PACKAGES", "NUMBER OF PACKAGES", "PACKAGES"}
)

var (
	incotermsRe = regexp.MustCompile(`\b(EXW|FCA|FAS|FOB|CFR|CIF|CPT|CIP|DAP|DPU|DDP)\b`)
	currencyRe  = regexp.MustCompile(`\b(USD|EUR|JPY|CNY|KRW|VND|GBP|SGD|THB|AUD)\b`)
	containerRe = regexp.MustCompile(`\b[A-Z]{4}\d{7}\b`)
	numberRe    = regexp.MustCompile(`-?\d[\d,]*\.?\d*`)
)

// findLabeled scans lines for the first occurrence of any label and returns
// the value after it. A label with nothing after its separator takes the
// next non-empty line as its value, which covers the stacked
// "label above value" layout common on B/Ls.
func findLabeled(lines []string, labels []string) string {
	for i, line := range lines {
		upper := strings.ToUpper(line)
		for _, label := range labels {
			idx := strings.Index(upper, label)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(trimSeparators(line[idx+len(label):]))
			if rest != "" {
				return rest
			}
			for j := i + 1; j < len(lines) && j <= i+2; j++ {
				next := strings.TrimSpace(lines[j])
				if next != "" {
					return next
				}
			}
		}
	}
	return ""
}

func trimSeparators(s string) string {
	return strings.TrimLeft(s, " \t:#.-")
}

// parseAmount converts a formatted amount like "1,234.50" or "USD 1,234.50"
// to a float. Returns 0 when no number is present.
func parseAmount(s string) float64 {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.ReplaceAll(m, ",", "")
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount extracts a leading integer from strings like "120 CTNS".
func parseCount(s string) int {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.ReplaceAll(m, ",", "")
	if dot := strings.IndexByte(m, '.'); dot >= 0 {
		m = m[:dot]
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// findContainers collects distinct ISO container numbers across all lines.
func findContainers(lines []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, line := range lines {
		for _, c := range containerRe.FindAllString(strings.ToUpper(line), -1) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// findPattern returns the first regex match across all lines.
func findPattern(lines []string, re *regexp.Regexp) string {
	for _, line := range lines {
		if m := re.FindString(strings.ToUpper(line)); m != "" {
			return m
		}
	}
	return ""
}
