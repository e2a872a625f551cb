package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/port"
	"declara/internal/rules"
)

// Input carries one document's raw content into extraction.
type Input struct {
	FileID   uuid.UUID
	TypeHint domain.DocumentType
	Content  *port.RawContent
	// Customer rule snapshot; learned overrides win over generic heuristics.
	Rules *rules.RuleSet
}

// Extractor converts raw per-document content into a typed ParsedDocument
// using per-type label anchors and column-header synonym mapping. It is
// stateless and safe for concurrent use.
type Extractor struct {
	hs *HSLookup
}

// NewExtractor creates an Extractor. The HS lookup is optional; without it
// extracted HS codes are not sanity-checked.
func NewExtractor(hs *HSLookup) *Extractor {
	return &Extractor{hs: hs}
}

// Parse extracts a ParsedDocument from raw content. It never fails: corrupt
// or anchor-less input degrades to a zero-confidence document with warnings
// attached for human triage.
func (e *Extractor) Parse(ctx context.Context, input Input) *domain.ParsedDocument {
	doc := &domain.ParsedDocument{
		DocumentType: input.TypeHint,
		SourceFileID: input.FileID,
	}
	if doc.DocumentType == "" {
		doc.DocumentType = domain.DocTypeOther
	}
	ruleSet := input.Rules
	if ruleSet == nil {
		ruleSet = rules.EmptySet()
	}

	if input.Content == nil || input.Content.IsEmpty() {
		doc.Warnings = append(doc.Warnings, "document content is empty or unreadable")
		return doc
	}
	if err := ctx.Err(); err != nil {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("extraction aborted: %v", err))
		return doc
	}

	lines := flatten(input.Content)
	if input.TypeHint == "" || input.TypeHint == domain.DocTypeOther {
		doc.DocumentType = detectType(lines)
	}

	switch doc.DocumentType {
	case domain.DocTypeInvoice:
		e.extractInvoice(doc, lines, input.Content.Rows)
	case domain.DocTypeBillOfLading, domain.DocTypeAirwayBill:
		e.extractTransport(doc, lines)
	case domain.DocTypeArrivalNotice:
		e.extractArrival(doc, lines)
	case domain.DocTypePackingList:
		e.extractPackingList(doc, lines, input.Content.Rows)
	default:
		e.extractGeneric(doc, lines)
	}

	if err := ctx.Err(); err != nil {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("extraction aborted: %v", err))
		return doc
	}

	applied := applyOverrides(doc, ruleSet)
	if applied > 0 {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("%d customer rule override(s) applied", applied))
	}

	e.checkHSCodes(doc)
	scoreConfidence(doc)
	return doc
}

// flatten joins page text and spreadsheet rows into one line list so label
// anchors work on both input shapes.
func flatten(content *port.RawContent) []string {
	var lines []string
	for _, page := range content.Pages {
		for _, line := range strings.Split(page, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				lines = append(lines, s)
			}
		}
	}
	for _, row := range content.Rows {
		joined := strings.TrimSpace(strings.Join(row, "  "))
		if joined != "" {
			lines = append(lines, joined)
		}
	}
	return lines
}

// detectType guesses the document type from keywords when no hint is given.
func detectType(lines []string) domain.DocumentType {
	text := strings.ToUpper(strings.Join(lines, "\n"))
	switch {
	case strings.Contains(text, "PACKING LIST"):
		return domain.DocTypePackingList
	case strings.Contains(text, "BILL OF LADING"):
		return domain.DocTypeBillOfLading
	case strings.Contains(text, "AIR WAYBILL") || strings.Contains(text, "AIRWAY BILL"):
		return domain.DocTypeAirwayBill
	case strings.Contains(text, "ARRIVAL NOTICE"):
		return domain.DocTypeArrivalNotice
	case strings.Contains(text, "INVOICE"):
		return domain.DocTypeInvoice
	default:
		return domain.DocTypeOther
	}
}

func (e *Extractor) extractInvoice(doc *domain.ParsedDocument, lines []string, rows [][]string) {
	doc.InvoiceNumber = findLabeled(lines, invoiceNoLabels)
	doc.InvoiceDate = findLabeled(lines, invoiceDtLabels)
	doc.Exporter.Name = findLabeled(lines, exporterLabels)
	doc.Importer.Name = findLabeled(lines, importerLabels)
	doc.Incoterms = findPattern(lines, incotermsRe)
	doc.Currency = findLabeled(lines, currencyLabels)
	if doc.Currency == "" {
		doc.Currency = findPattern(lines, currencyRe)
	}
	doc.TotalValue = parseAmount(findLabeled(lines, totalLabels))
	doc.PortOfLoading = findLabeled(lines, polLabels)
	doc.PortOfDischarge = findLabeled(lines, podLabels)
	doc.Items = extractItems(rows)
}

func (e *Extractor) extractTransport(doc *domain.ParsedDocument, lines []string) {
	if doc.DocumentType == domain.DocTypeAirwayBill {
		doc.AWBNumber = findLabeled(lines, awbNoLabels)
		doc.FlightNumber = findLabeled(lines, flightLabels)
	} else {
		doc.BLNumber = findLabeled(lines, blNoLabels)
		doc.BLDate = findLabeled(lines, blDateLabels)
		doc.VesselName = findLabeled(lines, vesselLabels)
		doc.VoyageNumber = findLabeled(lines, voyageLabels)
	}
	doc.Exporter.Name = findLabeled(lines, exporterLabels)
	doc.Importer.Name = findLabeled(lines, importerLabels)
	doc.PortOfLoading = findLabeled(lines, polLabels)
	doc.PortOfDischarge = findLabeled(lines, podLabels)
	doc.GrossWeight = parseAmount(findLabeled(lines, grossWtLabels))
	doc.PackageCount = parseCount(findLabeled(lines, packagesLabels))
	doc.ContainerNumbers = findContainers(lines)
}

func (e *Extractor) extractArrival(doc *domain.ParsedDocument, lines []string) {
	doc.BLNumber = findLabeled(lines, blNoLabels)
	doc.ETA = findLabeled(lines, etaLabels)
	doc.VesselName = findLabeled(lines, vesselLabels)
	doc.PortOfDischarge = findLabeled(lines, podLabels)
	doc.GrossWeight = parseAmount(findLabeled(lines, grossWtLabels))
	doc.Volume = parseAmount(findLabeled(lines, volumeLabels))
	doc.ContainerNumbers = findContainers(lines)
}

func (e *Extractor) extractPackingList(doc *domain.ParsedDocument, lines []string, rows [][]string) {
	doc.InvoiceNumber = findLabeled(lines, invoiceNoLabels)
	doc.GrossWeight = parseAmount(findLabeled(lines, grossWtLabels))
	doc.NetWeight = parseAmount(findLabeled(lines, netWtLabels))
	doc.PackageCount = parseCount(findLabeled(lines, packagesLabels))
	doc.Items = extractItems(rows)
}

func (e *Extractor) extractGeneric(doc *domain.ParsedDocument, lines []string) {
	doc.InvoiceNumber = findLabeled(lines, invoiceNoLabels)
	doc.BLNumber = findLabeled(lines, blNoLabels)
	doc.Exporter.Name = findLabeled(lines, exporterLabels)
	doc.Importer.Name = findLabeled(lines, importerLabels)
	doc.VesselName = findLabeled(lines, vesselLabels)
	doc.PortOfLoading = findLabeled(lines, polLabels)
	doc.PortOfDischarge = findLabeled(lines, podLabels)
}

// applyOverrides runs the customer rule snapshot over the string header
// fields and returns how many overrides fired.
func applyOverrides(doc *domain.ParsedDocument, rs *rules.RuleSet) int {
	targets := []struct {
		category domain.FieldCategory
		name     string
		value    *string
	}{
		{domain.CategoryHeader, domain.FieldInvoiceNumber, &doc.InvoiceNumber},
		{domain.CategoryHeader, domain.FieldInvoiceDate, &doc.InvoiceDate},
		{domain.CategoryHeader, domain.FieldBLNumber, &doc.BLNumber},
		{domain.CategoryHeader, domain.FieldBLDate, &doc.BLDate},
		{domain.CategoryHeader, domain.FieldAWBNumber, &doc.AWBNumber},
		{domain.CategoryParty, domain.FieldExporterName, &doc.Exporter.Name},
		{domain.CategoryParty, domain.FieldExporterAddress, &doc.Exporter.Address},
		{domain.CategoryParty, domain.FieldImporterName, &doc.Importer.Name},
		{domain.CategoryParty, domain.FieldImporterAddress, &doc.Importer.Address},
		{domain.CategoryTransport, domain.FieldVesselName, &doc.VesselName},
		{domain.CategoryTransport, domain.FieldVoyageNumber, &doc.VoyageNumber},
		{domain.CategoryTransport, domain.FieldFlightNumber, &doc.FlightNumber},
		{domain.CategoryTransport, domain.FieldPortOfLoading, &doc.PortOfLoading},
		{domain.CategoryTransport, domain.FieldPortOfDischarge, &doc.PortOfDischarge},
		{domain.CategoryTransport, domain.FieldETA, &doc.ETA},
		{domain.CategoryValue, domain.FieldIncoterms, &doc.Incoterms},
		{domain.CategoryValue, domain.FieldCurrency, &doc.Currency},
	}

	applied := 0
	for _, t := range targets {
		if v, ok := rs.Override(t.category, t.name, *t.value); ok {
			*t.value = v
			applied++
		}
	}
	return applied
}

// checkHSCodes flags extracted HS codes missing from the customs catalog.
func (e *Extractor) checkHSCodes(doc *domain.ParsedDocument) {
	if e.hs == nil {
		return
	}
	for i := range doc.Items {
		code := doc.Items[i].HSCode
		if code != "" && !e.hs.Exists(code) {
			doc.Warnings = append(doc.Warnings,
				fmt.Sprintf("item %d: hs code %q not found in customs catalog", doc.Items[i].ItemNo, code))
		}
	}
}

// requiredChecks lists per-type required fields as (name, populated) pairs.
func requiredChecks(doc *domain.ParsedDocument) []struct {
	name string
	ok   bool
} {
	type check = struct {
		name string
		ok   bool
	}
	switch doc.DocumentType {
	case domain.DocTypeInvoice:
		return []check{
			{domain.FieldInvoiceNumber, doc.InvoiceNumber != ""},
			{domain.FieldInvoiceDate, doc.InvoiceDate != ""},
			{domain.FieldExporterName, doc.Exporter.Name != ""},
			{domain.FieldImporterName, doc.Importer.Name != ""},
			{domain.FieldCurrency, doc.Currency != ""},
			{domain.FieldTotalValue, doc.TotalValue != 0},
			{"items", len(doc.Items) > 0},
		}
	case domain.DocTypeBillOfLading:
		return []check{
			{domain.FieldBLNumber, doc.BLNumber != ""},
			{domain.FieldVesselName, doc.VesselName != ""},
			{domain.FieldPortOfLoading, doc.PortOfLoading != ""},
			{domain.FieldPortOfDischarge, doc.PortOfDischarge != ""},
			{domain.FieldGrossWeight, doc.GrossWeight != 0},
		}
	case domain.DocTypeAirwayBill:
		return []check{
			{domain.FieldAWBNumber, doc.AWBNumber != ""},
			{domain.FieldFlightNumber, doc.FlightNumber != ""},
			{domain.FieldPortOfLoading, doc.PortOfLoading != ""},
			{domain.FieldPortOfDischarge, doc.PortOfDischarge != ""},
			{domain.FieldGrossWeight, doc.GrossWeight != 0},
		}
	case domain.DocTypeArrivalNotice:
		return []check{
			{domain.FieldBLNumber, doc.BLNumber != ""},
			{domain.FieldETA, doc.ETA != ""},
		}
	case domain.DocTypePackingList:
		return []check{
			{"items", len(doc.Items) > 0},
			{domain.FieldGrossWeight, doc.GrossWeight != 0},
			{domain.FieldPackageCount, doc.PackageCount != 0},
		}
	default:
		return []check{
			{domain.FieldInvoiceNumber, doc.InvoiceNumber != ""},
			{domain.FieldBLNumber, doc.BLNumber != ""},
			{domain.FieldExporterName, doc.Exporter.Name != ""},
			{domain.FieldVesselName, doc.VesselName != ""},
		}
	}
}

// scoreConfidence sets doc confidence to the fraction of the type's
// required-field checklist that was populated, warning per missing field.
func scoreConfidence(doc *domain.ParsedDocument) {
	checks := requiredChecks(doc)
	populated := 0
	for _, c := range checks {
		if c.ok {
			populated++
		} else {
			doc.Warnings = append(doc.Warnings, "missing required field: "+c.name)
		}
	}
	if populated == 0 {
		doc.Confidence = 0
		doc.Warnings = append(doc.Warnings, "no recognizable field anchors found")
		return
	}
	doc.Confidence = float64(populated) / float64(len(checks))
}
