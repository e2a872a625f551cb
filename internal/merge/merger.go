// Package merge reduces a batch of parsed trade documents into one
// reconciled customs-declaration draft.
package merge

import (
	"sort"

	"declara/internal/domain"
)

// typePriority fixes the reduction order so the merged result does not
// depend on upload order: invoice first, then ocean/air transport documents,
// then arrival notice, then packing list, then anything else.
var typePriority = map[domain.DocumentType]int{
	domain.DocTypeInvoice:       0,
	domain.DocTypeBillOfLading:  1,
	domain.DocTypeAirwayBill:    1,
	domain.DocTypeArrivalNotice: 2,
	domain.DocTypePackingList:   3,
}

const otherPriority = 4

func priorityOf(t domain.DocumentType) int {
	if p, ok := typePriority[t]; ok {
		return p
	}
	return otherPriority
}

// Merge reduces parsed documents into one reconciled ParsedDocument. It is a
// pure function: inputs are never mutated and the result is invariant under
// permutation of the input list. Every input item survives, either merged
// into an existing item by product code or appended.
func Merge(docs []domain.ParsedDocument) domain.ParsedDocument {
	ordered := make([]domain.ParsedDocument, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := priorityOf(ordered[i].DocumentType), priorityOf(ordered[j].DocumentType)
		if pi != pj {
			return pi < pj
		}
		// Same type: let the stronger extraction contribute first.
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].SourceFileID.String() < ordered[j].SourceFileID.String()
	})

	var merged domain.ParsedDocument
	merged.DocumentType = domain.DocTypeInvoice
	for i := range ordered {
		applyDocument(&merged, &ordered[i])
		if ordered[i].Confidence > merged.Confidence {
			// Conservative: one weak document cannot dilute a strong one.
			merged.Confidence = ordered[i].Confidence
		}
		merged.Warnings = append(merged.Warnings, ordered[i].Warnings...)
	}
	return merged
}

func applyDocument(merged *domain.ParsedDocument, doc *domain.ParsedDocument) {
	switch doc.DocumentType {
	case domain.DocTypeInvoice:
		applyInvoice(merged, doc)
	case domain.DocTypeBillOfLading, domain.DocTypeAirwayBill:
		applyTransport(merged, doc)
	case domain.DocTypeArrivalNotice:
		applyArrivalNotice(merged, doc)
	case domain.DocTypePackingList:
		applyPackingList(merged, doc)
	default:
		applyOther(merged, doc)
	}
}

// applyInvoice: the invoice owns parties, invoice number/date, currency,
// total value and Incoterms, and is the default item source.
func applyInvoice(merged, doc *domain.ParsedDocument) {
	fillString(&merged.InvoiceNumber, doc.InvoiceNumber)
	fillString(&merged.InvoiceDate, doc.InvoiceDate)
	fillString(&merged.Exporter.Name, doc.Exporter.Name)
	fillString(&merged.Exporter.Address, doc.Exporter.Address)
	fillString(&merged.Importer.Name, doc.Importer.Name)
	fillString(&merged.Importer.Address, doc.Importer.Address)
	fillString(&merged.Currency, doc.Currency)
	fillString(&merged.Incoterms, doc.Incoterms)
	fillFloat(&merged.TotalValue, doc.TotalValue)
	fillString(&merged.PortOfLoading, doc.PortOfLoading)
	fillString(&merged.PortOfDischarge, doc.PortOfDischarge)
	mergeItems(merged, doc.Items)
}

// applyTransport: B/L and AWB own transport data but only fill fields still
// empty; a populated value is never overwritten with a blank one.
func applyTransport(merged, doc *domain.ParsedDocument) {
	fillString(&merged.BLNumber, doc.BLNumber)
	fillString(&merged.BLDate, doc.BLDate)
	fillString(&merged.AWBNumber, doc.AWBNumber)
	fillString(&merged.VesselName, doc.VesselName)
	fillString(&merged.VoyageNumber, doc.VoyageNumber)
	fillString(&merged.FlightNumber, doc.FlightNumber)
	fillString(&merged.PortOfLoading, doc.PortOfLoading)
	fillString(&merged.PortOfDischarge, doc.PortOfDischarge)
	fillString(&merged.Exporter.Name, doc.Exporter.Name)
	fillString(&merged.Importer.Name, doc.Importer.Name)
	fillFloat(&merged.GrossWeight, doc.GrossWeight)
	fillInt(&merged.PackageCount, doc.PackageCount)
	mergeContainers(merged, doc.ContainerNumbers)
}

// applyArrivalNotice supplies ETA and volume/weight only if still unset.
func applyArrivalNotice(merged, doc *domain.ParsedDocument) {
	fillString(&merged.ETA, doc.ETA)
	fillString(&merged.BLNumber, doc.BLNumber)
	fillString(&merged.VesselName, doc.VesselName)
	fillString(&merged.PortOfDischarge, doc.PortOfDischarge)
	fillFloat(&merged.Volume, doc.Volume)
	fillFloat(&merged.GrossWeight, doc.GrossWeight)
	mergeContainers(merged, doc.ContainerNumbers)
}

// applyPackingList enriches item-level detail; when no items exist yet it
// seeds the item list.
func applyPackingList(merged, doc *domain.ParsedDocument) {
	fillFloat(&merged.GrossWeight, doc.GrossWeight)
	fillFloat(&merged.NetWeight, doc.NetWeight)
	fillInt(&merged.PackageCount, doc.PackageCount)
	mergeItems(merged, doc.Items)
}

// applyOther back-fills a conservative allow-list of scalar fields and never
// touches items.
func applyOther(merged, doc *domain.ParsedDocument) {
	fillString(&merged.Exporter.Name, doc.Exporter.Name)
	fillString(&merged.Importer.Name, doc.Importer.Name)
	fillString(&merged.BLNumber, doc.BLNumber)
	fillString(&merged.VesselName, doc.VesselName)
	fillString(&merged.PortOfLoading, doc.PortOfLoading)
	fillString(&merged.PortOfDischarge, doc.PortOfDischarge)
	fillString(&merged.InvoiceNumber, doc.InvoiceNumber)
}

// mergeItems matches incoming items by exact product code. A match enriches
// missing fields only; an unmatched item is appended with the next item
// number. No input item is ever dropped.
func mergeItems(merged *domain.ParsedDocument, items []domain.ParsedItem) {
	for _, incoming := range items {
		target := merged.ItemByProductCode(incoming.ProductCode)
		if target == nil {
			incoming.ItemNo = len(merged.Items) + 1
			merged.Items = append(merged.Items, incoming)
			continue
		}
		fillString(&target.SupplierCode, incoming.SupplierCode)
		fillString(&target.ProductName, incoming.ProductName)
		fillString(&target.HSCode, incoming.HSCode)
		fillString(&target.Unit, incoming.Unit)
		fillString(&target.CountryOfOrigin, incoming.CountryOfOrigin)
		fillFloat(&target.Quantity, incoming.Quantity)
		fillFloat(&target.UnitPrice, incoming.UnitPrice)
		fillFloat(&target.TotalValue, incoming.TotalValue)
		fillFloat(&target.GrossWeight, incoming.GrossWeight)
		fillFloat(&target.NetWeight, incoming.NetWeight)
	}
}

func mergeContainers(merged *domain.ParsedDocument, containers []string) {
	for _, c := range containers {
		exists := false
		for _, existing := range merged.ContainerNumbers {
			if existing == c {
				exists = true
				break
			}
		}
		if !exists {
			merged.ContainerNumbers = append(merged.ContainerNumbers, c)
		}
	}
}

func fillString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func fillFloat(dst *float64, v float64) {
	if *dst == 0 && v != 0 {
		*dst = v
	}
}

func fillInt(dst *int, v int) {
	if *dst == 0 && v != 0 {
		*dst = v
	}
}
