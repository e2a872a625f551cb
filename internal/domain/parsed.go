package domain

import "github.com/google/uuid"

// TradeParty is a party as it appears on a document, before master-data
// resolution.
type TradeParty struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ParsedItem is a single line item extracted from a document.
type ParsedItem struct {
	ItemNo          int     `json:"item_no"`
	ProductCode     string  `json:"product_code"`
	SupplierCode    string  `json:"supplier_code"`
	ProductName     string  `json:"product_name"`
	HSCode          string  `json:"hs_code"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	UnitPrice       float64 `json:"unit_price"`
	TotalValue      float64 `json:"total_value"`
	GrossWeight     float64 `json:"gross_weight"`
	NetWeight       float64 `json:"net_weight"`
	CountryOfOrigin string  `json:"country_of_origin"`
}

// ParsedDocument is the structured field/item set extracted from one physical
// document. It is produced fresh per parse attempt and never mutated in
// place; merge and correction flows build new values instead.
type ParsedDocument struct {
	DocumentType DocumentType `json:"document_type"`
	SourceFileID uuid.UUID    `json:"source_file_id"`
	Confidence   float64      `json:"confidence"`
	Warnings     []string     `json:"warnings"`

	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	BLNumber      string `json:"bl_number"`
	BLDate        string `json:"bl_date"`
	AWBNumber     string `json:"awb_number"`

	Exporter TradeParty `json:"exporter"`
	Importer TradeParty `json:"importer"`

	VesselName      string `json:"vessel_name"`
	VoyageNumber    string `json:"voyage_number"`
	FlightNumber    string `json:"flight_number"`
	PortOfLoading   string `json:"port_of_loading"`
	PortOfDischarge string `json:"port_of_discharge"`
	ETA             string `json:"eta"`

	Incoterms    string  `json:"incoterms"`
	Currency     string  `json:"currency"`
	TotalValue   float64 `json:"total_value"`
	GrossWeight  float64 `json:"gross_weight"`
	NetWeight    float64 `json:"net_weight"`
	Volume       float64 `json:"volume"`
	PackageCount int     `json:"package_count"`

	ContainerNumbers []string `json:"container_numbers"`

	Items []ParsedItem `json:"items"`

	// Populated by the intake pipeline after partner resolution.
	ExporterMatch *PartnerMatch `json:"exporter_match,omitempty"`
	ImporterMatch *PartnerMatch `json:"importer_match,omitempty"`
}

// ItemByProductCode returns a pointer to the item with the given product
// code, or nil.
func (d *ParsedDocument) ItemByProductCode(code string) *ParsedItem {
	if code == "" {
		return nil
	}
	for i := range d.Items {
		if d.Items[i].ProductCode == code {
			return &d.Items[i]
		}
	}
	return nil
}
