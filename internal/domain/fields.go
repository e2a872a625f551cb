package domain

import (
	"fmt"
	"strconv"
)

// Canonical field names shared by the extractor, the output snapshot, and
// learned rules. Corrections and rules reference fields by these names.
const (
	FieldInvoiceNumber   = "invoice_number"
	FieldInvoiceDate     = "invoice_date"
	FieldBLNumber        = "bl_number"
	FieldBLDate          = "bl_date"
	FieldAWBNumber       = "awb_number"
	FieldExporterName    = "exporter_name"
	FieldExporterAddress = "exporter_address"
	FieldImporterName    = "importer_name"
	FieldImporterAddress = "importer_address"
	FieldVesselName      = "vessel_name"
	FieldVoyageNumber    = "voyage_number"
	FieldFlightNumber    = "flight_number"
	FieldPortOfLoading   = "port_of_loading"
	FieldPortOfDischarge = "port_of_discharge"
	FieldETA             = "eta"
	FieldIncoterms       = "incoterms"
	FieldCurrency        = "currency"
	FieldTotalValue      = "total_value"
	FieldGrossWeight     = "gross_weight"
	FieldNetWeight       = "net_weight"
	FieldVolume          = "volume"
	FieldPackageCount    = "package_count"
	FieldContainers      = "container_numbers"
)

// FieldValue is one entry of a document's field-tagged snapshot.
type FieldValue struct {
	Category FieldCategory
	Name     string
	Value    string
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FieldSnapshot flattens the document into tagged field values, the shape
// persisted as ParsingOutput rows. Empty fields are included so corrections
// of type MISSING_FIELD have an output row to reference.
func (d *ParsedDocument) FieldSnapshot() []FieldValue {
	containers := ""
	for i, c := range d.ContainerNumbers {
		if i > 0 {
			containers += ","
		}
		containers += c
	}
	packages := ""
	if d.PackageCount != 0 {
		packages = strconv.Itoa(d.PackageCount)
	}

	fields := []FieldValue{
		{CategoryHeader, FieldInvoiceNumber, d.InvoiceNumber},
		{CategoryHeader, FieldInvoiceDate, d.InvoiceDate},
		{CategoryHeader, FieldBLNumber, d.BLNumber},
		{CategoryHeader, FieldBLDate, d.BLDate},
		{CategoryHeader, FieldAWBNumber, d.AWBNumber},
		{CategoryParty, FieldExporterName, d.Exporter.Name},
		{CategoryParty, FieldExporterAddress, d.Exporter.Address},
		{CategoryParty, FieldImporterName, d.Importer.Name},
		{CategoryParty, FieldImporterAddress, d.Importer.Address},
		{CategoryTransport, FieldVesselName, d.VesselName},
		{CategoryTransport, FieldVoyageNumber, d.VoyageNumber},
		{CategoryTransport, FieldFlightNumber, d.FlightNumber},
		{CategoryTransport, FieldPortOfLoading, d.PortOfLoading},
		{CategoryTransport, FieldPortOfDischarge, d.PortOfDischarge},
		{CategoryTransport, FieldETA, d.ETA},
		{CategoryTransport, FieldContainers, containers},
		{CategoryValue, FieldIncoterms, d.Incoterms},
		{CategoryValue, FieldCurrency, d.Currency},
		{CategoryValue, FieldTotalValue, formatAmount(d.TotalValue)},
		{CategoryValue, FieldGrossWeight, formatAmount(d.GrossWeight)},
		{CategoryValue, FieldNetWeight, formatAmount(d.NetWeight)},
		{CategoryValue, FieldVolume, formatAmount(d.Volume)},
		{CategoryValue, FieldPackageCount, packages},
	}

	for i := range d.Items {
		item := &d.Items[i]
		prefix := fmt.Sprintf("item.%d.", item.ItemNo)
		fields = append(fields,
			FieldValue{CategoryItem, prefix + "product_code", item.ProductCode},
			FieldValue{CategoryItem, prefix + "supplier_code", item.SupplierCode},
			FieldValue{CategoryItem, prefix + "product_name", item.ProductName},
			FieldValue{CategoryItem, prefix + "hs_code", item.HSCode},
			FieldValue{CategoryItem, prefix + "quantity", formatAmount(item.Quantity)},
			FieldValue{CategoryItem, prefix + "unit", item.Unit},
			FieldValue{CategoryItem, prefix + "unit_price", formatAmount(item.UnitPrice)},
			FieldValue{CategoryItem, prefix + "total_value", formatAmount(item.TotalValue)},
			FieldValue{CategoryItem, prefix + "country_of_origin", item.CountryOfOrigin},
		)
	}
	return fields
}
