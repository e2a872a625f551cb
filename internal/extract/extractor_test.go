package extract_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"declara/internal/domain"
	"declara/internal/extract"
	"declara/internal/port"
	"declara/internal/rules"
	"declara/mocks"
)

var testFileID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")

func parse(t *testing.T, input extract.Input) *domain.ParsedDocument {
	t.Helper()
	e := extract.NewExtractor(nil)
	return e.Parse(context.Background(), input)
}

func ruleSet(t *testing.T, ruleList []domain.CustomerRule) *rules.RuleSet {
	t.Helper()
	repo := new(mocks.MockCustomerRuleRepo)
	repo.On("ListActive", mock.Anything, mock.Anything, "sig-1").Return(ruleList, nil)
	rs, err := rules.NewApplier(repo).Snapshot(context.Background(), uuid.New(), "sig-1")
	assert.NoError(t, err)
	return rs
}

func TestParseEmptyContent(t *testing.T) {
	doc := parse(t, extract.Input{
		FileID:  testFileID,
		Content: &port.RawContent{},
	})

	assert.Equal(t, domain.DocTypeOther, doc.DocumentType)
	assert.Zero(t, doc.Confidence)
	assert.Contains(t, doc.Warnings, "document content is empty or unreadable")
}

func TestParseAnchorlessContent(t *testing.T) {
	doc := parse(t, extract.Input{
		FileID:  testFileID,
		Content: &port.RawContent{Pages: []string{"lorem ipsum dolor\nsit amet"}},
	})

	assert.Zero(t, doc.Confidence)
	assert.Contains(t, doc.Warnings, "no recognizable field anchors found")
}

func TestParseInvoiceLabeledFields(t *testing.T) {
	doc := parse(t, extract.Input{
		FileID:   testFileID,
		TypeHint: domain.DocTypeInvoice,
		Content: &port.RawContent{Pages: []string{
			"COMMERCIAL INVOICE\n" +
				"INVOICE NO: INV-2026-001\n" +
				"INVOICE DATE: 2026-01-15\n" +
				"SHIPPER/EXPORTER: ACME CO., LTD\n" +
				"CONSIGNEE: GLOBEX GMBH\n" +
				"PRICE TERM: FOB SHANGHAI\n" +
				"CURRENCY: USD\n" +
				"TOTAL AMOUNT: 15,750.50",
		}},
	})

	assert.Equal(t, domain.DocTypeInvoice, doc.DocumentType)
	assert.Equal(t, "INV-2026-001", doc.InvoiceNumber)
	assert.Equal(t, "2026-01-15", doc.InvoiceDate)
	assert.Equal(t, "ACME CO., LTD", doc.Exporter.Name)
	assert.Equal(t, "GLOBEX GMBH", doc.Importer.Name)
	assert.Equal(t, "FOB", doc.Incoterms)
	assert.Equal(t, "USD", doc.Currency)
	assert.Equal(t, 15750.50, doc.TotalValue)
	assert.Equal(t, testFileID, doc.SourceFileID)
	// Items are missing; confidence reflects the gap.
	assert.InDelta(t, 6.0/7.0, doc.Confidence, 1e-9)
	assert.Contains(t, doc.Warnings, "missing required field: items")
}

func TestParseStackedLabelValueLayout(t *testing.T) {
	doc := parse(t, extract.Input{
		FileID:   testFileID,
		TypeHint: domain.DocTypeBillOfLading,
		Content: &port.RawContent{Pages: []string{
			"BILL OF LADING\n" +
				"B/L NO.\n" +
				"BL-20260042\n" +
				"OCEAN VESSEL\n" +
				"EVER GIVEN\n" +
				"PORT OF LOADING: SHANGHAI\n" +
				"PORT OF DISCHARGE: HAMBURG\n" +
				"GROSS WEIGHT: 1,200.00 KGS\n" +
				"CONTAINER: MSKU1234567 / TGHU7654321 / MSKU1234567",
		}},
	})

	assert.Equal(t, "BL-20260042", doc.BLNumber)
	assert.Equal(t, "EVER GIVEN", doc.VesselName)
	assert.Equal(t, "SHANGHAI", doc.PortOfLoading)
	assert.Equal(t, "HAMBURG", doc.PortOfDischarge)
	assert.Equal(t, 1200.0, doc.GrossWeight)
	assert.Equal(t, []string{"MSKU1234567", "TGHU7654321"}, doc.ContainerNumbers)
	assert.Equal(t, 1.0, doc.Confidence)
}

func TestParseDetectsTypeFromKeywords(t *testing.T) {
	cases := []struct {
		text string
		want domain.DocumentType
	}{
		{"PACKING LIST\nsome content", domain.DocTypePackingList},
		{"BILL OF LADING\nsome content", domain.DocTypeBillOfLading},
		{"AIR WAYBILL\nsome content", domain.DocTypeAirwayBill},
		{"ARRIVAL NOTICE\nsome content", domain.DocTypeArrivalNotice},
		{"COMMERCIAL INVOICE\nsome content", domain.DocTypeInvoice},
		{"random text", domain.DocTypeOther},
	}
	for _, tc := range cases {
		doc := parse(t, extract.Input{
			FileID:  testFileID,
			Content: &port.RawContent{Pages: []string{tc.text}},
		})
		assert.Equal(t, tc.want, doc.DocumentType, tc.text)
	}
}

func TestParseItemsFromColumnSynonyms(t *testing.T) {
	doc := parse(t, extract.Input{
		FileID:   testFileID,
		TypeHint: domain.DocTypeInvoice,
		Content: &port.RawContent{
			Rows: [][]string{
				{"INVOICE NO", "INV-77"},
				{"Part No.", "Description of Goods", "HS Code", "Q'ty", "Unit Price", "Amount", "Country of Origin"},
				{"P-100", "Steel widget", "7326.90", "100", "10.50", "1,050.00", "CN"},
				{"P-200", "Brass gadget", "7419.80", "50", "20.00", "1,000.00", "VN"},
				{"", "", "", "", "TOTAL", "2,050.00", ""},
			},
		},
	})

	assert.Len(t, doc.Items, 2)
	first := doc.Items[0]
	assert.Equal(t, 1, first.ItemNo)
	assert.Equal(t, "P-100", first.ProductCode)
	assert.Equal(t, "Steel widget", first.ProductName)
	assert.Equal(t, "732690", first.HSCode)
	assert.Equal(t, 100.0, first.Quantity)
	assert.Equal(t, 10.50, first.UnitPrice)
	assert.Equal(t, 1050.0, first.TotalValue)
	assert.Equal(t, "CN", first.CountryOfOrigin)
	assert.Equal(t, "P-200", doc.Items[1].ProductCode)
}

func TestParseFlagsUnknownHSCodes(t *testing.T) {
	e := extract.NewExtractor(extract.NewHSLookup([]domain.HSCode{
		{Code: "732690", Description: "Articles of iron or steel"},
	}))
	doc := e.Parse(context.Background(), extract.Input{
		FileID:   testFileID,
		TypeHint: domain.DocTypeInvoice,
		Content: &port.RawContent{
			Rows: [][]string{
				{"Part No.", "Description", "HS Code", "QTY"},
				{"P-100", "Steel widget", "7326.90", "100"},
				{"P-200", "Mystery part", "9999.99", "50"},
			},
		},
	})

	assert.Contains(t, doc.Warnings, `item 2: hs code "999999" not found in customs catalog`)
	assert.NotContains(t, doc.Warnings, `item 1: hs code "732690" not found in customs catalog`)
}

func TestParseAppliesCustomerRuleOverrides(t *testing.T) {
	rs := ruleSet(t, []domain.CustomerRule{
		{
			ID:         uuid.New(),
			RuleType:   domain.RuleFieldMapping,
			Category:   domain.CategoryParty,
			FieldName:  domain.FieldExporterName,
			Pattern:    "ACME CO., LTD",
			Value:      "ACME CO LTD SHANGHAI BRANCH",
			Confidence: 0.9,
			IsActive:   true,
		},
		{
			ID:         uuid.New(),
			RuleType:   domain.RuleDefaultValue,
			Category:   domain.CategoryValue,
			FieldName:  domain.FieldCurrency,
			Value:      "USD",
			Confidence: 0.8,
			IsActive:   true,
		},
	})

	doc := parse(t, extract.Input{
		FileID:   testFileID,
		TypeHint: domain.DocTypeInvoice,
		Content: &port.RawContent{Pages: []string{
			"INVOICE NO: INV-1\nSHIPPER/EXPORTER: ACME CO., LTD",
		}},
		Rules: rs,
	})

	assert.Equal(t, "ACME CO LTD SHANGHAI BRANCH", doc.Exporter.Name)
	assert.Equal(t, "USD", doc.Currency)
	assert.Contains(t, doc.Warnings, "2 customer rule override(s) applied")
}
