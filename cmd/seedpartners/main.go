// Command seedpartners converts a partner-master Excel workbook into SQL
// seed files. Sheet 0 holds partners (type, name, address, country, tax
// code), sheet 1 holds the HS catalog (code, description, unit).
// Usage: go run ./cmd/seedpartners <workbook.xlsx> <tenant-id>
// Output: db/seeds/partners.sql, db/seeds/hs_codes.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"declara/internal/domain"
	"declara/internal/partner"
)

const batchSize = 500

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: seedpartners <workbook.xlsx> <tenant-id>")
	}
	xlsxPath := os.Args[1]
	tenantID, err := uuid.Parse(os.Args[2])
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	partners, err := parsePartnerSheet(f, tenantID)
	if err != nil {
		return fmt.Errorf("parse partner sheet: %w", err)
	}
	log.Printf("partner sheet: %d entries", len(partners))

	codes, err := parseHSSheet(f)
	if err != nil {
		return fmt.Errorf("parse HS sheet: %w", err)
	}
	log.Printf("HS sheet: %d entries", len(codes))

	if err := writePartnerSeed("db/seeds/partners.sql", partners); err != nil {
		return err
	}
	if err := writeHSSeed("db/seeds/hs_codes.sql", codes); err != nil {
		return err
	}
	return nil
}

// parsePartnerSheet reads sheet 0. Columns: A=type, B=name, C=address,
// D=country code, E=tax code. Row 0 is the header.
func parsePartnerSheet(f *excelize.File, tenantID uuid.UUID) ([]domain.Partner, error) {
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var partners []domain.Partner
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 {
			continue
		}
		ptype := domain.PartnerType(strings.ToUpper(strings.TrimSpace(cell(row, 0))))
		name := strings.TrimSpace(cell(row, 1))
		if name == "" || (ptype != domain.PartnerExporter && ptype != domain.PartnerImporter) {
			continue
		}
		normalized := partner.Normalize(name)
		key := string(ptype) + "|" + normalized
		if seen[key] {
			continue
		}
		seen[key] = true

		partners = append(partners, domain.Partner{
			ID:             uuid.New(),
			TenantID:       tenantID,
			PartnerType:    ptype,
			Name:           name,
			NormalizedName: normalized,
			Address:        strings.TrimSpace(cell(row, 2)),
			CountryCode:    strings.ToUpper(strings.TrimSpace(cell(row, 3))),
			TaxCode:        strings.TrimSpace(cell(row, 4)),
			IsActive:       true,
		})
	}
	return partners, nil
}

// parseHSSheet reads sheet 1. Columns: A=code, B=description, C=unit.
func parseHSSheet(f *excelize.File) ([]domain.HSCode, error) {
	name := f.GetSheetName(1)
	if name == "" {
		return nil, nil
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var codes []domain.HSCode
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		code := strings.TrimSpace(cell(row, 0))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, domain.HSCode{
			Code:        code,
			Description: strings.TrimSpace(cell(row, 1)),
			Unit:        strings.TrimSpace(cell(row, 2)),
		})
	}
	return codes, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func writePartnerSeed(path string, partners []domain.Partner) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	fmt.Fprintln(out, "-- Partner master seed data generated from Excel.")
	fmt.Fprintln(out, "BEGIN;")
	for i := 0; i < len(partners); i += batchSize {
		end := i + batchSize
		if end > len(partners) {
			end = len(partners)
		}
		fmt.Fprintln(out, "INSERT INTO partners (id, tenant_id, partner_type, name, normalized_name, address, country_code, tax_code, is_active, created_at, updated_at) VALUES")
		for j, p := range partners[i:end] {
			sep := ","
			if j == end-i-1 {
				sep = ";"
			}
			fmt.Fprintf(out, "('%s', '%s', '%s', %s, %s, %s, %s, %s, TRUE, NOW(), NOW())%s\n",
				p.ID, p.TenantID, p.PartnerType,
				quote(p.Name), quote(p.NormalizedName), quote(p.Address),
				quote(p.CountryCode), quote(p.TaxCode), sep)
		}
	}
	fmt.Fprintln(out, "COMMIT;")

	log.Printf("wrote %d partners to %s", len(partners), path)
	return nil
}

func writeHSSeed(path string, codes []domain.HSCode) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	fmt.Fprintln(out, "-- HS catalog seed data generated from Excel.")
	fmt.Fprintln(out, "BEGIN;")
	for i := 0; i < len(codes); i += batchSize {
		end := i + batchSize
		if end > len(codes) {
			end = len(codes)
		}
		fmt.Fprintln(out, "INSERT INTO hs_codes (code, description, unit) VALUES")
		for j, hc := range codes[i:end] {
			sep := ","
			if j == end-i-1 {
				sep = ";"
			}
			fmt.Fprintf(out, "(%s, %s, %s)%s\n",
				quote(hc.Code), quote(hc.Description), quote(hc.Unit), sep)
		}
	}
	fmt.Fprintln(out, "COMMIT;")

	log.Printf("wrote %d HS codes to %s", len(codes), path)
	return nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
