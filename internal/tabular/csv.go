// Package tabular reads and writes the enrichment spreadsheets. The
// input must carry a "Company Number" column; the output mirrors the
// input order with one row per input row, an Index column, and the
// enrichment columns the run enabled.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/OdhranMac/companies-house-api/pkg/batch"
)

// CompanyNumberColumn is the required input header.
const CompanyNumberColumn = "Company Number"

// ReadCompanyNumbers parses a CSV file and returns the Company Number
// column in row order. Blank cells are kept as empty strings so the
// output stays row-aligned with the input.
func ReadCompanyNumbers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing input %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input %s is empty", path)
	}

	column := -1
	for i, header := range rows[0] {
		if strings.TrimSpace(header) == CompanyNumberColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("input %s has no %q column", path, CompanyNumberColumn)
	}

	numbers := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if column < len(row) {
			numbers = append(numbers, strings.TrimSpace(row[column]))
		} else {
			numbers = append(numbers, "")
		}
	}

	return numbers, nil
}

// WriteRecords writes the enriched rows as CSV. Directors, Charges and
// Insolvency columns appear only when the corresponding option was
// enabled for the run.
func WriteRecords(path string, records []batch.Record, opts batch.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{
		"Index",
		CompanyNumberColumn,
		"Company Name",
		"Jurisdiction",
		"Type",
		"Registered Office Address",
	}
	if opts.IncludeDirectors {
		header = append(header, "Directors")
	}
	if opts.IncludeCharges {
		header = append(header, "Charges")
	}
	if opts.IncludeInsolvency {
		header = append(header, "Insolvency")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing output header: %w", err)
	}

	for i, record := range records {
		row := []string{
			strconv.Itoa(i),
			record.CompanyNumber,
			record.CompanyName,
			record.Jurisdiction,
			record.Type,
			record.RegisteredOfficeAddress,
		}
		if opts.IncludeDirectors {
			row = append(row, record.Directors)
		}
		if opts.IncludeCharges {
			row = append(row, record.Charges)
		}
		if opts.IncludeInsolvency {
			row = append(row, record.Insolvency)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing output row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	return nil
}
