package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"finance-ledger-go/internal/models"
)

// ReadRows reads a delimited file into header-keyed rows. The first record
// is the header; short records are tolerated and missing cells read as "".
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	header := records[0]
	if len(header) > 0 {
		// Excel exports often carry a BOM on the first header cell.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[strings.TrimSpace(column)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// exportHeader is the column layout for CSV exports.
var exportHeader = []string{"date", "description", "amount", "category_id", "source_type", "external_id"}

// WriteTransactionsCSV exports transactions with the header row.
func WriteTransactionsCSV(w io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for i, transaction := range transactions {
		record := []string{
			transaction.Date.Format("2006-01-02"),
			transaction.Description,
			transaction.Amount.StringFixed(2),
			transaction.CategoryId,
			string(transaction.SourceType),
			transaction.ExternalId,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing export row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
