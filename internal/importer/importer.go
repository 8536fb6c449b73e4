package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Row is one raw import row keyed by column header.
type Row map[string]string

// ErrorKind classifies a row-level normalization failure.
type ErrorKind string

const (
	KindMissingDate   ErrorKind = "missing_date"
	KindInvalidDate   ErrorKind = "invalid_date"
	KindMissingAmount ErrorKind = "missing_amount"
	KindInvalidAmount ErrorKind = "invalid_amount"
)

// RowError is a recoverable failure for a single row. Row numbers are
// 1-based and count data rows only (the header row is excluded).
type RowError struct {
	Row     int
	Kind    ErrorKind
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NormalizedTransaction is a canonical transaction produced from a raw row.
// Positive amounts are credits, negative are debits.
type NormalizedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Raw         string // original row serialized for audit
}

// Result holds the outcome of a batch normalization. A row failure never
// discards other rows; the caller decides whether to persist a partial
// batch.
type Result struct {
	Accepted      []NormalizedTransaction
	Errors        []RowError
	AcceptedCount int
}

// dateFormats is the fixed trial order for import dates. Day-first comes
// first because the feeds this system ingests are UK bank exports, so an
// ambiguous date like 03/04/2024 resolves to 3 April 2024.
var dateFormats = []string{
	"02/01/2006", // day/month/year
	"2006-01-02", // year-month-day
	"01/02/2006", // month/day/year
}

var (
	dateColumns        = []string{"Transaction Date", "Date", "Posting Date"}
	descriptionColumns = []string{"Transaction Description", "Description"}
	creditColumns      = []string{"Credit Amount", "Credit"}
	debitColumns       = []string{"Debit Amount", "Debit"}
)

// defaultDescription is used when a row has no description; a blank
// description is never grounds for rejecting a row.
const defaultDescription = "Imported transaction"

// NormalizeRows converts raw rows into canonical transactions, collecting
// per-row errors instead of aborting the batch.
func NormalizeRows(rows []Row) Result {
	var result Result
	for i, row := range rows {
		rowNum := i + 1
		transaction, rowErr := normalizeRow(row, rowNum)
		if rowErr != nil {
			zap.L().Debug("Import row rejected",
				zap.Int("row", rowNum),
				zap.String("kind", string(rowErr.Kind)),
				zap.String("message", rowErr.Message))
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Accepted = append(result.Accepted, *transaction)
	}
	result.AcceptedCount = len(result.Accepted)
	return result
}

func normalizeRow(row Row, rowNum int) (*NormalizedTransaction, *RowError) {
	date, rowErr := parseDate(row, rowNum)
	if rowErr != nil {
		return nil, rowErr
	}

	description := lookup(row, descriptionColumns)
	if description == "" {
		description = defaultDescription
	}

	amount, rowErr := parseAmount(row, rowNum)
	if rowErr != nil {
		return nil, rowErr
	}

	raw, err := json.Marshal(row)
	if err != nil {
		// A map[string]string always marshals; guard anyway.
		raw = []byte(fmt.Sprintf("%v", row))
	}

	return &NormalizedTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Raw:         string(raw),
	}, nil
}

func parseDate(row Row, rowNum int) (time.Time, *RowError) {
	dateStr := lookup(row, dateColumns)
	if dateStr == "" {
		return time.Time{}, &RowError{Row: rowNum, Kind: KindMissingDate, Message: "date is empty"}
	}
	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}
	return time.Time{}, &RowError{
		Row:     rowNum,
		Kind:    KindInvalidDate,
		Message: fmt.Sprintf("unrecognized date %q", dateStr),
	}
}

func parseAmount(row Row, rowNum int) (decimal.Decimal, *RowError) {
	credit := cleanAmount(lookup(row, creditColumns))
	debit := cleanAmount(lookup(row, debitColumns))

	if credit != "" {
		amount, err := decimal.NewFromString(credit)
		if err != nil {
			return decimal.Zero, &RowError{
				Row:     rowNum,
				Kind:    KindInvalidAmount,
				Message: fmt.Sprintf("invalid credit amount %q", credit),
			}
		}
		return amount, nil
	}

	if debit != "" {
		amount, err := decimal.NewFromString(debit)
		if err != nil {
			return decimal.Zero, &RowError{
				Row:     rowNum,
				Kind:    KindInvalidAmount,
				Message: fmt.Sprintf("invalid debit amount %q", debit),
			}
		}
		return amount.Neg(), nil
	}

	return decimal.Zero, &RowError{Row: rowNum, Kind: KindMissingAmount, Message: "no credit or debit amount"}
}

// lookup returns the first non-empty value among the candidate columns.
func lookup(row Row, columns []string) string {
	for _, column := range columns {
		if value := strings.TrimSpace(row[column]); value != "" {
			return value
		}
	}
	return ""
}

// cleanAmount strips currency symbols and thousands separators so "£1,234.50"
// parses as 1234.50.
func cleanAmount(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '£', '$', '€', ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, value)
}
