// Package importer normalizes uploaded material lists into canonical
// job material records. It tolerates inconsistent column naming in CSV
// headers and falls back to line-per-material parsing for plain text.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
)

// MaterialRecord is one normalized material ready for creation. UnitCost
// stays nil when the source had no parseable cost; a parseable zero is a
// present zero.
type MaterialRecord struct {
	CustomName     string
	Description    *string
	Unit           string
	QuantityNeeded float64
	UnitCost       *float64
	Trade          models.Trade
	Vendor         *string
}

// Column aliases per field, checked in priority order; the first alias
// with a non-empty value wins.
var (
	nameAliases        = []string{"name", "material", "item", "Name", "Material", "Item"}
	descriptionAliases = []string{"description", "Description"}
	unitAliases        = []string{"unit", "Unit"}
	quantityAliases    = []string{"quantity", "qty", "Quantity", "Qty"}
	costAliases        = []string{"cost", "price", "Cost", "Price", "unit_cost"}
	tradeAliases       = []string{"trade", "Trade"}
	vendorAliases      = []string{"vendor", "Vendor"}
)

const (
	defaultName = "Unknown"
	defaultUnit = "each"
)

// Normalize converts raw upload content into material records. Files
// named *.csv are parsed as header-row CSV; anything else is treated as
// plain text with one material per non-blank line. Returns ErrEmptyImport
// when no records result.
func Normalize(content []byte, filename string) ([]MaterialRecord, error) {
	var (
		records []MaterialRecord
		err     error
	)

	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		records, err = parseCSV(content)
		if err != nil {
			return nil, err
		}
	} else {
		records = parseLines(content)
	}

	if len(records) == 0 {
		return nil, apperrors.ErrEmptyImport
	}
	return records, nil
}

// parseCSV reads a header-row CSV and maps each row through the alias tables.
func parseCSV(content []byte) ([]MaterialRecord, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Errorf("failed to read CSV header: %w", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []MaterialRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Errorf("failed to read CSV row: %w", err))
		}
		row := rowMap(header, fields)
		if emptyRow(row) {
			continue
		}
		records = append(records, normalizeRow(row))
	}
	return records, nil
}

// parseLines treats every non-blank line as one needed material.
func parseLines(content []byte) []MaterialRecord {
	var records []MaterialRecord
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		records = append(records, MaterialRecord{
			CustomName:     line,
			Unit:           defaultUnit,
			QuantityNeeded: 1,
			Trade:          models.TradeGeneral,
		})
	}
	return records
}

func normalizeRow(row map[string]string) MaterialRecord {
	rec := MaterialRecord{
		CustomName:     resolveOr(row, nameAliases, defaultName),
		Description:    resolveOptional(row, descriptionAliases),
		Unit:           resolveOr(row, unitAliases, defaultUnit),
		QuantityNeeded: parseQuantity(resolve(row, quantityAliases)),
		UnitCost:       parseCost(resolve(row, costAliases)),
		Trade:          parseTrade(resolve(row, tradeAliases)),
		Vendor:         resolveOptional(row, vendorAliases),
	}
	return rec
}

// rowMap zips header names with row fields. Short rows leave trailing
// columns absent.
func rowMap(header, fields []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(fields) {
			break
		}
		m[name] = strings.TrimSpace(fields[i])
	}
	return m
}

func emptyRow(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// resolve returns the first non-empty value among the aliased columns.
func resolve(row map[string]string, aliases []string) string {
	for _, key := range aliases {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}

func resolveOr(row map[string]string, aliases []string, fallback string) string {
	if v := resolve(row, aliases); v != "" {
		return v
	}
	return fallback
}

func resolveOptional(row map[string]string, aliases []string) *string {
	if v := resolve(row, aliases); v != "" {
		return &v
	}
	return nil
}

// parseQuantity parses a quantity value, defaulting to 0 when absent or
// malformed. A bad number never fails the import.
func parseQuantity(s string) float64 {
	d, err := parseAmount(s)
	if err != nil {
		return 0
	}
	return d
}

// parseCost parses a cost value. Unlike quantities, a missing or
// malformed cost yields nil: an unknown cost is not a zero cost.
func parseCost(s string) *float64 {
	d, err := parseAmount(s)
	if err != nil {
		return nil
	}
	return &d
}

// parseAmount parses a currency-ish number, tolerating "$" prefixes and
// thousands separators.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// parseTrade uppercases the value and falls back to GENERAL for unknown
// trades so an import can never produce an unrepresentable state.
func parseTrade(s string) models.Trade {
	t := models.Trade(strings.ToUpper(strings.TrimSpace(s)))
	if !models.ValidTrade(t) {
		return models.TradeGeneral
	}
	return t
}
