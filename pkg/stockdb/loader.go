package stockdb

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	// Packages
	pgx "github.com/jackc/pgx/v5"
	stockbot "github.com/mutablelogic/go-stockbot"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Dataset is a filtered CSV ready for loading: a header and typed rows
type Dataset struct {
	Columns []string
	Rows    [][]any
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	loadYear     = 2024
	loadIndustry = "technology"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ReadCSV parses the historical price CSV from r, drops rows with an
// unparseable date, and keeps only technology rows from the load year.
// Column order follows the CSV header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, stockbot.ErrBadParameter.Withf("reading CSV header: %v", err)
	}

	dateIdx, industryIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(col) {
		case "date":
			dateIdx = i
		case "industry_tag":
			industryIdx = i
		}
	}
	if dateIdx < 0 || industryIdx < 0 {
		return nil, stockbot.ErrBadParameter.With("CSV must have Date and Industry_Tag columns")
	}

	dataset := &Dataset{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		// Drop rows with an unparseable date
		date, err := parseCSVDate(record[dateIdx])
		if err != nil {
			continue
		}
		if date.Year() != loadYear || record[industryIdx] != loadIndustry {
			continue
		}

		row := make([]any, len(header))
		for i, value := range record {
			row[i] = typedValue(header[i], value, date)
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

// Load creates the stock_data table if missing and bulk-inserts the dataset
func (db *DB) Load(ctx context.Context, dataset *Dataset) (int64, error) {
	if dataset == nil || len(dataset.Rows) == 0 {
		return 0, stockbot.ErrNoData.With("nothing to load")
	}

	// Create the table with a type per column class
	defs := make([]string, 0, len(dataset.Columns))
	for _, col := range dataset.Columns {
		defs = append(defs, `"`+col+`" `+columnType(col))
	}
	if _, err := db.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS stock_data (`+strings.Join(defs, ", ")+`)`); err != nil {
		return 0, err
	}

	// Bulk insert
	return db.pool.CopyFrom(ctx,
		pgx.Identifier{"stock_data"},
		dataset.Columns,
		pgx.CopyFromRows(dataset.Rows),
	)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// columnType assigns a Postgres type by column class
func columnType(col string) string {
	switch col {
	case "Date":
		return "TIMESTAMP WITH TIME ZONE"
	case "Brand_Name", "Ticker", "Industry_Tag", "Country":
		return "VARCHAR(100)"
	case "Volume":
		return "BIGINT"
	default:
		return "DECIMAL"
	}
}

// typedValue converts a CSV field to the value matching its column type
func typedValue(col, value string, date time.Time) any {
	switch columnType(col) {
	case "TIMESTAMP WITH TIME ZONE":
		return date
	case "VARCHAR(100)":
		return value
	case "BIGINT":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
		// Volumes sometimes carry a decimal point
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return int64(v)
		}
		return nil
	default:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		return nil
	}
}

// parseCSVDate accepts the date formats seen in the historical CSV
func parseCSVDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, stockbot.ErrBadParameter.Withf("unparseable date %q", value)
}
