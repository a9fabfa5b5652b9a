package stockdb

import (
	"context"
	"sort"
	"strings"
	"time"

	// Packages
	pgx "github.com/jackc/pgx/v5"
	pgtype "github.com/jackc/pgx/v5/pgtype"
	stockbot "github.com/mutablelogic/go-stockbot"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// forbiddenKeywords are statement types a generated query must not contain
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create", "truncate",
	"grant", "revoke", "copy", "vacuum", "do", "call", "execute",
}

// relationListEnd are the tokens that terminate a FROM/JOIN relation with
// its aliases
var relationListEnd = map[string]bool{
	"where": true, "group": true, "order": true, "having": true,
	"limit": true, "offset": true, "union": true, "intersect": true,
	"except": true, "join": true, "inner": true, "left": true,
	"right": true, "full": true, "cross": true, "natural": true,
	"on": true, ")": true,
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ValidateQuery checks that a generated query is a single SELECT statement
// over the stock_data table. Anything else is rejected before execution.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return stockbot.ErrQueryRejected.With("empty query")
	}
	if strings.Contains(trimmed, ";") {
		return stockbot.ErrQueryRejected.With("multiple statements")
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return stockbot.ErrQueryRejected.With("only SELECT queries are allowed")
	}

	// Tokenize with parentheses and commas as their own tokens
	tokens := strings.Fields(strings.NewReplacer("(", " ( ", ")", " ) ", ",", " , ").Replace(lower))
	for _, field := range tokens {
		for _, keyword := range forbiddenKeywords {
			if field == keyword {
				return stockbot.ErrQueryRejected.Withf("forbidden keyword %q", keyword)
			}
		}
	}

	// CTE names read as "<name> as ( select"
	ctes := make(map[string]bool)
	for i := 0; i+3 < len(tokens); i++ {
		if tokens[i+1] == "as" && tokens[i+2] == "(" && tokens[i+3] == "select" {
			ctes[tokens[i]] = true
		}
	}

	// Every relation after FROM or JOIN must be stock_data, a CTE, or an
	// inline subquery; any other table, and comma-separated relation
	// lists, are rejected
	sawStockData := false
	for i := 0; i < len(tokens); i++ {
		if tokens[i] != "from" && tokens[i] != "join" {
			continue
		}
		if i+1 >= len(tokens) {
			return stockbot.ErrQueryRejected.With("missing relation")
		}
		j := i + 1
		if tokens[j] == "(" {
			// Inline subquery: skip its body here, its own FROM clauses
			// are still visited by this loop
			for depth := 0; j < len(tokens); j++ {
				if tokens[j] == "(" {
					depth++
				} else if tokens[j] == ")" {
					if depth--; depth == 0 {
						j++
						break
					}
				}
			}
		} else {
			rel := strings.Trim(tokens[j], `"`)
			if rel == "stock_data" {
				sawStockData = true
			} else if !ctes[rel] {
				return stockbot.ErrQueryRejected.Withf("query may only read from stock_data, not %q", rel)
			}
			j++
		}
		// Skip any alias tokens up to the next clause
		for ; j < len(tokens); j++ {
			if tokens[j] == "," {
				return stockbot.ErrQueryRejected.With("multiple relations")
			}
			if relationListEnd[tokens[j]] {
				break
			}
		}
	}
	if !sawStockData {
		return stockbot.ErrQueryRejected.With("query must read from stock_data")
	}
	return nil
}

// Query runs a validated generated query and returns the price series in
// date order. The query is expected to select date and close columns; a
// ticker column is carried through when present.
func (db *DB) Query(ctx context.Context, query string) ([]PricePoint, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanSeries(rows)
}

// Series returns the price series for a ticker between two dates, inclusive.
// This is the parameterized path used by the tool-calling mode.
func (db *DB) Series(ctx context.Context, ticker string, start, end time.Time) ([]PricePoint, error) {
	if ticker == "" {
		return nil, stockbot.ErrBadParameter.With("ticker is required")
	}
	rows, err := db.pool.Query(ctx,
		`SELECT "Date", close, ticker FROM stock_data WHERE ticker = $1 AND "Date" BETWEEN $2 AND $3 ORDER BY "Date" ASC`,
		strings.ToUpper(ticker), start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	return scanSeries(rows)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// scanSeries reads price points from the result set, locating the date,
// close and ticker columns case-insensitively
func scanSeries(rows pgx.Rows) ([]PricePoint, error) {
	defer rows.Close()

	dateIdx, closeIdx, tickerIdx := -1, -1, -1
	for i, fd := range rows.FieldDescriptions() {
		switch strings.ToLower(fd.Name) {
		case "date":
			dateIdx = i
		case "close":
			closeIdx = i
		case "ticker":
			tickerIdx = i
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return nil, stockbot.ErrQueryRejected.With("query must select date and close columns")
	}

	var series []PricePoint
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		var point PricePoint
		if point.Date, err = coerceDate(values[dateIdx]); err != nil {
			return nil, err
		}
		if point.Close, err = coerceFloat(values[closeIdx]); err != nil {
			return nil, err
		}
		if tickerIdx >= 0 {
			point.Ticker, _ = values[tickerIdx].(string)
		}
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, stockbot.ErrNoData
	}

	// Date order regardless of what the generated query did
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// coerceDate converts a scanned value to a time. The Date column may be
// TEXT (YYYY-MM-DD) or a timestamp depending on how the table was loaded.
func coerceDate(v any) (time.Time, error) {
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, stockbot.ErrBadParameter.Withf("unparseable date %q", v)
	default:
		return time.Time{}, stockbot.ErrBadParameter.Withf("unexpected date type %T", v)
	}
}

// coerceFloat converts a scanned numeric value to float64. DECIMAL columns
// scan as pgtype.Numeric.
func coerceFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil {
			return 0, err
		}
		return f.Float64, nil
	default:
		return 0, stockbot.ErrBadParameter.Withf("unexpected numeric type %T", v)
	}
}
