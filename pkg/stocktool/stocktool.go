/*
stocktool exposes the stock database to a model as callable tools: fetching
a price series, computing statistics over it, and rendering a chart.
*/
package stocktool

import (
	"context"
	"encoding/json"
	"time"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	stockbot "github.com/mutablelogic/go-stockbot"
	analysis "github.com/mutablelogic/go-stockbot/pkg/analysis"
	chart "github.com/mutablelogic/go-stockbot/pkg/chart"
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
	tool "github.com/mutablelogic/go-stockbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Store fetches price series; satisfied by stockdb.DB
type Store interface {
	Series(ctx context.Context, ticker string, start, end time.Time) ([]stockdb.PricePoint, error)
}

// seriesInput is the shared input for all three tools
type seriesInput struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// QueryTool returns the raw price series
type QueryTool struct {
	store Store
}

// StatsTool returns summary statistics for the series
type StatsTool struct {
	store Store
}

// ChartTool renders the series as a PNG and hands it to the collector
type ChartTool struct {
	store     Store
	collector *Collector
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewToolkit returns a toolkit with the three stock tools registered.
// Charts rendered during a conversation are accumulated in the returned
// collector.
func NewToolkit(store Store) (*tool.Toolkit, *Collector, error) {
	collector := new(Collector)
	toolkit, err := tool.NewToolkit(
		&QueryTool{store: store},
		&StatsTool{store: store},
		&ChartTool{store: store, collector: collector},
	)
	if err != nil {
		return nil, nil, err
	}
	return toolkit, collector, nil
}

///////////////////////////////////////////////////////////////////////////////
// QUERY TOOL

func (t *QueryTool) Name() string {
	return "query_stock_prices"
}

func (t *QueryTool) Description() string {
	return "Fetch daily closing prices for a stock ticker between two dates (2024 technology stocks only). Returns one row per trading day."
}

func (t *QueryTool) Schema() (*jsonschema.Schema, error) {
	return seriesSchema(), nil
}

func (t *QueryTool) Run(ctx context.Context, input json.RawMessage) (any, error) {
	series, err := seriesFromInput(ctx, t.store, input)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, len(series))
	for i, point := range series {
		rows[i] = map[string]any{
			"date":  point.Date.Format("2006-01-02"),
			"close": point.Close,
		}
	}
	return map[string]any{
		"ticker": series[0].Ticker,
		"rows":   rows,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// STATS TOOL

func (t *StatsTool) Name() string {
	return "price_statistics"
}

func (t *StatsTool) Description() string {
	return "Compute mean, minimum, maximum and start-to-end change of closing prices for a stock ticker between two dates."
}

func (t *StatsTool) Schema() (*jsonschema.Schema, error) {
	return seriesSchema(), nil
}

func (t *StatsTool) Run(ctx context.Context, input json.RawMessage) (any, error) {
	series, err := seriesFromInput(ctx, t.store, input)
	if err != nil {
		return nil, err
	}
	return analysis.Compute(series)
}

///////////////////////////////////////////////////////////////////////////////
// CHART TOOL

func (t *ChartTool) Name() string {
	return "render_price_chart"
}

func (t *ChartTool) Description() string {
	return "Render a PNG line chart of closing prices for a stock ticker between two dates. The chart is sent to the user automatically."
}

func (t *ChartTool) Schema() (*jsonschema.Schema, error) {
	return seriesSchema(), nil
}

func (t *ChartTool) Run(ctx context.Context, input json.RawMessage) (any, error) {
	series, err := seriesFromInput(ctx, t.store, input)
	if err != nil {
		return nil, err
	}

	png, err := chart.Render(series)
	if err != nil {
		return nil, err
	}
	t.collector.Add(ConversationID(ctx), png)

	return map[string]any{
		"rendered": true,
		"points":   len(series),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// seriesSchema is the input schema shared by all three tools
func seriesSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"ticker", "start_date", "end_date"},
		Properties: map[string]*jsonschema.Schema{
			"ticker": {
				Type:        "string",
				Description: "Stock ticker symbol, e.g. AAPL or MSFT",
			},
			"start_date": {
				Type:        "string",
				Description: "Start date, inclusive, YYYY-MM-DD",
			},
			"end_date": {
				Type:        "string",
				Description: "End date, inclusive, YYYY-MM-DD",
			},
		},
	}
}

// seriesFromInput parses tool input and fetches the price series
func seriesFromInput(ctx context.Context, store Store, input json.RawMessage) ([]stockdb.PricePoint, error) {
	var args seriesInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, stockbot.ErrBadParameter.Withf("invalid input: %v", err)
	}

	start, err := time.Parse("2006-01-02", args.StartDate)
	if err != nil {
		return nil, stockbot.ErrBadParameter.Withf("invalid start_date %q", args.StartDate)
	}
	end, err := time.Parse("2006-01-02", args.EndDate)
	if err != nil {
		return nil, stockbot.ErrBadParameter.Withf("invalid end_date %q", args.EndDate)
	}
	if end.Before(start) {
		return nil, stockbot.ErrBadParameter.With("end_date is before start_date")
	}

	return store.Series(ctx, args.Ticker, start, end)
}
