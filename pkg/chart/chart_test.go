package chart

import (
	"testing"
	"time"

	// Packages
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
	assert "github.com/stretchr/testify/assert"
)

func Test_chart_001(t *testing.T) {
	assert := assert.New(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := []stockdb.PricePoint{
		{Date: base, Close: 179.66, Ticker: "AAPL"},
		{Date: base.AddDate(0, 0, 3), Close: 175.10, Ticker: "AAPL"},
		{Date: base.AddDate(0, 0, 4), Close: 170.12, Ticker: "AAPL"},
		{Date: base.AddDate(0, 0, 5), Close: 169.12, Ticker: "AAPL"},
	}

	png, err := Render(series)
	assert.NoError(err)
	assert.NotEmpty(png)

	// PNG magic bytes
	assert.Equal([]byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func Test_chart_002(t *testing.T) {
	assert := assert.New(t)

	// An empty series cannot be charted
	_, err := Render(nil)
	assert.Error(err)
}

func Test_chart_003(t *testing.T) {
	assert := assert.New(t)

	// A one-day query result still renders as a flat marker
	series := []stockdb.PricePoint{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: 179.66, Ticker: "AAPL"},
	}

	png, err := Render(series)
	assert.NoError(err)
	assert.NotEmpty(png)
	assert.Equal([]byte{0x89, 'P', 'N', 'G'}, png[:4])
}
