package analysis

import (
	"testing"
	"time"

	// Packages
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
	assert "github.com/stretchr/testify/assert"
)

func series(closes ...float64) []stockdb.PricePoint {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	result := make([]stockdb.PricePoint, len(closes))
	for i, c := range closes {
		result[i] = stockdb.PricePoint{
			Date:   base.AddDate(0, 0, i),
			Close:  c,
			Ticker: "AAPL",
		}
	}
	return result
}

func Test_analysis_001(t *testing.T) {
	assert := assert.New(t)

	stats, err := Compute(series(100, 110, 90, 120))
	assert.NoError(err)
	assert.Equal(float64(105), stats.Mean)
	assert.Equal(float64(90), stats.Min)
	assert.Equal(float64(120), stats.Max)
	assert.Equal(float64(20), stats.Change)
	assert.Equal(float64(100), stats.First)
	assert.Equal(float64(120), stats.Last)
}

func Test_analysis_002(t *testing.T) {
	assert := assert.New(t)

	// A single point has zero change
	stats, err := Compute(series(42))
	assert.NoError(err)
	assert.Equal(float64(42), stats.Mean)
	assert.Equal(float64(0), stats.Change)

	// An empty series is an error
	_, err = Compute(nil)
	assert.Error(err)
}

func Test_analysis_003(t *testing.T) {
	assert := assert.New(t)

	stats, err := Compute(series(100, 120))
	assert.NoError(err)

	prompt := stats.Prompt("analyse Apple for March")
	assert.Contains(prompt, "analyse Apple for March")
	assert.Contains(prompt, "Mean price: 110.00")
	assert.Contains(prompt, "Change (start to end): 20.00")
	assert.Contains(prompt, "Starting price: 100.00, Closing price: 120.00")
	assert.Contains(prompt, "4-5 sentences")
	assert.Contains(prompt, "Do NOT mention SQL")
}
