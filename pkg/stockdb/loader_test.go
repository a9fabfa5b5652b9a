package stockdb

import (
	"strings"
	"testing"
	"time"

	// Packages
	assert "github.com/stretchr/testify/assert"
)

const testCSV = `Date,Brand_Name,Ticker,Industry_Tag,Country,Open,High,Low,Close,Volume,Dividends,Stock Splits
2024-03-01 00:00:00-05:00,apple,AAPL,technology,usa,179.55,180.53,177.38,179.66,73450600,0.0,0.0
2024-03-04 00:00:00-05:00,apple,AAPL,technology,usa,176.15,176.90,173.79,175.10,81510100,0.0,0.0
2023-12-29 00:00:00-05:00,apple,AAPL,technology,usa,193.90,194.40,191.73,192.53,42628800,0.0,0.0
2024-03-01 00:00:00-05:00,coca-cola,KO,food & beverage,usa,59.96,60.10,59.62,59.85,11902300,0.0,0.0
garbage-date,apple,AAPL,technology,usa,1,1,1,1,1,0,0
`

func Test_loader_001(t *testing.T) {
	assert := assert.New(t)

	dataset, err := ReadCSV(strings.NewReader(testCSV))
	assert.NoError(err)
	assert.Len(dataset.Columns, 12)

	// Only the two 2024 technology rows survive: 2023 rows, other
	// industries and unparseable dates are dropped
	assert.Len(dataset.Rows, 2)

	row := dataset.Rows[0]
	date, ok := row[0].(time.Time)
	assert.True(ok)
	assert.Equal(2024, date.Year())
	assert.Equal("AAPL", row[2])
	assert.Equal(179.66, row[8])
	assert.Equal(int64(73450600), row[9])
}

func Test_loader_002(t *testing.T) {
	assert := assert.New(t)

	// Missing required columns
	_, err := ReadCSV(strings.NewReader("Ticker,Close\nAAPL,170.0\n"))
	assert.Error(err)

	// Empty input
	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(err)
}

func Test_loader_003(t *testing.T) {
	assert := assert.New(t)

	// Column classing drives the generated DDL
	assert.Equal("TIMESTAMP WITH TIME ZONE", columnType("Date"))
	assert.Equal("VARCHAR(100)", columnType("Ticker"))
	assert.Equal("VARCHAR(100)", columnType("Brand_Name"))
	assert.Equal("VARCHAR(100)", columnType("Industry_Tag"))
	assert.Equal("VARCHAR(100)", columnType("Country"))
	assert.Equal("BIGINT", columnType("Volume"))
	assert.Equal("DECIMAL", columnType("Close"))
	assert.Equal("DECIMAL", columnType("Dividends"))
}

func Test_loader_004(t *testing.T) {
	assert := assert.New(t)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(date, typedValue("Date", "ignored", date))
	assert.Equal("AAPL", typedValue("Ticker", "AAPL", date))
	assert.Equal(int64(100), typedValue("Volume", "100", date))
	assert.Equal(int64(100), typedValue("Volume", "100.0", date))
	assert.Equal(179.66, typedValue("Close", "179.66", date))
	assert.Nil(typedValue("Close", "n/a", date))
}
