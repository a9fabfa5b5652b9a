/*
chart renders a price series as a PNG line chart, returned as an in-memory
byte slice ready to send as a photo.
*/
package chart

import (
	"bytes"
	"fmt"
	"time"

	// Packages
	stockbot "github.com/mutablelogic/go-stockbot"
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
	gochart "github.com/wcharczuk/go-chart/v2"
	drawing "github.com/wcharczuk/go-chart/v2/drawing"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// lineColor matches the blue used for the close-price line
var lineColor = drawing.Color{R: 0x00, G: 0x77, B: 0xc9, A: 0xff}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render returns a PNG line chart of close prices over dates. The title
// carries the ticker and the date range of the series.
func Render(series []stockdb.PricePoint) ([]byte, error) {
	if len(series) == 0 {
		return nil, stockbot.ErrNoData
	}

	xvalues := make([]float64, len(series))
	yvalues := make([]float64, len(series))
	for i, point := range series {
		xvalues[i] = gochart.TimeToFloat64(point.Date)
		yvalues[i] = point.Close
	}

	// A lone point has no x-range, which go-chart cannot render. Pad it
	// to a flat one-day segment so the value still shows as a marker.
	if len(series) == 1 {
		xvalues = []float64{
			gochart.TimeToFloat64(series[0].Date.Add(-12 * time.Hour)),
			gochart.TimeToFloat64(series[0].Date.Add(12 * time.Hour)),
		}
		yvalues = []float64{series[0].Close, series[0].Close}
	}

	ticker := series[0].Ticker
	if ticker == "" {
		ticker = "Stock"
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s (%s - %s)", ticker, series[0].Date.Format("2006-01-02"), series[len(series)-1].Date.Format("2006-01-02")),
		Width:  1000,
		Height: 600,
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name: "Close price (USD)",
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    fmt.Sprintf("%s close", ticker),
				XValues: xvalues,
				YValues: yvalues,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    2,
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{
		gochart.Legend(&graph),
	}
	if len(series) == 1 {
		graph.YAxis.Range = &gochart.ContinuousRange{
			Min: series[0].Close - 1,
			Max: series[0].Close + 1,
		}
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
