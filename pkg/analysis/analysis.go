/*
analysis computes summary statistics over a price series and builds the
prompt for the analytical write-up.
*/
package analysis

import (
	"fmt"
	"strings"

	// Packages
	stockbot "github.com/mutablelogic/go-stockbot"
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Stats summarises a price series
type Stats struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Change float64 `json:"change"` // last close minus first close
	First  float64 `json:"first"`
	Last   float64 `json:"last"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Compute returns summary statistics for a price series in date order
func Compute(series []stockdb.PricePoint) (*Stats, error) {
	if len(series) == 0 {
		return nil, stockbot.ErrNoData
	}

	stats := &Stats{
		Min:   series[0].Close,
		Max:   series[0].Close,
		First: series[0].Close,
		Last:  series[len(series)-1].Close,
	}

	var sum float64
	for _, point := range series {
		sum += point.Close
		if point.Close < stats.Min {
			stats.Min = point.Close
		}
		if point.Close > stats.Max {
			stats.Max = point.Close
		}
	}
	stats.Mean = sum / float64(len(series))
	stats.Change = stats.Last - stats.First

	return stats, nil
}

// Prompt returns the analytical write-up prompt for a user request and the
// computed statistics
func (s *Stats) Prompt(userRequest string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The user asked for a data analysis: '%s'.\n", userRequest)
	sb.WriteString("The following statistics are available:\n")
	fmt.Fprintf(&sb, "- Mean price: %.2f\n", s.Mean)
	fmt.Fprintf(&sb, "- Minimum price: %.2f\n", s.Min)
	fmt.Fprintf(&sb, "- Maximum price: %.2f\n", s.Max)
	fmt.Fprintf(&sb, "- Change (start to end): %.2f\n", s.Change)
	fmt.Fprintf(&sb, "Starting price: %.2f, Closing price: %.2f.\n", s.First, s.Last)
	sb.WriteString("Write a short analytical summary (no more than 4-5 sentences) as a bot reply.\n")
	sb.WriteString("Focus on growth or decline, overall volatility and the main takeaways for the period. Do NOT mention SQL or databases.")
	return sb.String()
}
