package spxpulse

import (
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RawPoint is one entry of a bulk chart response: a session timestamp and
// the closing price, nil when the provider has no close for that slot
// (non-trading placeholder).
type RawPoint struct {
	Unix  int64
	Close *float64
}

// Normalize converts a raw bulk response into a clean Series: placeholder
// entries are dropped, timestamps become exchange-local calendar dates,
// prices are rounded to 2 decimal places and tagged with the bulk
// provenance, and the result is ordered ascending by date.
//
// The point for the current local date is dropped while its session is still
// open, so an intraday quote never masquerades as a close. When the provider
// supplies several entries truncating to the same date, the first one wins.
func Normalize(raw []RawPoint, now time.Time, cal Calendar) Series {
	points := make(Series, 0, len(raw))
	seen := make(map[Date]bool, len(raw))

	for _, r := range raw {
		if r.Close == nil {
			continue
		}
		day := cal.DateOf(time.Unix(r.Unix, 0))
		if !cal.SessionClosed(day, now) {
			log.Printf("skipping intraday data for %s (session still open)", day)
			continue
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		points = append(points, PricePoint{
			Date:   day,
			Price:  decimal.NewFromFloat(*r.Close).Round(2),
			Source: SourceBulk,
		})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
