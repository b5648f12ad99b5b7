package renderer

import (
	"time"

	"github.com/cyclescope/spxpulse"
)

// Row is one trading day of the report.
type Row struct {
	Date     string
	Price    string
	Source   string
	Verified bool
	Note     string
	Warning  string
}

// Report is the view model for the reconciliation audit report.
type Report struct {
	Symbol         string
	GeneratedAt    string
	LatestVerified bool
	Rows           []Row
	Latest         Row
}

// NewReport builds the report view model from a fetch result.
func NewReport(symbol string, result spxpulse.Result, at time.Time) *Report {
	r := &Report{
		Symbol:         symbol,
		GeneratedAt:    at.Format(time.RFC3339),
		LatestVerified: result.LatestVerified,
	}
	for _, p := range result.Prices {
		r.Rows = append(r.Rows, Row{
			Date:     p.Date.String(),
			Price:    p.Price.StringFixed(2),
			Source:   p.Source,
			Verified: p.Verified,
			Note:     p.Note,
			Warning:  p.Warning,
		})
	}
	if n := len(r.Rows); n > 0 {
		r.Latest = r.Rows[n-1]
	}
	return r
}
