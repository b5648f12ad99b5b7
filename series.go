package spxpulse

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SourceBulk is the provenance tag for prices taken from the bulk provider
// without further corroboration.
const SourceBulk = "bulk-provider"

// PricePoint is a single daily close in a Series.
//
// A point is immutable once appended, except for the last point of a series
// which the reconciler may amend exactly once (price, source, verified, and
// at most one of note or warning).
type PricePoint struct {
	Date     Date
	Price    decimal.Decimal
	Source   string // provenance tag: SourceBulk or "verified:<domain>"
	Verified bool
	Note     string // advisory, e.g. why verification was unavailable
	Warning  string // discrepancy report when the two sources disagree
}

// MarshalJSON emits the point with a stable field order, omitting the
// advisory fields when empty.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", p.Date)
	w.Append("price", json.Number(p.Price.StringFixed(2)))
	w.Append("source", p.Source)
	w.Optional("verified", p.Verified)
	w.Optional("note", p.Note)
	w.Optional("warning", p.Warning)
	return w.MarshalJSON()
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date     Date            `json:"date"`
		Price    decimal.Decimal `json:"price"`
		Source   string          `json:"source"`
		Verified bool            `json:"verified"`
		Note     string          `json:"note"`
		Warning  string          `json:"warning"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PricePoint{raw.Date, raw.Price, raw.Source, raw.Verified, raw.Note, raw.Warning}
	return nil
}

// Series is an ordered sequence of daily closes, strictly increasing by
// date, with no duplicate dates. Weekends and holidays are naturally absent
// from the upstream feed, not explicitly modeled.
type Series []PricePoint

// Last returns the most recent point of the series.
func (s Series) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the suffix of at most n points, in original order.
func (s Series) Tail(n int) Series {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
