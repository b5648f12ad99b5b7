package spxpulse

import (
	"context"
	"errors"
	"log"
	"time"
)

// BulkProvider is the source of historical daily closes, queried once per
// invocation over a date range.
type BulkProvider interface {
	History(ctx context.Context, from, to time.Time) ([]RawPoint, error)
}

// Config carries the recognized fetch options. The zero value is not usable,
// use DefaultConfig.
type Config struct {
	WindowSize          int     // number of trading days to return
	VerificationEnabled bool    // corroborate the latest close with the verifier
	Tolerance           float64 // relative difference under which the sources agree
	CloseHour           float64 // exchange-local session close, fractional hours
	Timezone            string  // IANA name of the exchange time zone
}

// DefaultConfig returns the standard options for the S&P 500.
func DefaultConfig() Config {
	return Config{
		WindowSize:          30,
		VerificationEnabled: true,
		Tolerance:           DefaultTolerance,
		CloseHour:           DefaultCloseHour,
		Timezone:            DefaultTimezone,
	}
}

// Result is the outcome of one fetch: the trailing window of daily closes
// and whether the latest one was verified.
type Result struct {
	Prices         Series `json:"prices"`
	LatestVerified bool   `json:"latest_verified"`
}

// Fetcher composes the bulk provider, the normalizer, and the reconciler
// into the end-to-end operation. A Fetcher holds no state across calls.
type Fetcher struct {
	bulk     BulkProvider
	verifier Verifier
	config   Config
	calendar Calendar

	// Now is the clock, replaceable in tests.
	Now func() time.Time
}

// NewFetcher builds a Fetcher. The verifier may be nil, in which case the
// latest close is returned unverified.
func NewFetcher(bulk BulkProvider, verifier Verifier, config Config) (*Fetcher, error) {
	cal, err := NewCalendar(config.Timezone, config.CloseHour)
	if err != nil {
		return nil, err
	}
	return &Fetcher{bulk: bulk, verifier: verifier, config: config, calendar: cal}, nil
}

func (f *Fetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Fetch retrieves, normalizes, and reconciles the series, returning the last
// WindowSize points. A bulk provider failure degrades to an empty result; it
// is reported on stderr, never retried, and never returned as an error.
func (f *Fetcher) Fetch(ctx context.Context) Result {
	now := f.now()
	// Twice the window in calendar days absorbs weekends and holidays.
	from := now.AddDate(0, 0, -2*f.config.WindowSize)

	raw, err := f.bulk.History(ctx, from, now)
	if err != nil {
		log.Printf("bulk provider error: %v", err)
		return Result{Prices: Series{}}
	}

	series := Normalize(raw, now, f.calendar)
	if len(series) == 0 {
		log.Printf("bulk provider returned no usable points")
		return Result{Prices: Series{}}
	}

	verifier := f.verifier
	if !f.config.VerificationEnabled {
		verifier = nil
	}
	reconciler := Reconciler{Calendar: f.calendar, Tolerance: f.config.Tolerance, Now: f.Now}
	series, verified, err := reconciler.Reconcile(ctx, series, verifier)
	if err != nil {
		if !errors.Is(err, ErrEmptySeries) {
			log.Printf("reconciliation error: %v", err)
		}
		return Result{Prices: Series{}}
	}

	return Result{Prices: series.Tail(f.config.WindowSize), LatestVerified: verified}
}
