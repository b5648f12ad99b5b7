package spxpulse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// ErrEmptySeries is returned by Reconcile when the bulk provider yielded no
// usable points. Callers should degrade to an empty result rather than
// propagate it.
var ErrEmptySeries = errors.New("empty series: no usable points from the bulk provider")

// VerificationStatus discriminates the variants of a VerificationResult.
type VerificationStatus int

const (
	// StatusSkipped means the gate declined to call the provider.
	StatusSkipped VerificationStatus = iota
	// StatusFound means the provider confirmed a closing value.
	StatusFound
	// StatusUnavailable means the provider explicitly reported that no close
	// exists or is published yet (weekend, holiday, settlement pending).
	StatusUnavailable
	// StatusFailed means the provider errored out or its answer could not be
	// coerced into a structured result.
	StatusFailed
)

func (s VerificationStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFound:
		return "found"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// VerificationResult is the four-variant outcome of asking the verification
// provider about a date. Absence of data is a normal, typed outcome, not an
// error.
type VerificationResult struct {
	Status VerificationStatus
	Value  decimal.Decimal // only for StatusFound
	Source string          // only for StatusFound, e.g. "bloomberg.com"
	Reason string          // only for StatusUnavailable
	Detail string          // only for StatusUnavailable
}

// Found returns a confirmed closing value with its provenance.
func Found(value decimal.Decimal, source string) VerificationResult {
	return VerificationResult{Status: StatusFound, Value: value, Source: source}
}

// Unavailable returns an explicit "no close exists" answer.
func Unavailable(reason, detail string) VerificationResult {
	return VerificationResult{Status: StatusUnavailable, Reason: reason, Detail: detail}
}

// Failed returns a provider failure.
func Failed() VerificationResult { return VerificationResult{Status: StatusFailed} }

// Skipped returns the result of not calling the provider at all.
func Skipped() VerificationResult { return VerificationResult{Status: StatusSkipped} }

// Verifier is the capability of corroborating a single day's closing value
// from an independent source. Provider specific parsing (text extraction,
// markup stripping) lives entirely behind this interface.
type Verifier interface {
	Verify(ctx context.Context, d Date) VerificationResult
}

// DefaultTolerance is the relative difference under which the two sources
// are considered to agree.
const DefaultTolerance = 0.005

// Reconciler amends the last point of a series with the outcome of
// verification. It never mutates any other point.
type Reconciler struct {
	Calendar  Calendar
	Tolerance float64          // relative difference, strict upper bound; DefaultTolerance if zero
	Now       func() time.Time // defaults to time.Now
}

func (r Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Reconciler) tolerance() decimal.Decimal {
	if r.Tolerance > 0 {
		return decimal.NewFromFloat(r.Tolerance)
	}
	return decimal.NewFromFloat(DefaultTolerance)
}

// Reconcile checks the last point of s against the verifier and returns the
// (possibly amended) series plus an overall verified flag.
//
// Verification is attempted only when the last point is from today or
// yesterday; older points are already settled and are returned untouched. A
// nil verifier behaves as if verification were disabled. The relative
// difference must be strictly below the tolerance for the verified value to
// replace the bulk one; on a mismatch the bulk value is kept and the
// discrepancy is recorded on the point. The bulk price is assumed non-zero.
func (r Reconciler) Reconcile(ctx context.Context, s Series, v Verifier) (Series, bool, error) {
	last, ok := s.Last()
	if !ok {
		return nil, false, ErrEmptySeries
	}

	today := r.Calendar.DateOf(r.now())
	if v == nil || !r.Calendar.Recent(last.Date, today) {
		// Settled long ago, or verification disabled: nothing to corroborate.
		return s, false, nil
	}

	log.Printf("verifying latest trading day %s", last.Date)
	result := v.Verify(ctx, last.Date)

	switch result.Status {
	case StatusFound:
		diff := result.Value.Sub(last.Price).Abs().Div(last.Price)
		if diff.LessThan(r.tolerance()) {
			s[len(s)-1].Price = result.Value.Round(2)
			s[len(s)-1].Source = "verified:" + result.Source
			s[len(s)-1].Verified = true
			log.Printf("latest price verified: %s (%s)", result.Value, result.Source)
			return s, true, nil
		}
		s[len(s)-1].Warning = fmt.Sprintf("bulk close %s disagrees with %s close %s",
			last.Price.StringFixed(2), result.Source, result.Value)
		log.Printf("price mismatch: bulk=%s verification=%s", last.Price, result.Value)

	case StatusUnavailable:
		s[len(s)-1].Note = fmt.Sprintf("verification unavailable: %s", result.Reason)
		log.Printf("verification unavailable for %s: %s (%s)", last.Date, result.Reason, result.Detail)

	case StatusFailed:
		// Keep the bulk data unchanged.
		log.Printf("verification provider failed, keeping bulk data for %s", last.Date)

	case StatusSkipped:
		// The verifier itself declined; same as the gate skipping.
	}

	return s, false, nil
}
