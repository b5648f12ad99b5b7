package spxpulse

import (
	"fmt"
	"time"
)

// DefaultTimezone is the exchange-local time zone for the index.
const DefaultTimezone = "America/New_York"

// DefaultCloseHour is the exchange-local wall-clock hour after which a
// session's closing price is considered final (16:00 ET for NYSE).
const DefaultCloseHour = 16.0

// Calendar decides whether a given date's trading session has closed, and
// whether a date is recent enough to warrant verification at all.
//
// Bulk providers often surface a partial record for an in-progress session;
// the calendar is what prevents treating that partial record as a final
// close.
type Calendar struct {
	loc       *time.Location
	closeHour float64
}

// NewCalendar returns a Calendar for the given IANA time zone name and close
// hour expressed as a fractional hour (16.5 means 16:30 local).
func NewCalendar(timezone string, closeHour float64) (Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Calendar{}, fmt.Errorf("invalid exchange timezone %q: %w", timezone, err)
	}
	return Calendar{loc: loc, closeHour: closeHour}, nil
}

// DateOf returns the calendar date of the instant t in the exchange's local
// time zone.
func (c Calendar) DateOf(t time.Time) Date {
	return NewDate(t.In(c.loc).Date())
}

// SessionClosed reports whether the trading session of day d is over at the
// instant now. Past days are always closed, future days never are, and the
// current day is closed once the exchange-local wall clock reaches the close
// hour. Exactly the close hour counts as closed.
func (c Calendar) SessionClosed(d Date, now time.Time) bool {
	local := now.In(c.loc)
	today := NewDate(local.Date())
	if d.Before(today) {
		return true
	}
	if d.After(today) {
		return false
	}
	hour := float64(local.Hour()) + float64(local.Minute())/60.0
	return hour >= c.closeHour
}

// Recent reports whether d is today or yesterday relative to today. Older
// dates are assumed already settled and are never re-verified.
func (c Calendar) Recent(d, today Date) bool {
	ago := today.Sub(d)
	return ago == 0 || ago == 1
}
