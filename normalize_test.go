package spxpulse

import (
	"testing"
	"time"
)

func fp(f float64) *float64 { return &f }

// unixAt returns the unix timestamp of an exchange-local instant.
func unixAt(t *testing.T, year int, month time.Month, day, hour int) int64 {
	t.Helper()
	return et(t, year, month, day, hour, 0).Unix()
}

func TestNormalizeDropsPlaceholders(t *testing.T) {
	cal := mustCalendar(t)
	now := et(t, 2024, time.June, 12, 18, 0)

	raw := []RawPoint{
		{Unix: unixAt(t, 2024, time.June, 10, 9), Close: fp(5400.12)},
		{Unix: unixAt(t, 2024, time.June, 11, 9), Close: nil}, // non-trading placeholder
		{Unix: unixAt(t, 2024, time.June, 12, 9), Close: fp(5421.03)},
	}
	s := Normalize(raw, now, cal)
	if len(s) != 2 {
		t.Fatalf("Normalize() kept %d points, want 2", len(s))
	}
	if s[0].Date != NewDate(2024, time.June, 10) || s[1].Date != NewDate(2024, time.June, 12) {
		t.Errorf("Normalize() dates = %v, %v", s[0].Date, s[1].Date)
	}
}

func TestNormalizeDropsOpenSession(t *testing.T) {
	cal := mustCalendar(t)
	raw := []RawPoint{
		{Unix: unixAt(t, 2024, time.June, 9, 9), Close: fp(5390.00)},
		{Unix: unixAt(t, 2024, time.June, 10, 9), Close: fp(5400.12)},
	}

	// Before the close, today's point is intraday and must be excluded.
	s := Normalize(raw, et(t, 2024, time.June, 10, 15, 59), cal)
	if len(s) != 1 || s[0].Date != NewDate(2024, time.June, 9) {
		t.Errorf("Normalize() before close = %v, want only 2024-06-09", s)
	}

	// Exactly at the close the session is complete.
	s = Normalize(raw, et(t, 2024, time.June, 10, 16, 0), cal)
	if len(s) != 2 {
		t.Errorf("Normalize() at close kept %d points, want 2", len(s))
	}
}

func TestNormalizeOrdersAndRounds(t *testing.T) {
	cal := mustCalendar(t)
	now := et(t, 2024, time.June, 12, 18, 0)
	raw := []RawPoint{
		{Unix: unixAt(t, 2024, time.June, 11, 9), Close: fp(5410.555)},
		{Unix: unixAt(t, 2024, time.June, 10, 9), Close: fp(5400.124)},
	}
	s := Normalize(raw, now, cal)
	if len(s) != 2 {
		t.Fatalf("Normalize() kept %d points, want 2", len(s))
	}
	if s[0].Date.After(s[1].Date) {
		t.Error("Normalize() must order ascending by date")
	}
	if got := s[0].Price.StringFixed(2); got != "5400.12" {
		t.Errorf("Normalize() price = %s, want 5400.12", got)
	}
	if got := s[1].Price.StringFixed(2); got != "5410.56" {
		t.Errorf("Normalize() price = %s, want 5410.56", got)
	}
	for _, p := range s {
		if p.Source != SourceBulk {
			t.Errorf("Normalize() source = %q, want %q", p.Source, SourceBulk)
		}
		if p.Verified || p.Note != "" || p.Warning != "" {
			t.Errorf("Normalize() point carries reconciliation fields: %+v", p)
		}
	}
}

func TestNormalizeDuplicateDateFirstWins(t *testing.T) {
	cal := mustCalendar(t)
	now := et(t, 2024, time.June, 12, 18, 0)
	// Two timestamps truncating to the same local date.
	raw := []RawPoint{
		{Unix: unixAt(t, 2024, time.June, 10, 9), Close: fp(5400.12)},
		{Unix: unixAt(t, 2024, time.June, 10, 12), Close: fp(5555.55)},
	}
	s := Normalize(raw, now, cal)
	if len(s) != 1 {
		t.Fatalf("Normalize() kept %d points, want 1", len(s))
	}
	if got := s[0].Price.StringFixed(2); got != "5400.12" {
		t.Errorf("Normalize() duplicate policy: got %s, want the first occurrence 5400.12", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	cal := mustCalendar(t)
	if s := Normalize(nil, time.Now(), cal); len(s) != 0 {
		t.Errorf("Normalize(nil) = %v, want empty", s)
	}
}
