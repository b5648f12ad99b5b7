package spxpulse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// fakeBulk returns canned raw points, or an error.
type fakeBulk struct {
	raw []RawPoint
	err error

	from, to time.Time
}

func (f *fakeBulk) History(_ context.Context, from, to time.Time) ([]RawPoint, error) {
	f.from, f.to = from, to
	return f.raw, f.err
}

// rawDays builds one closed-session raw point per day, ending the given
// number of days before now.
func rawDays(t *testing.T, now time.Time, n int) []RawPoint {
	t.Helper()
	raw := make([]RawPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i-1) // all strictly before today: sessions closed
		price := 5000.0 + float64(i)
		raw = append(raw, RawPoint{Unix: day.Unix(), Close: &price})
	}
	return raw
}

func TestFetchTrimsToWindow(t *testing.T) {
	now := et(t, 2024, time.June, 10, 18, 0)
	bulk := &fakeBulk{raw: rawDays(t, now, 45)}

	cfg := DefaultConfig()
	cfg.VerificationEnabled = false
	f, err := NewFetcher(bulk, nil, cfg)
	if err != nil {
		t.Fatalf("NewFetcher() unexpected error: %v", err)
	}
	f.Now = func() time.Time { return now }

	res := f.Fetch(context.Background())
	if len(res.Prices) != 30 {
		t.Fatalf("Fetch() returned %d points, want 30", len(res.Prices))
	}
	for i := 1; i < len(res.Prices); i++ {
		if !res.Prices[i-1].Date.Before(res.Prices[i].Date) {
			t.Fatal("Fetch() window is not in original ascending order")
		}
	}
	if res.LatestVerified {
		t.Error("Fetch() with verification disabled reports verified")
	}
	// the requested range spans twice the window in calendar days
	if got := int(f.now().Sub(bulk.from).Hours() / 24); got != 60 {
		t.Errorf("Fetch() requested %d calendar days of history, want 60", got)
	}
}

func TestFetchBulkFailure(t *testing.T) {
	bulk := &fakeBulk{err: errors.New("connection refused")}
	f, err := NewFetcher(bulk, &fakeVerifier{}, DefaultConfig())
	if err != nil {
		t.Fatalf("NewFetcher() unexpected error: %v", err)
	}

	res := f.Fetch(context.Background())
	if len(res.Prices) != 0 || res.LatestVerified {
		t.Errorf("Fetch() on bulk failure = %+v, want empty unverified result", res)
	}
}

func TestFetchNoUsablePoints(t *testing.T) {
	bulk := &fakeBulk{raw: []RawPoint{{Unix: time.Now().Unix(), Close: nil}}}
	f, err := NewFetcher(bulk, &fakeVerifier{}, DefaultConfig())
	if err != nil {
		t.Fatalf("NewFetcher() unexpected error: %v", err)
	}

	res := f.Fetch(context.Background())
	if len(res.Prices) != 0 || res.LatestVerified {
		t.Errorf("Fetch() with no usable points = %+v, want empty unverified result", res)
	}
}

func TestFetchVerifiesLatest(t *testing.T) {
	now := et(t, 2024, time.June, 10, 18, 0)
	close := 5400.12
	raw := rawDays(t, now, 5)
	raw = append(raw, RawPoint{Unix: et(t, 2024, time.June, 10, 9, 30).Unix(), Close: &close})

	v := &fakeVerifier{result: Found(decimal.NewFromFloat(5400.50), "bloomberg.com")}
	f, err := NewFetcher(&fakeBulk{raw: raw}, v, DefaultConfig())
	if err != nil {
		t.Fatalf("NewFetcher() unexpected error: %v", err)
	}
	f.Now = func() time.Time { return now }

	res := f.Fetch(context.Background())
	if !res.LatestVerified {
		t.Fatal("Fetch() latest_verified = false, want true")
	}
	last, _ := res.Prices.Last()
	if got := last.Price.StringFixed(2); got != "5400.50" {
		t.Errorf("Fetch() last price = %s, want the verified 5400.50", got)
	}
	if last.Source != "verified:bloomberg.com" {
		t.Errorf("Fetch() last source = %q", last.Source)
	}
}

func TestNewFetcherBadTimezone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Nowhere/Special"
	if _, err := NewFetcher(&fakeBulk{}, nil, cfg); err == nil {
		t.Error("NewFetcher() should reject an unknown timezone")
	}
}
