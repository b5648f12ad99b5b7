// Package yahoo is the bulk provider adapter: it fetches daily closing
// history from the Yahoo Finance v8 chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cyclescope/spxpulse"
)

// DefaultSymbol is the Yahoo ticker for the S&P 500 index.
const DefaultSymbol = "^GSPC"

// Client queries the chart endpoint for one symbol at a daily interval.
type Client struct {
	Symbol   string
	Interval string

	base   string
	client httpGetter
}

// NewClient returns a Client backed by a disk-cached HTTP client with daily
// expiry, so repeated invocations the same day don't hammer the endpoint.
func NewClient(symbol string) *Client {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return &Client{
		Symbol:   symbol,
		Interval: "1d",
		base:     "https://query1.finance.yahoo.com",
		client:   newDailyCachingClient(),
	}
}

// chartPayload is the relevant subset of the chart API response: parallel
// arrays of session timestamps and closing prices, with explicit nulls for
// missing data points.
type chartPayload struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History implements spxpulse.BulkProvider.
func (c *Client) History(ctx context.Context, from, to time.Time) ([]spxpulse.RawPoint, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s",
		c.base, url.PathEscape(c.Symbol), from.Unix(), to.Unix(), c.Interval)

	var payload chartPayload
	if err := jwget(ctx, c.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("yahoo chart for %s: %w", c.Symbol, err)
	}
	return extract(payload)
}

// extract converts the chart payload into raw points, preserving the
// explicit nulls for the normalizer to drop.
func extract(payload chartPayload) ([]spxpulse.RawPoint, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart: empty result")
	}
	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart: no quote indicators")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("yahoo chart: %d timestamps but %d closes", len(result.Timestamp), len(closes))
	}

	points := make([]spxpulse.RawPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		points = append(points, spxpulse.RawPoint{Unix: ts, Close: closes[i]})
	}
	return points, nil
}

var _ spxpulse.BulkProvider = (*Client)(nil)
