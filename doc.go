// Package spxpulse retrieves a daily closing series for an equity index from
// a bulk historical provider and reconciles the most recent trading day
// against a slower, search-grounded verification provider.
//
// The core of the package is the reconciliation engine: the trading-calendar
// gate that decides whether a session has closed, the normalizer that turns a
// raw chart response into a clean ascending series, and the reconciler that
// decides, for the latest closed trading day, whether to trust the bulk
// value, replace it with a verified one, flag a discrepancy, or annotate
// unavailability. Provider adapters live in the yahoo and gemini
// subpackages.
package spxpulse
