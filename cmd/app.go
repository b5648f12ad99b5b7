// Package cmd implements the CLI application to fetch reconciled index
// closes.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/cyclescope/spxpulse"
	"github.com/cyclescope/spxpulse/gemini"
	"github.com/cyclescope/spxpulse/yahoo"
)

// Commands lists the subcommands of the application.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&fetchCmd{},
	&reportCmd{},
	&topicCmd{},
}

// parseDays reads the single positional parameter: the number of trading
// days requested, 30 by default.
func parseDays(f *flag.FlagSet) (int, error) {
	if f.NArg() == 0 {
		return 30, nil
	}
	days, err := strconv.Atoi(f.Arg(0))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("days must be a positive integer, got %q", f.Arg(0))
	}
	return days, nil
}

// fetchFlags are the options shared by the commands that perform a fetch.
type fetchFlags struct {
	symbol    string
	noVerify  bool
	tolerance float64
	closeHour float64
	timezone  string
}

func (ff *fetchFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&ff.symbol, "symbol", yahoo.DefaultSymbol, "Yahoo ticker of the index to fetch.")
	f.BoolVar(&ff.noVerify, "no-verify", false, "Do not corroborate the latest close with the verification provider.")
	f.Float64Var(&ff.tolerance, "tolerance", spxpulse.DefaultTolerance, "Relative difference under which the two sources agree.")
	f.Float64Var(&ff.closeHour, "close-hour", spxpulse.DefaultCloseHour, "Exchange-local session close, in fractional hours.")
	f.StringVar(&ff.timezone, "tz", spxpulse.DefaultTimezone, "IANA name of the exchange time zone.")
}

// config converts the flags into fetch options.
func (ff *fetchFlags) config(days int) spxpulse.Config {
	return spxpulse.Config{
		WindowSize:          days,
		VerificationEnabled: !ff.noVerify,
		Tolerance:           ff.tolerance,
		CloseHour:           ff.closeHour,
		Timezone:            ff.timezone,
	}
}

// fetch runs the end-to-end operation. A missing or broken verification
// setup degrades to an unverified result, it never blocks the fetch.
func (ff *fetchFlags) fetch(ctx context.Context, days int) (spxpulse.Result, error) {
	cfg := ff.config(days)

	var verifier spxpulse.Verifier
	if cfg.VerificationEnabled {
		v, err := gemini.NewVerifier(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: latest close verification disabled: %v\n", err)
		} else {
			verifier = v
		}
	}

	fetcher, err := spxpulse.NewFetcher(yahoo.NewClient(ff.symbol), verifier, cfg)
	if err != nil {
		return spxpulse.Result{}, err
	}
	return fetcher.Fetch(ctx), nil
}
