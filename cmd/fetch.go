package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fetchCmd struct {
	fetchFlags
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches and reconciles the daily closing series" }
func (*fetchCmd) Usage() string {
	return `spx fetch [flags] [days]

Fetches the last <days> daily closes (30 by default) from the bulk provider
and corroborates the most recent trading day against the verification
provider (Gemini grounded with Google Search; requires GEMINI_API_KEY).

The result is a single JSON object on standard output:

  {"prices": [{"date", "price", "source", ...}, ...], "latest_verified": bool}

Diagnostics go to standard error only. A bulk provider failure yields an
empty "prices" array, not an error exit.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) { c.fetchFlags.SetFlags(f) }

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	days, err := parseDays(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	result, err := c.fetch(ctx, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
