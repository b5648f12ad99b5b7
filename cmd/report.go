package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/cyclescope/spxpulse/renderer"
)

type reportCmd struct {
	fetchFlags
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render the reconciled series as a readable report" }
func (*reportCmd) Usage() string {
	return `spx report [flags] [days]

Performs the same fetch as 'spx fetch' but renders the outcome as a markdown
audit report: one row per trading day plus the reconciliation verdict for
the latest close.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) { c.fetchFlags.SetFlags(f) }

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report := renderer.NewReport(c.symbol, result, time.Now())
	printMarkdown(renderer.RenderReport(report))
	return subcommands.ExitSuccess
}
