package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/google/subcommands"
	"github.com/reckon-ledger/reckon/internal/config"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
)

type projectCmd struct {
	out   io.Writer
	cfg   config.Config
	rule  ruleFlags
	from  string
	until string
	raw   bool
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "list the occurrences of a schedule in a time window" }
func (*projectCmd) Usage() string {
	return `reckon project -date <date> -freq <frequency> [-interval n] [-end <date>] -from <date> -until <date>

  Lists the projected occurrences of a schedule starting on -date.
  The start date itself is not part of the projection.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rule.date, "date", "", "Date of the first occurrence (YYYY-MM-DD)")
	f.StringVar(&c.rule.frequency, "freq", "monthly", "Frequency (none, daily, weekly, monthly, yearly)")
	f.IntVar(&c.rule.interval, "interval", 1, "Number of periods between occurrences")
	f.StringVar(&c.rule.end, "end", "", "Last possible occurrence, inclusive")
	f.StringVar(&c.from, "from", "", "First day of the window")
	f.StringVar(&c.until, "until", "", "Last day of the window, inclusive")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without rendering it")
}

func (c *projectCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	anchor, rule, err := c.rule.parse()
	if err != nil {
		return fail(subcommands.ExitUsageError, err)
	}

	if err := rule.Validate(); err != nil {
		return fail(subcommands.ExitUsageError, err)
	}

	from, err := types.ParseDate(c.from)
	if err != nil {
		return fail(subcommands.ExitUsageError, fmt.Errorf("invalid -from: %w", err))
	}

	until, err := types.ParseDate(c.until)
	if err != nil {
		return fail(subcommands.ExitUsageError, fmt.Errorf("invalid -until: %w", err))
	}

	window := recurrence.Window{Start: from, End: until}

	var rows [][]string
	for d := range recurrence.Dates(anchor, rule, window, c.cfg.Projection()) {
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), d.String(), d.Time().Weekday().String()})
	}

	md := fmt.Sprintf("## Occurrences from %s until %s\n\n", from, until)
	if len(rows) == 0 {
		md += "No occurrences in this window.\n"
	} else {
		md += table([]string{"#", "Date", "Weekday"}, rows)
	}

	if err := printMarkdown(c.out, md, c.raw); err != nil {
		return fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}
