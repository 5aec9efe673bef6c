package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"github.com/reckon-ledger/reckon/internal/recurrence"
)

type nextCmd struct {
	out  io.Writer
	rule ruleFlags
}

func (*nextCmd) Name() string     { return "next" }
func (*nextCmd) Synopsis() string { return "print the occurrence following a date" }
func (*nextCmd) Usage() string {
	return `reckon next -date <date> -freq <frequency> [-interval n]

  Prints the occurrence that follows the date for the given rule.
`
}

func (c *nextCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rule.date, "date", "", "Date of the current occurrence (YYYY-MM-DD)")
	f.StringVar(&c.rule.frequency, "freq", "monthly", "Frequency (daily, weekly, monthly, yearly)")
	f.IntVar(&c.rule.interval, "interval", 1, "Number of periods between occurrences")
}

func (c *nextCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	anchor, rule, err := c.rule.parse()
	if err != nil {
		return fail(subcommands.ExitUsageError, err)
	}

	next, err := recurrence.Next(anchor, rule)
	if err != nil {
		return fail(subcommands.ExitFailure, err)
	}

	fmt.Fprintln(c.out, next)
	return subcommands.ExitSuccess
}
