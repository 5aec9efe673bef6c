package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/config"
	"github.com/reckon-ledger/reckon/internal/link"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/shopspring/decimal"
)

type reconcileCmd struct {
	out     io.Writer
	cfg     config.Config
	amounts string
	roles   string
	raw     bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "check whether a group of amounts balances" }
func (*reconcileCmd) Usage() string {
	return `reckon reconcile -amounts <a,b,...> [-roles <source,allocation,...>]

  Checks whether the sources of a link group match its allocations.
  Without -roles, the largest amount is used as the source.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amounts, "amounts", "", "Comma separated amounts")
	f.StringVar(&c.roles, "roles", "", "Comma separated roles, one per amount")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without rendering it")
}

func (c *reconcileCmd) records() ([]models.Record, error) {
	var records []models.Record
	for _, s := range strings.Split(c.amounts, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		amount, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", s, err)
		}

		r := models.Record{Amount: amount.Abs()}
		r.ID = uuid.New()
		records = append(records, r)
	}

	return records, nil
}

func (c *reconcileCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	records, err := c.records()
	if err != nil {
		return fail(subcommands.ExitUsageError, err)
	}

	roles := link.SuggestRoles(records)
	if c.roles != "" {
		given := strings.Split(c.roles, ",")
		if len(given) != len(records) {
			return fail(subcommands.ExitUsageError, fmt.Errorf("got %d roles for %d amounts", len(given), len(records)))
		}

		for i, r := range records {
			roles[r.ID] = link.Role(strings.TrimSpace(given[i]))
		}
	}

	result, err := link.Reconcile(records, roles, link.Options{Tolerance: c.cfg.Tolerance()})
	if err != nil {
		return fail(subcommands.ExitFailure, err)
	}

	rows := make([][]string, 0, len(result.Records))
	for i, r := range result.Records {
		rows = append(rows, []string{strconv.Itoa(i + 1), r.Amount.String(), string(r.LinkRole), string(r.Kind)})
	}

	md := "## Link group\n\n" + table([]string{"#", "Amount", "Role", "Kind"}, rows)

	b := result.Balance
	if b.Balanced {
		md += fmt.Sprintf("\nBalanced: sources %s, allocations %s\n", b.Sources, b.Allocations)
	} else {
		md += fmt.Sprintf("\n**Not balanced**: sources %s, allocations %s, difference %s\n", b.Sources, b.Allocations, b.Difference)
	}

	if err := printMarkdown(c.out, md, c.raw); err != nil {
		return fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}
