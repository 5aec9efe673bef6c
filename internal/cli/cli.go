// Package cli contains the subcommands of the reckon command line tool.
//
// The commands run the projection, classification and reconciliation
// engines on local input without a server or database.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/reckon-ledger/reckon/internal/config"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
)

// Register registers all subcommands with the commander.
func Register(c *subcommands.Commander, cfg config.Config) {
	c.Register(&nextCmd{out: os.Stdout}, "schedules")
	c.Register(&projectCmd{out: os.Stdout, cfg: cfg}, "schedules")
	c.Register(&classifyCmd{out: os.Stdout, cfg: cfg}, "import")
	c.Register(&reconcileCmd{out: os.Stdout, cfg: cfg}, "links")
}

// printMarkdown writes md to out. Unless raw is set, it is rendered
// for the terminal first.
func printMarkdown(out io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(out, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("could not create markdown renderer: %w", err)
	}

	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("could not render markdown: %w", err)
	}

	_, err = io.WriteString(out, rendered)
	return err
}

// ruleFlags are the flags describing a schedule.
type ruleFlags struct {
	date      string
	frequency string
	interval  int
	end       string
}

func (f *ruleFlags) parse() (types.Date, recurrence.Rule, error) {
	anchor, err := types.ParseDate(f.date)
	if err != nil {
		return types.Date{}, recurrence.Rule{}, fmt.Errorf("invalid -date: %w", err)
	}

	frequency, err := recurrence.ParseFrequency(f.frequency)
	if err != nil {
		return types.Date{}, recurrence.Rule{}, err
	}

	rule := recurrence.NewRule(frequency).Every(f.interval)
	if f.end != "" {
		end, err := types.ParseDate(f.end)
		if err != nil {
			return types.Date{}, recurrence.Rule{}, fmt.Errorf("invalid -end: %w", err)
		}
		rule = rule.Until(end)
	}

	return anchor, rule, nil
}

// table renders a markdown table.
func table(header []string, rows [][]string) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return b.String()
}

// fail prints the error and returns the exit status.
func fail(status subcommands.ExitStatus, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return status
}
