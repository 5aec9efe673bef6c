package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/config"
	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/importer/parser"
	"github.com/reckon-ledger/reckon/internal/models"
)

type classifyCmd struct {
	out      io.Writer
	cfg      config.Config
	existing string
	batch    string
	currency string
	raw      bool
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "find duplicates of an import file" }
func (*classifyCmd) Usage() string {
	return `reckon classify [-existing <file>] -batch <file> [-currency <code>]

  Classifies the records of the batch file against the records of the
  existing file and against each other. Files can be .csv, .xlsx or .json.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.existing, "existing", "", "File with the records that are already known")
	f.StringVar(&c.batch, "batch", "", "File with the records to import")
	f.StringVar(&c.currency, "currency", "", "Currency of the records. Defaults to DEFAULT_CURRENCY")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without rendering it")
}

// readFile parses the records from the file at path.
func readFile(path string, opts parser.Options) ([]importer.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parser.Parse(f, path, opts)
}

func (c *classifyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.batch == "" {
		return fail(subcommands.ExitUsageError, fmt.Errorf("-batch must be set"))
	}

	opts := c.cfg.Classify()
	if c.currency != "" {
		opts.Currency = strings.ToUpper(c.currency)
	}

	var existing []models.Record
	if c.existing != "" {
		raw, err := readFile(c.existing, parser.Options{Currency: opts.Currency})
		if err != nil {
			return fail(subcommands.ExitFailure, err)
		}

		for _, r := range raw {
			record := importer.ClassifiedRecord{RawRecord: r}.Record()
			record.ID = uuid.New()
			existing = append(existing, record)
		}
	}

	batch, err := readFile(c.batch, parser.Options{Currency: opts.Currency})
	if err != nil {
		return fail(subcommands.ExitFailure, err)
	}

	classified := importer.Classify(batch, existing, opts)

	rows := make([][]string, 0, len(classified))
	counts := map[importer.ConflictKind]int{}
	for i, r := range classified {
		counts[r.Conflict]++
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Date.String(),
			r.Amount.StringFixed(2),
			r.Description,
			string(r.Conflict),
		})
	}

	md := fmt.Sprintf("## %d records\n\n", len(classified))
	md += table([]string{"#", "Date", "Amount", "Description", "Conflict"}, rows)
	md += fmt.Sprintf("\n%d new, %d already stored, %d duplicated in the batch\n",
		counts[importer.ConflictNone], counts[importer.ConflictDatabase], counts[importer.ConflictBatchInternal])

	if err := printMarkdown(c.out, md, c.raw); err != nil {
		return fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}
