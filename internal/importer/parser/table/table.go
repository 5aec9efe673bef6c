// Package table maps rows of tabular import files to raw records.
//
// The first row of a table is the header. Columns are matched by name,
// ignoring case and surrounding whitespace.
package table

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

var (
	ErrNoDateColumn     = errors.New("the header has no date column")
	ErrNoAmountColumn   = errors.New("the header needs an amount column or inflow and outflow columns")
	ErrInflowAndOutflow = errors.New("both outflow and inflow are set for the record")
	ErrNoAmount         = errors.New("no amount is set for the record")
	ErrInvalidDate      = errors.New("could not parse date")
	ErrInvalidAmount    = errors.New("could not be parsed to a decimal")
)

// descriptionColumns are the columns a description is taken from, in order of preference.
var descriptionColumns = []string{"description", "payee", "memo"}

// DateFormats are the formats dates are accepted in, in the order they are tried.
var DateFormats = []string{"2006-01-02", "01/02/2006", "02.01.2006"}

// Columns is the mapping of a header row to record fields.
type Columns struct {
	date         int
	amount       int
	inflow       int
	outflow      int
	id           int
	descriptions []int // In order of preference
	extra        map[int]string
}

// Map maps the header row.
func Map(header []string) (Columns, error) {
	c := Columns{date: -1, amount: -1, inflow: -1, outflow: -1, id: -1, extra: make(map[int]string)}

	named := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := named[name]; ok {
			c.extra[i] = strings.TrimSpace(h)
			continue
		}
		named[name] = i

		switch name {
		case "date":
			c.date = i
		case "amount":
			c.amount = i
		case "inflow":
			c.inflow = i
		case "outflow":
			c.outflow = i
		case "id":
			c.id = i
		case "description", "payee", "memo":
		default:
			c.extra[i] = strings.TrimSpace(h)
		}
	}

	for _, name := range descriptionColumns {
		if i, ok := named[name]; ok {
			c.descriptions = append(c.descriptions, i)
		}
	}

	if c.date == -1 {
		return Columns{}, ErrNoDateColumn
	}

	if c.amount == -1 && (c.inflow == -1 || c.outflow == -1) {
		return Columns{}, ErrNoAmountColumn
	}

	return c, nil
}

// DateColumn returns the index of the date column.
func (c Columns) DateColumn() int {
	return c.date
}

// Record converts a row to a raw record.
func (c Columns) Record(row []string, currency string) (importer.RawRecord, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := ParseDate(cell(c.date))
	if err != nil {
		return importer.RawRecord{}, err
	}

	amount, err := c.parseAmount(cell)
	if err != nil {
		return importer.RawRecord{}, err
	}

	r := importer.RawRecord{
		Date:     date,
		Amount:   amount,
		Currency: currency,
		SourceID: cell(c.id),
	}

	for _, i := range c.descriptions {
		if d := cell(i); d != "" {
			r.Description = d
			break
		}
	}

	for i, name := range c.extra {
		if v := cell(i); v != "" {
			if r.Metadata == nil {
				r.Metadata = make(map[string]string)
			}
			r.Metadata[name] = v
		}
	}

	return r, nil
}

func (c Columns) parseAmount(cell func(int) string) (decimal.Decimal, error) {
	if c.amount != -1 {
		if cell(c.amount) == "" {
			return decimal.Zero, ErrNoAmount
		}

		amount, err := ParseAmount(cell(c.amount))
		if err != nil {
			return decimal.Zero, fmt.Errorf("amount %w", ErrInvalidAmount)
		}
		return amount, nil
	}

	inflow, outflow := cell(c.inflow), cell(c.outflow)
	switch {
	case inflow != "" && outflow != "":
		return decimal.Zero, ErrInflowAndOutflow
	case inflow == "" && outflow == "":
		return decimal.Zero, ErrNoAmount
	case outflow != "":
		amount, err := ParseAmount(outflow)
		if err != nil {
			return decimal.Zero, fmt.Errorf("outflow %w", ErrInvalidAmount)
		}
		return amount.Abs().Neg(), nil
	}

	amount, err := ParseAmount(inflow)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inflow %w", ErrInvalidAmount)
	}
	return amount.Abs(), nil
}

// ParseDate parses a date in any of the DateFormats.
func ParseDate(s string) (types.Date, error) {
	for _, format := range DateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return types.DateOf(t), nil
		}
	}

	return types.Date{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
}

// ParseAmount parses a decimal amount. Thousands separators are removed,
// a single comma without a dot is read as the decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ",") == 1:
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}

// Blank reports whether all cells of the row are empty.
func Blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
