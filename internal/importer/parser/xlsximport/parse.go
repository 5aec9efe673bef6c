// Package xlsximport parses bank statement exports in Excel format.
package xlsximport

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/importer/parser/table"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/xuri/excelize/v2"
)

var ErrNoSheet = errors.New("the workbook does not contain any sheet")

// Options configure the XLSX parser.
type Options struct {
	Currency string // Currency of all records in the workbook
	Sheet    string // Name of the sheet to read. The first sheet when empty
}

// Parse parses the first sheet of a workbook. The first row is the header.
func Parse(r io.Reader, opts Options) ([]importer.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoSheet
		}
		sheet = sheets[0]
	}

	// Raw values keep dates as serial numbers instead of the display format of the cell
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
	}

	records := make([]importer.RawRecord, 0)
	if len(rows) == 0 {
		return records, nil
	}

	columns, err := table.Map(rows[0])
	if err != nil {
		return nil, rowError(sheet, 1, err)
	}

	for i, row := range rows[1:] {
		if table.Blank(row) {
			continue
		}

		if c := columns.DateColumn(); c < len(row) {
			row[c] = serialDate(row[c])
		}

		record, err := columns.Record(row, opts.Currency)
		if err != nil {
			return nil, rowError(sheet, i+2, err)
		}

		records = append(records, record)
	}

	return records, nil
}

// serialDate converts an Excel serial date to YYYY-MM-DD. Other values
// are returned unchanged.
func serialDate(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}

	return types.DateOf(t).String()
}

func rowError(sheet string, row int, err error) error {
	return fmt.Errorf("error in row %d of sheet %q: %w", row, sheet, err)
}
