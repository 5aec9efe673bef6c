// Package csvimport parses bank statement exports in CSV format.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/importer/parser/table"
)

// Options configure the CSV parser.
type Options struct {
	Currency string // Currency of all records in the file
	Comma    rune   // Field delimiter. Detected from the header when 0
}

// Parse parses a CSV file with a header row.
func Parse(f io.Reader, opts Options) ([]importer.RawRecord, error) {
	buffered := bufio.NewReader(f)

	comma := opts.Comma
	if comma == 0 {
		comma = detectComma(buffered)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	records := make([]importer.RawRecord, 0)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return records, nil
	}
	if err != nil {
		return []importer.RawRecord{}, fmt.Errorf("could not read the CSV header: %w", err)
	}

	columns, err := table.Map(header)
	if err != nil {
		return csvReadError(reader, err)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		// Parse errors already contain the line number
		if err != nil {
			return []importer.RawRecord{}, fmt.Errorf("could not read line in CSV: %w", err)
		}

		if table.Blank(row) {
			continue
		}

		r, err := columns.Record(row, opts.Currency)
		if err != nil {
			return csvReadError(reader, err)
		}

		records = append(records, r)
	}

	return records, nil
}

// detectComma returns ';' for files whose header uses semicolons, ',' otherwise.
func detectComma(r *bufio.Reader) rune {
	line, _ := r.Peek(r.Size())
	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}

	if strings.Count(string(line), ";") > strings.Count(string(line), ",") {
		return ';'
	}
	return ','
}

// csvReadError returns an error with the line of the input the error
// occurred in included in the message.
func csvReadError(r *csv.Reader, err error) ([]importer.RawRecord, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(0)

	return []importer.RawRecord{}, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
