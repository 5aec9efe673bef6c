// Package jsonimport parses records from JSON documents.
//
// The rows and their fields are selected with JSONPath expressions, so
// that exports of different services can be read without a parser each.
package jsonimport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/importer/parser/table"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

var (
	ErrNoRows       = errors.New("the root path does not select a list of rows")
	ErrMissingField = errors.New("the field is missing")
)

// Options configure the JSON parser. Empty paths use the defaults.
type Options struct {
	Currency    string // Currency of all records in the document
	Root        string // Path selecting the rows, defaults to $[*]
	Date        string // Path of the date inside a row, defaults to $.date
	Amount      string // Path of the amount inside a row, defaults to $.amount
	Description string // Path of the description inside a row, defaults to $.description
	ID          string // Path of the source ID inside a row, defaults to $.id
}

func (o Options) withDefaults() Options {
	set := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}

	set(&o.Root, "$[*]")
	set(&o.Date, "$.date")
	set(&o.Amount, "$.amount")
	set(&o.Description, "$.description")
	set(&o.ID, "$.id")
	return o
}

// Parse parses the rows selected by the root path.
func Parse(r io.Reader, opts Options) ([]importer.RawRecord, error) {
	opts = opts.withDefaults()

	decoder := json.NewDecoder(r)
	// Numbers are kept as text so that amounts do not pass through float64
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return []importer.RawRecord{}, nil
		}
		return nil, fmt.Errorf("could not decode JSON: %w", err)
	}

	selected, err := jsonpath.Get(opts.Root, document)
	if err != nil {
		return nil, fmt.Errorf("error evaluating root path %q: %w", opts.Root, err)
	}

	rows, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoRows, opts.Root)
	}

	used := map[string]bool{}
	for _, path := range []string{opts.Date, opts.Amount, opts.Description, opts.ID} {
		used[strings.TrimPrefix(path, "$.")] = true
	}

	records := make([]importer.RawRecord, 0, len(rows))
	for i, row := range rows {
		record, err := parseRow(row, opts, used)
		if err != nil {
			return nil, fmt.Errorf("error in row %d of the JSON document: %w", i+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRow(row any, opts Options, used map[string]bool) (importer.RawRecord, error) {
	date, err := field(opts.Date, row)
	if err != nil {
		return importer.RawRecord{}, fmt.Errorf("date: %w", err)
	}

	d, err := table.ParseDate(date)
	if err != nil {
		// Timestamps are accepted as well
		if d, err = types.ParseDate(date); err != nil {
			return importer.RawRecord{}, err
		}
	}

	amount, err := field(opts.Amount, row)
	if err != nil {
		return importer.RawRecord{}, fmt.Errorf("amount: %w", err)
	}

	a, err := table.ParseAmount(amount)
	if err != nil {
		return importer.RawRecord{}, fmt.Errorf("amount %w", table.ErrInvalidAmount)
	}

	// Description and ID are optional
	description, _ := field(opts.Description, row)
	id, _ := field(opts.ID, row)

	record := importer.RawRecord{
		Date:        d,
		Amount:      a,
		Description: description,
		Currency:    opts.Currency,
		SourceID:    id,
	}

	if object, ok := row.(map[string]any); ok {
		for key, value := range object {
			if used[key] {
				continue
			}

			if s, ok := scalar(value); ok && s != "" {
				if record.Metadata == nil {
					record.Metadata = make(map[string]string)
				}
				record.Metadata[key] = s
			}
		}
	}

	return record, nil
}

// field evaluates path on the row and returns the value as text.
func field(path string, row any) (string, error) {
	value, err := jsonpath.Get(path, row)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, path)
	}

	// Wildcards and filters return lists, the first element is used
	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return "", fmt.Errorf("%w: %s", ErrMissingField, path)
		}
		value = list[0]
	}

	s, ok := scalar(value)
	if !ok {
		return "", fmt.Errorf("the value at %s is not a string or number", path)
	}

	return strings.TrimSpace(s), nil
}

func scalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return decimal.NewFromFloat(v).String(), true
	case bool:
		return fmt.Sprint(v), true
	}
	return "", false
}
