// Package parser selects the parser for an import file by its name.
package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/importer/parser/csvimport"
	"github.com/reckon-ledger/reckon/internal/importer/parser/jsonimport"
	"github.com/reckon-ledger/reckon/internal/importer/parser/xlsximport"
)

var ErrUnsupportedFormat = errors.New("only files of the following types are supported: .csv, .xlsx, .json")

// Options configure the parsers. Fields that do not apply to a format are ignored.
type Options struct {
	Currency string // Currency of all records in the file
	Sheet    string // Sheet to read for .xlsx files
	JSONRoot string // JSONPath selecting the rows for .json files
}

// Supported reports whether a file with this name can be parsed.
func Supported(name string) bool {
	switch format(name) {
	case ".csv", ".xlsx", ".json":
		return true
	}
	return false
}

func format(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Parse reads the raw records from r with the parser for the suffix of name.
func Parse(r io.Reader, name string, opts Options) ([]importer.RawRecord, error) {
	switch format(name) {
	case ".csv":
		return csvimport.Parse(r, csvimport.Options{Currency: opts.Currency})
	case ".xlsx":
		return xlsximport.Parse(r, xlsximport.Options{Currency: opts.Currency, Sheet: opts.Sheet})
	case ".json":
		return jsonimport.Parse(r, jsonimport.Options{Currency: opts.Currency, Root: opts.JSONRoot})
	}

	return nil, fmt.Errorf("%w, got %q", ErrUnsupportedFormat, name)
}
