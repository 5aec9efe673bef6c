package importer

import (
	"github.com/reckon-ledger/reckon/internal/importer/helpers"
	"github.com/reckon-ledger/reckon/internal/models"
)

// Signature returns the deduplication key of the raw record.
// defaultCurrency is used when the record has no currency.
func (r RawRecord) Signature(defaultCurrency string) string {
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return helpers.Signature(r.Date, r.Amount, r.Description, currency)
}

// RecordSignature returns the deduplication key of a stored record.
//
// It is computed from the record's contents and equals the ImportHash
// written when the record was saved.
func RecordSignature(r models.Record) string {
	return helpers.Signature(r.Date, r.Amount, r.Description, r.Currency)
}
