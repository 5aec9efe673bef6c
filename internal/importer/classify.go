package importer

import (
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the magnitude below which records are dropped.
var DefaultEpsilon = decimal.RequireFromString("0.001")

// ClassifyOptions configure the conflict classification.
type ClassifyOptions struct {
	Epsilon  decimal.Decimal // Records with a smaller magnitude are dropped, DefaultEpsilon when zero
	Currency string          // Currency for records that do not specify one
}

func (o ClassifyOptions) epsilon() decimal.Decimal {
	if o.Epsilon.IsZero() {
		return DefaultEpsilon
	}
	return o.Epsilon.Abs()
}

// Classify checks a batch of raw records against the existing records
// and against each other.
//
// Records with an amount smaller than the epsilon are dropped. All other
// records are returned in input order. A record whose signature matches an
// existing record is a database conflict. A record whose signature was
// already seen earlier in the batch is a batch internal conflict. When both
// apply, the database conflict is reported. Conflicting records are excluded
// by default, the user can include them again.
func Classify(batch []RawRecord, existing []models.Record, opts ClassifyOptions) []ClassifiedRecord {
	epsilon := opts.epsilon()

	stored := make(map[string][]uuid.UUID, len(existing))
	for _, r := range existing {
		signature := RecordSignature(r)
		stored[signature] = append(stored[signature], r.ID)
	}

	seen := make(map[string]bool, len(batch))
	classified := make([]ClassifiedRecord, 0, len(batch))

	for _, raw := range batch {
		if raw.Amount.Abs().LessThan(epsilon) {
			log.Debug().Str("date", raw.Date.String()).Str("description", raw.Description).Msg("dropped record with zero amount")
			continue
		}

		if raw.Currency == "" {
			raw.Currency = opts.Currency
		}

		c := ClassifiedRecord{
			RawRecord:    raw,
			Signature:    raw.Signature(opts.Currency),
			Conflict:     ConflictNone,
			DuplicateIDs: make([]uuid.UUID, 0),
			Kind:         kindFromSign(raw.Amount),
		}

		if ids, ok := stored[c.Signature]; ok {
			c.Conflict = ConflictDatabase
			c.Excluded = true
			c.DuplicateIDs = append(c.DuplicateIDs, ids...)
		} else if seen[c.Signature] {
			c.Conflict = ConflictBatchInternal
			c.Excluded = true
		}

		seen[c.Signature] = true
		classified = append(classified, c)
	}

	return classified
}

// Signatures returns the signatures of all records in the batch.
func Signatures(batch []RawRecord, defaultCurrency string) []string {
	signatures := make([]string, 0, len(batch))
	for _, r := range batch {
		signatures = append(signatures, r.Signature(defaultCurrency))
	}
	return signatures
}
