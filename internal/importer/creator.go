package importer

import (
	"slices"

	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateResult is the outcome of an import.
type CreateResult struct {
	Created   []models.Record    // Records that have been stored
	Conflicts []ClassifiedRecord // Records that were not stored because a duplicate was stored after the preview
}

// Existing loads the stored records that share a signature with a record of the batch.
func Existing(db *gorm.DB, batch []RawRecord, defaultCurrency string) ([]models.Record, error) {
	var existing []models.Record
	if len(batch) == 0 {
		return existing, nil
	}

	err := db.Where("import_hash IN ?", Signatures(batch, defaultCurrency)).Find(&existing).Error
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// Create stores all records that are not excluded.
//
// The records are classified again against the database inside the
// transaction. A record that now conflicts with a stored record that was
// not known when the preview was made is not stored and is returned in
// the conflicts instead. Conflicts the user has seen and decided to
// import anyway are stored.
func Create(db *gorm.DB, records []ClassifiedRecord, opts ClassifyOptions) (CreateResult, error) {
	result := CreateResult{
		Created:   make([]models.Record, 0),
		Conflicts: make([]ClassifiedRecord, 0),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		included := make([]ClassifiedRecord, 0, len(records))
		batch := make([]RawRecord, 0, len(records))
		for _, r := range records {
			if r.Excluded {
				continue
			}
			included = append(included, r)
			batch = append(batch, r.RawRecord)
		}

		existing, err := Existing(tx, batch, opts.Currency)
		if err != nil {
			return err
		}

		current := make(map[string][]uuid.UUID, len(existing))
		for _, r := range existing {
			signature := RecordSignature(r)
			current[signature] = append(current[signature], r.ID)
		}

		for _, r := range included {
			if r.Currency == "" {
				r.Currency = opts.Currency
			}

			signature := r.RawRecord.Signature(opts.Currency)
			if newDuplicates := unseen(current[signature], r.DuplicateIDs); len(newDuplicates) > 0 {
				log.Debug().Str("signature", signature).Int("duplicates", len(newDuplicates)).Msg("record was stored after the preview, skipping")

				r.Signature = signature
				r.Conflict = ConflictDatabase
				r.Excluded = true
				r.DuplicateIDs = append(r.DuplicateIDs, newDuplicates...)
				result.Conflicts = append(result.Conflicts, r)
				continue
			}

			record := r.Record()
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			result.Created = append(result.Created, record)
		}

		return nil
	})
	if err != nil {
		return CreateResult{}, err
	}

	return result, nil
}

// unseen returns the ids that are not in known.
func unseen(ids, known []uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for _, id := range ids {
		if !slices.Contains(known, id) {
			out = append(out, id)
		}
	}
	return out
}
