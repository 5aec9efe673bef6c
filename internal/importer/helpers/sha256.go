package helpers

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// defaultFraction is used for amounts without a known currency.
const defaultFraction = 2

// Sha256String calculates the SHA256 hash of a given string and returns its string representation.
func Sha256String(input string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
}

// NormalizeDescription folds case and collapses all whitespace so that two
// exports of the same statement line compare equal.
func NormalizeDescription(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// RoundAmount returns the magnitude of the amount rounded to the smallest
// unit of the currency, formatted with exactly that many decimal places.
func RoundAmount(amount decimal.Decimal, currency string) string {
	fraction := int32(defaultFraction)
	if c := money.GetCurrency(strings.ToUpper(strings.TrimSpace(currency))); c != nil {
		fraction = int32(c.Fraction)
	}

	return amount.Abs().StringFixed(fraction)
}

// Signature derives the deduplication key for a financial record.
//
// It only depends on the calendar date, the amount and the description.
// Identifiers assigned by a source or by the database are never part of it,
// the same real event can arrive through different sources.
func Signature(date types.Date, amount decimal.Decimal, description, currency string) string {
	return Sha256String(strings.Join([]string{
		date.String(),
		RoundAmount(amount, currency),
		NormalizeDescription(description),
	}, "|"))
}
