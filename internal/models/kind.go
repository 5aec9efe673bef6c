package models

import (
	"fmt"
	"strings"
)

// Kind is the balance effect of a record.
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
	KindDonation Kind = "donation"
	KindTax      Kind = "tax"
	KindOther    Kind = "other"
)

// ParseKind parses a kind name. The empty string is KindOther.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return KindOther, nil
	}

	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrKindUnknown, s)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer, KindDonation, KindTax, KindOther:
		return true
	}
	return false
}

// Effect is the sign a record of this kind has on a balance.
//
// Transfers move money without changing the total.
func (k Kind) Effect() int {
	switch k {
	case KindIncome:
		return 1
	case KindExpense, KindDonation, KindTax:
		return -1
	}
	return 0
}

// LinkRole is the part a record plays inside a link group.
type LinkRole string

const (
	LinkRoleNone       LinkRole = ""
	LinkRoleSource     LinkRole = "source"
	LinkRoleAllocation LinkRole = "allocation"
)

// Valid reports whether r is a role a linked record can have.
func (r LinkRole) Valid() bool {
	return r == LinkRoleSource || r == LinkRoleAllocation
}
