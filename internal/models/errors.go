package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrAmountNegative        = errors.New("the amount must not be negative, the direction of a record is defined by its kind")
	ErrKindUnknown           = errors.New("the kind is not one of income, expense, transfer, donation, tax, other")
	ErrLinkRoleUnknown       = errors.New("the link role must be one of source, allocation")
	ErrCategoryNameNotUnique = errors.New("the category name must be unique")
	ErrScheduleDateMissing   = errors.New("a schedule needs a date to start from")
)
