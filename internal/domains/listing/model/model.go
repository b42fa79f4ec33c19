package model

import (
	"stayledger/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldTitle     = "title"
	FieldCurrency  = "currency"
	FieldMaxGuests = "max_guests"
	FieldActive    = "active"
)

type Listing struct {
	ID           string          `db:"id"`
	OwnerID      string          `db:"owner_id"`
	Title        string          `db:"title"`
	NightlyPrice decimal.Decimal `db:"nightly_price"`
	CleaningFee  decimal.Decimal `db:"cleaning_fee"`
	Currency     string          `db:"currency"`
	MaxGuests    int             `db:"max_guests"`
	MinNights    int             `db:"min_nights"`
	MaxNights    int             `db:"max_nights"`
	Active       bool            `db:"active"`
	model.Metadata
}

// AllowsStay reports whether a stay of the given length fits the listing's policy.
// A MaxNights of zero means there is no upper bound.
func (l Listing) AllowsStay(nights int) bool {
	minNights := max(l.MinNights, 1)
	if nights < minNights {
		return false
	}

	return l.MaxNights <= 0 || nights <= l.MaxNights
}
