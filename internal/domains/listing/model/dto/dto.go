package dto

import (
	"stayledger/internal/domains/listing/model"
	"stayledger/shared"
	gDto "stayledger/shared/dto"
	gModel "stayledger/shared/model"
	"stayledger/shared/money"
	"stayledger/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateListingRequest struct {
	Title        string          `json:"title"         validate:"required,max=200"`
	NightlyPrice decimal.Decimal `json:"nightly_price" validate:"gt=0"`
	CleaningFee  decimal.Decimal `json:"cleaning_fee"  validate:"omitempty,gte=0"`
	Currency     string          `json:"currency"      validate:"required,currency"`
	MaxGuests    int             `json:"max_guests"    validate:"required,min=1"`
	MinNights    int             `json:"min_nights"    validate:"omitempty,min=1"`
	MaxNights    int             `json:"max_nights"    validate:"omitempty,min=0,gtefield=MinNights"`
	Active       *bool           `json:"active"        validate:"omitempty"`
}

func (c *CreateListingRequest) ToModel(user string) model.Listing {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Listing{
		ID:           uuid.NewString(),
		OwnerID:      user,
		Title:        c.Title,
		NightlyPrice: money.Round(c.NightlyPrice),
		CleaningFee:  money.Round(c.CleaningFee),
		Currency:     money.NormalizeCurrency(c.Currency),
		MaxGuests:    c.MaxGuests,
		MinNights:    max(c.MinNights, 1),
		MaxNights:    c.MaxNights,
		Active:       active,
		Metadata:     gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateListingRequest struct {
	Title        string           `db:"title"         json:"title"         validate:"omitempty,max=200"`
	NightlyPrice *decimal.Decimal `db:"nightly_price" json:"nightly_price" validate:"omitempty,gt=0"`
	CleaningFee  *decimal.Decimal `db:"cleaning_fee"  json:"cleaning_fee"  validate:"omitempty,gte=0"`
	MaxGuests    *int             `db:"max_guests"    json:"max_guests"    validate:"omitempty,min=1"`
	MinNights    *int             `db:"min_nights"    json:"min_nights"    validate:"omitempty,min=1"`
	MaxNights    *int             `db:"max_nights"    json:"max_nights"    validate:"omitempty,min=0"`
	Active       *bool            `db:"active"        json:"active"        validate:"omitempty"`
}

type ListingResponse struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Title        string          `json:"title"`
	NightlyPrice decimal.Decimal `json:"nightly_price"`
	CleaningFee  decimal.Decimal `json:"cleaning_fee"`
	Currency     string          `json:"currency"`
	MaxGuests    int             `json:"max_guests"`
	MinNights    int             `json:"min_nights"`
	MaxNights    int             `json:"max_nights"`
	Active       bool            `json:"active"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Title = model.Title
	r.NightlyPrice = model.NightlyPrice
	r.CleaningFee = model.CleaningFee
	r.Currency = model.Currency
	r.MaxGuests = model.MaxGuests
	r.MinNights = model.MinNights
	r.MaxNights = model.MaxNights
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetListingsResponse) FromModels(models []model.Listing, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Listings = make([]ListingResponse, len(models))
	for i, mod := range models {
		r.Listings[i].FromModel(mod)
	}
}
