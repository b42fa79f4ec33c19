package dto

import (
	listingModel "stayledger/internal/domains/listing/model"
	"stayledger/internal/domains/pricing/model"
	"stayledger/shared/daterange"
)

type QuoteRequest struct {
	ListingID  string `json:"listing_id"  validate:"required,uuid"`
	CheckIn    string `json:"check_in"    validate:"required,date"`
	CheckOut   string `json:"check_out"   validate:"required,date"`
	Guests     int    `json:"guests"      validate:"required,min=1"`
	CouponCode string `json:"coupon_code" validate:"omitempty,max=50"`
}

// QuoteInput is a stay to price against an already loaded listing.
type QuoteInput struct {
	Listing    listingModel.Listing
	Range      daterange.Range
	Guests     int
	CouponCode string
	UserID     string
}

type QuoteResponse struct {
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
	model.PriceBreakdown
}
