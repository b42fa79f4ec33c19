package model

import (
	"net/http"
	"stayledger/shared/failure"
)

var ErrListingNotFound = failure.New(http.StatusNotFound, failure.KindNotFound, "listing_not_found", "listing not found")
