package model

const (
	CacheGetBooking          = "booking:get"
	CacheGetAllBooking       = "booking:gets"
	CacheCountBooking        = "booking:count"
	CacheBookingAvailability = "booking:availability"
)
