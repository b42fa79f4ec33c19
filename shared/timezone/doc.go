// Package timezone pins the application clock to APP_TIMEZONE.
//
// Instants (created_at, claimed_at, expiry deadlines) are taken with Now and rendered with Format.
// Calendar questions ("has the stay started?", "how far ahead is check-in?") go through Today,
// which yields the local date as a UTC midnight, the same shape stay dates are stored in:
//
//	if timezone.Today().Before(booking.CheckIn) {
//		return model.ErrStayNotStarted
//	}
//
// An unknown timezone name logs an error and leaves the package on UTC.
package timezone
