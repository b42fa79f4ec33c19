package timezone

import (
	"stayledger/config"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		name = time.UTC.String()
	}

	if err := SetLocation(name); err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use IANA names like 'Europe/Lisbon' or 'America/New_York'")
	}
}

// SetLocation switches the application timezone. On error the location falls back to UTC.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLocation.Store(time.UTC)

		return err //nolint:wrapcheck
	}

	appLocation.Store(loc)

	return nil
}

// GetLocation returns the application timezone, UTC until one is set.
func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

// Now returns the current instant in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// Today is the calendar date in the application timezone, as a UTC midnight.
// Stay dates are stored the same way, so the two compare directly.
func Today() time.Time {
	return DateOf(Now())
}

// DateOf drops the clock of t after moving it to the application timezone.
func DateOf(t time.Time) time.Time {
	local := t.In(GetLocation())

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as a wall clock in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
