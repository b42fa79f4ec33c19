package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayledger/shared/timezone"
)

func TestDateOf(t *testing.T) {
	require.NoError(t, timezone.SetLocation("America/New_York"))
	t.Cleanup(func() { _ = timezone.SetLocation("UTC") })

	// 02:00 UTC on June 2nd is still June 1st in New York.
	instant := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), timezone.DateOf(instant))
	assert.Equal(t, "2025-06-01 22:00", timezone.Format(instant, "2006-01-02 15:04"))
}

func TestToday(t *testing.T) {
	require.NoError(t, timezone.SetLocation("UTC"))

	today := timezone.Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Zero(t, today.Hour())
	assert.Equal(t, time.Now().UTC().Day(), today.Day())
}

func TestSetLocation_Unknown(t *testing.T) {
	err := timezone.SetLocation("Mars/Olympus_Mons")
	t.Cleanup(func() { _ = timezone.SetLocation("UTC") })

	require.Error(t, err)
	assert.Equal(t, time.UTC, timezone.GetLocation())
}

func TestParse(t *testing.T) {
	require.NoError(t, timezone.SetLocation("Europe/Lisbon"))
	t.Cleanup(func() { _ = timezone.SetLocation("UTC") })

	parsed, err := timezone.Parse("2006-01-02 15:04", "2025-01-15 09:30")

	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", parsed.Location().String())
	assert.Equal(t, 9, parsed.Hour())
}
