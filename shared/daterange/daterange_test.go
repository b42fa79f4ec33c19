package daterange_test

import (
	"errors"
	"stayledger/shared/daterange"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{name: "valid range", start: day("2025-06-01"), end: day("2025-06-05")},
		{name: "equal bounds", start: day("2025-06-01"), end: day("2025-06-01"), wantErr: true},
		{name: "reversed bounds", start: day("2025-06-05"), end: day("2025-06-01"), wantErr: true},
		{name: "zero start", end: day("2025-06-01"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := daterange.New(tt.start, tt.end)

			if tt.wantErr {
				assert.True(t, errors.Is(err, daterange.ErrInvalidRange))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_TruncatesToDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)

	r, err := daterange.New(time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC), time.Date(2025, 6, 3, 1, 0, 0, 0, loc))
	require.NoError(t, err)

	assert.Equal(t, day("2025-06-01"), r.Start)
	assert.Equal(t, day("2025-06-03"), r.End)
	assert.Equal(t, 2, r.Nights())
}

func TestParse(t *testing.T) {
	r, err := daterange.Parse("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Nights())
	assert.Equal(t, "[2025-06-01, 2025-06-05)", r.String())

	_, err = daterange.Parse("06/01/2025", "2025-06-05")
	assert.True(t, errors.Is(err, daterange.ErrInvalidRange))

	_, err = daterange.Parse("2025-06-05", "2025-06-01")
	assert.True(t, errors.Is(err, daterange.ErrInvalidRange))
}

func TestOverlaps(t *testing.T) {
	base, _ := daterange.Parse("2025-06-01", "2025-06-05")

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{name: "adjacent after", start: "2025-06-05", end: "2025-06-08", want: false},
		{name: "adjacent before", start: "2025-05-28", end: "2025-06-01", want: false},
		{name: "one night inside", start: "2025-06-04", end: "2025-06-06", want: true},
		{name: "enclosing", start: "2025-05-30", end: "2025-06-10", want: true},
		{name: "enclosed", start: "2025-06-02", end: "2025-06-03", want: true},
		{name: "identical", start: "2025-06-01", end: "2025-06-05", want: true},
		{name: "disjoint", start: "2025-07-01", end: "2025-07-05", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := daterange.Parse(tt.start, tt.end)
			require.NoError(t, err)

			assert.Equal(t, tt.want, base.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(base))
		})
	}
}

func TestContains(t *testing.T) {
	r, _ := daterange.Parse("2025-06-01", "2025-06-05")

	assert.True(t, r.Contains(day("2025-06-01")))
	assert.True(t, r.Contains(day("2025-06-04").Add(23*time.Hour)))
	assert.False(t, r.Contains(day("2025-06-05")))
	assert.False(t, r.Contains(day("2025-05-31")))
}
