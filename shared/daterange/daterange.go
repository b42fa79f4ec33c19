package daterange

import (
	"fmt"
	"stayledger/shared/constant"
	"stayledger/shared/failure"
	"time"
)

var ErrInvalidRange = failure.Validation("invalid_range", "check_out must be after check_in")

// Range is a half-open interval of calendar days [Start, End). Both bounds are UTC midnights.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: Date(start), End: Date(end)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}

	return r, nil
}

// Parse builds a Range from two YYYY-MM-DD strings.
func Parse(start, end string) (Range, error) {
	startDate, err := time.Parse(constant.DateOnlyFormat, start)
	if err != nil {
		return Range{}, failure.Validation(ErrInvalidRange.Reason, fmt.Sprintf("invalid date %q", start))
	}

	endDate, err := time.Parse(constant.DateOnlyFormat, end)
	if err != nil {
		return Range{}, failure.Validation(ErrInvalidRange.Reason, fmt.Sprintf("invalid date %q", end))
	}

	return New(startDate, endDate)
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || !r.Start.Before(r.End) {
		return ErrInvalidRange
	}

	return nil
}

func (r Range) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / constant.HoursPerDay)
}

// Overlaps is true iff the ranges share at least one night. Adjacent ranges do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r Range) Contains(day time.Time) bool {
	day = Date(day)

	return !day.Before(r.Start) && day.Before(r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(constant.DateOnlyFormat), r.End.Format(constant.DateOnlyFormat))
}
