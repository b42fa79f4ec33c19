package shared_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayledger/shared"
	cacheMocks "stayledger/shared/cache/mocks"
	"stayledger/shared/constant"
	"stayledger/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input string
		want  *bool
	}{
		{input: "", want: nil},
		{input: "true", want: ptr(true)},
		{input: "0", want: ptr(false)},
		{input: "FALSE", want: ptr(false)},
		{input: "maybe", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name         string
		total, limit int
		want         int
	}{
		{name: "empty result", total: 0, limit: 10, want: 1},
		{name: "exact fit", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "no limit", total: 5, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

type listingPatch struct {
	Title     string           `db:"title"`
	Price     *decimal.Decimal `db:"nightly_price"`
	MaxGuests *int             `db:"max_guests"`
	Active    *bool            `db:"active"`
	Note      string
	Internal  string `db:"-"`
}

func TestTransformFields(t *testing.T) {
	price := decimal.RequireFromString("120.50")

	fields := shared.TransformFields(listingPatch{
		Title:    "Harbour loft",
		Price:    &price,
		Active:   ptr(false),
		Note:     "no tag",
		Internal: "skipped",
	}, "host-1")

	assert.Equal(t, "Harbour loft", fields["title"])
	assert.Equal(t, price, fields["nightly_price"])
	assert.Equal(t, false, fields["active"])
	assert.NotContains(t, fields, "max_guests")
	assert.NotContains(t, fields, "-")
	assert.Equal(t, "host-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
	assert.Len(t, fields, 5)
}

func TestTransformFields_Pointer(t *testing.T) {
	fields := shared.TransformFields(&listingPatch{MaxGuests: ptr(4)}, "admin-1")

	assert.Equal(t, 4, fields["max_guests"])
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("booking-1", "id", "bookings")
	where, args := filter.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "booking-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "listing:get:listing-1", shared.BuildCacheKey("listing:get", "listing-1"))
	assert.Equal(t, "listing:gets", shared.BuildCacheKey("listing:gets"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "check_in", SortDir: dto.SortDirAsc}
	byListing := func(id string) dto.FilterGroup {
		return dto.FilterGroup{Filters: []any{
			dto.Filter{Field: "listing_id", Operator: dto.FilterOperatorEq, Value: id},
		}}
	}

	key := shared.BuildCacheKeyWithQuery("booking:gets", params, byListing("listing-1"))

	assert.Equal(t, key, shared.BuildCacheKeyWithQuery("booking:gets", params, byListing("listing-1")))
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("booking:gets", params, byListing("listing-2")))
	assert.Regexp(t, `^booking:gets:1:10:check_in:ASC:[0-9a-f]{16}$`, key)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "booking:gets:*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "booking:count:*").Return(errors.New("redis down"))

	require.NotPanics(t, func() {
		shared.InvalidateCaches(context.Background(), mockCache, "booking:gets")
		shared.InvalidateCaches(context.Background(), mockCache, "booking:count")
	})
}

func ptr[T any](v T) *T {
	return &v
}
