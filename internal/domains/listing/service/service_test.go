package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayledger/config"
	"stayledger/infras/otel/mocks"
	listingMocks "stayledger/internal/domains/listing/mocks"
	"stayledger/internal/domains/listing/model"
	"stayledger/internal/domains/listing/model/dto"
	"stayledger/internal/domains/listing/service"
	"stayledger/shared/cache"
	cacheMocks "stayledger/shared/cache/mocks"
	"stayledger/shared/constant"
	"stayledger/shared/failure"
)

func newService(t *testing.T) (service.Listing, *listingMocks.MockListing) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo
}

func hostContext(user, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, user)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestListingService_Create(t *testing.T) {
	svc, mockRepo := newService(t)

	req := dto.CreateListingRequest{
		Title:        "Beach house",
		NightlyPrice: decimal.RequireFromString("100.005"),
		Currency:     "usd",
		MaxGuests:    4,
	}

	var inserted model.Listing
	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l model.Listing) error {
			inserted = l

			return nil
		})

	res, err := svc.Create(hostContext("host-1", constant.RoleHost), req)
	require.NoError(t, err)

	assert.Equal(t, "host-1", inserted.OwnerID)
	assert.Equal(t, "USD", inserted.Currency)
	assert.Equal(t, "100.01", inserted.NightlyPrice.StringFixed(2))
	assert.Equal(t, 1, inserted.MinNights)
	assert.True(t, inserted.Active)
	assert.Equal(t, inserted.ID, res.ID)
}

func TestListingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*listingMocks.MockListing)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "listing-1", Title: "Cabin"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{}, nil)
			},
			wantErr: model.ErrListingNotFound,
		},
		{
			name: "repository error",
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{}, errors.New("database error"))
			},
			wantErr: errors.New("failed to get listing: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo := newService(t)
			tt.setupMock(mockRepo)

			res, err := svc.Get(context.Background(), "listing-1")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Cabin", res.Title)
		})
	}
}

func TestListingService_Update(t *testing.T) {
	current := model.Listing{ID: "listing-1", OwnerID: "host-1", MinNights: 2, MaxNights: 10}
	three := 3
	one := 1

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateListingRequest
		setupMock func(*listingMocks.MockListing)
		wantCode  int
	}{
		{
			name: "owner updates",
			ctx:  hostContext("host-1", constant.RoleHost),
			req:  dto.UpdateListingRequest{Title: "Renamed"},
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				m.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "Renamed", fields["title"])
						assert.Equal(t, "host-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "other host is rejected",
			ctx:  hostContext("host-2", constant.RoleHost),
			req:  dto.UpdateListingRequest{Title: "Renamed"},
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			},
			wantCode: 403,
		},
		{
			name: "max nights below min nights",
			ctx:  hostContext("host-1", constant.RoleHost),
			req:  dto.UpdateListingRequest{MaxNights: &one, MinNights: &three},
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			},
			wantCode: 400,
		},
		{
			name: "missing listing",
			ctx:  hostContext("admin-1", constant.RoleAdmin),
			req:  dto.UpdateListingRequest{Title: "Renamed"},
			setupMock: func(m *listingMocks.MockListing) {
				m.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo := newService(t)
			tt.setupMock(mockRepo)

			err := svc.Update(tt.ctx, tt.req, "listing-1")
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}
