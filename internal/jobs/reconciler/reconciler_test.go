package reconciler_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayledger/config"
	"stayledger/infras/otel/mocks"
	"stayledger/infras/s3"
	s3Mocks "stayledger/infras/s3/mocks"
	bookingMocks "stayledger/internal/domains/booking/service/mocks"
	"stayledger/internal/domains/payment/model/dto"
	paymentMocks "stayledger/internal/domains/payment/service/mocks"
	"stayledger/internal/jobs/reconciler"
	"stayledger/shared/constant"
)

func TestReconciler_RunOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		upload    bool
		setupMock func(payments *paymentMocks.MockPayment, bookings *bookingMocks.MockBooking, storage *s3Mocks.MockS3)
		wantErr   string
		wantSteps map[string]int
	}{
		{
			name: "every step runs in order",
			setupMock: func(payments *paymentMocks.MockPayment, bookings *bookingMocks.MockBooking, _ *s3Mocks.MockS3) {
				gomock.InOrder(
					payments.EXPECT().ResolveStale(gomock.Any(), now).Return(dto.ResolveSummary{Scanned: 2, Succeeded: 1, Expired: 1}, nil),
					bookings.EXPECT().ExpireUnpaid(gomock.Any(), now).Return(3, nil),
					bookings.EXPECT().CompleteFinished(gomock.Any(), now).Return(1, nil),
				)
			},
			wantSteps: map[string]int{
				reconciler.StepResolvePayments: 2,
				reconciler.StepExpireUnpaid:    3,
				reconciler.StepCompleteStays:   1,
			},
		},
		{
			name: "failing step does not stop the others",
			setupMock: func(payments *paymentMocks.MockPayment, bookings *bookingMocks.MockBooking, _ *s3Mocks.MockS3) {
				payments.EXPECT().ResolveStale(gomock.Any(), now).Return(dto.ResolveSummary{}, errors.New("db down"))
				bookings.EXPECT().ExpireUnpaid(gomock.Any(), now).Return(0, nil)
				bookings.EXPECT().CompleteFinished(gomock.Any(), now).Return(2, nil)
			},
			wantErr: "resolve_payments: db down",
			wantSteps: map[string]int{
				reconciler.StepResolvePayments: 0,
				reconciler.StepExpireUnpaid:    0,
				reconciler.StepCompleteStays:   2,
			},
		},
		{
			name:   "report uploaded as ndjson",
			upload: true,
			setupMock: func(payments *paymentMocks.MockPayment, bookings *bookingMocks.MockBooking, storage *s3Mocks.MockS3) {
				payments.EXPECT().ResolveStale(gomock.Any(), now).Return(dto.ResolveSummary{Scanned: 1, Succeeded: 1}, nil)
				bookings.EXPECT().ExpireUnpaid(gomock.Any(), now).Return(0, nil)
				bookings.EXPECT().CompleteFinished(gomock.Any(), now).Return(0, nil)
				storage.EXPECT().Put(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, object s3.Object) (string, error) {
						assert.Empty(t, object.Bucket)
						assert.Equal(t, "reconciler/2025-06-01", object.Directory)
						assert.Equal(t, constant.ContentTypeNDJSON, object.ContentType)
						assert.Contains(t, object.Name, ".ndjson")

						scanner := bufio.NewScanner(bytes.NewReader(object.Body))
						lines := 0

						for scanner.Scan() {
							var step reconciler.StepResult
							require.NoError(t, json.Unmarshal(scanner.Bytes(), &step))
							assert.NotEmpty(t, step.RunID)
							lines++
						}

						assert.Equal(t, 3, lines)

						return "https://reports.example.com/" + object.Key(), nil
					})
			},
			wantSteps: map[string]int{
				reconciler.StepResolvePayments: 1,
				reconciler.StepExpireUnpaid:    0,
				reconciler.StepCompleteStays:   0,
			},
		},
		{
			name:   "idle run uploads nothing",
			upload: true,
			setupMock: func(payments *paymentMocks.MockPayment, bookings *bookingMocks.MockBooking, _ *s3Mocks.MockS3) {
				payments.EXPECT().ResolveStale(gomock.Any(), now).Return(dto.ResolveSummary{}, nil)
				bookings.EXPECT().ExpireUnpaid(gomock.Any(), now).Return(0, nil)
				bookings.EXPECT().CompleteFinished(gomock.Any(), now).Return(0, nil)
			},
			wantSteps: map[string]int{
				reconciler.StepResolvePayments: 0,
				reconciler.StepExpireUnpaid:    0,
				reconciler.StepCompleteStays:   0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			payments := paymentMocks.NewMockPayment(ctrl)
			bookings := bookingMocks.NewMockBooking(ctrl)
			storage := s3Mocks.NewMockS3(ctrl)

			tt.setupMock(payments, bookings, storage)

			cfg := &config.Config{}
			cfg.Reconciler.UploadReport = tt.upload
			cfg.Reconciler.ReportDirectory = "reconciler"

			report, err := reconciler.New(payments, bookings, storage, cfg, mocks.NewOtel()).RunOnce(context.Background(), now)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got := map[string]int{}
			for _, step := range report.Steps {
				got[step.Step] = step.Count
			}

			assert.Equal(t, tt.wantSteps, got)
			assert.NotEmpty(t, report.RunID)
		})
	}
}

func TestReconciler_RunStopsWithContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	payments := paymentMocks.NewMockPayment(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	payments.EXPECT().ResolveStale(gomock.Any(), gomock.Any()).Return(dto.ResolveSummary{}, nil)
	bookings.EXPECT().ExpireUnpaid(gomock.Any(), gomock.Any()).Return(0, nil)
	bookings.EXPECT().CompleteFinished(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, time.Time) (int, error) {
		cancel()

		return 0, nil
	})

	done := make(chan struct{})

	go func() {
		reconciler.New(payments, bookings, nil, &config.Config{}, mocks.NewOtel()).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop after the context was cancelled")
	}
}
