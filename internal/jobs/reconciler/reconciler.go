package reconciler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/infras/s3"
	bookingService "stayledger/internal/domains/booking/service"
	paymentDto "stayledger/internal/domains/payment/model/dto"
	paymentService "stayledger/internal/domains/payment/service"
	"stayledger/shared/constant"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultInterval = 30 * time.Second

	StepResolvePayments = "resolve_payments"
	StepExpireUnpaid    = "expire_unpaid"
	StepCompleteStays   = "complete_stays"
)

// StepResult is one line of the run report.
type StepResult struct {
	RunID    string                     `json:"run_id"`
	Step     string                     `json:"step"`
	Count    int                        `json:"count"`
	Payments *paymentDto.ResolveSummary `json:"payments,omitempty"`
	Error    string                     `json:"error,omitempty"`
	Duration string                     `json:"duration"`
}

type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []StepResult
	URL        string
}

// Reconciler drives every booking and payment that nobody is waiting on to a final state.
type Reconciler interface {
	RunOnce(ctx context.Context, now time.Time) (Report, error)
	Run(ctx context.Context)
}

type reconcilerImpl struct {
	payments paymentService.Payment
	bookings bookingService.Booking
	storage  s3.S3
	cfg      *config.Config
	otel     otel.Otel
}

func New(payments paymentService.Payment, bookings bookingService.Booking, storage s3.S3, cfg *config.Config, otel otel.Otel) Reconciler {
	return &reconcilerImpl{
		payments: payments,
		bookings: bookings,
		storage:  storage,
		cfg:      cfg,
		otel:     otel,
	}
}

// Run reconciles straight away and then on every interval until ctx is done.
func (r *reconcilerImpl) Run(ctx context.Context) {
	interval := time.Duration(r.cfg.Reconciler.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}

	log.Info().Dur("interval", interval).Msg("reconciler started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx, time.Now()); err != nil {
			log.Error().Err(err).Msg("reconciler run finished with errors")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("reconciler stopped")

			return
		case <-ticker.C:
		}
	}
}

// RunOnce resolves stale payments first so that a booking whose charge went through is confirmed
// before the unpaid sweep looks at it. A failing step does not stop the others.
func (r *reconcilerImpl) RunOnce(ctx context.Context, now time.Time) (report Report, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".reconciler.RunOnce")
	defer scope.End()
	defer scope.TraceIfError(err)

	report.RunID = uuid.NewString()
	report.StartedAt = now

	var errs []error

	record := func(step string, run func() (StepResult, error)) {
		started := time.Now()

		result, stepErr := run()
		result.RunID = report.RunID
		result.Step = step
		result.Duration = time.Since(started).String()

		if stepErr != nil {
			result.Error = stepErr.Error()
			errs = append(errs, fmt.Errorf("%s: %w", step, stepErr))
		}

		report.Steps = append(report.Steps, result)
	}

	record(StepResolvePayments, func() (StepResult, error) {
		summary, err := r.payments.ResolveStale(ctx, now)

		return StepResult{Count: summary.Scanned, Payments: &summary}, err //nolint:wrapcheck
	})

	record(StepExpireUnpaid, func() (StepResult, error) {
		count, err := r.bookings.ExpireUnpaid(ctx, now)

		return StepResult{Count: count}, err //nolint:wrapcheck
	})

	record(StepCompleteStays, func() (StepResult, error) {
		count, err := r.bookings.CompleteFinished(ctx, now)

		return StepResult{Count: count}, err //nolint:wrapcheck
	})

	report.FinishedAt = time.Now()

	scope.SetAttributes(map[string]any{
		"reconciler.run_id": report.RunID,
		"reconciler.errors": len(errs),
	})

	if r.cfg.Reconciler.UploadReport && r.storage != nil && report.changed() {
		report.URL = r.upload(ctx, report)
	}

	log.Info().Str("run_id", report.RunID).Interface("steps", report.Steps).Msg("reconciler run completed")

	return report, errors.Join(errs...)
}

func (r Report) changed() bool {
	for _, step := range r.Steps {
		if step.Count > 0 || step.Error != constant.Empty {
			return true
		}
	}

	return false
}

// upload stores the report as NDJSON, one line per step. Failures are logged only.
func (r *reconcilerImpl) upload(ctx context.Context, report Report) string {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	for _, step := range report.Steps {
		if err := encoder.Encode(step); err != nil {
			log.Error().Err(err).Msg("failed to encode reconciler report")

			return constant.Empty
		}
	}

	directory := path.Join(r.cfg.Reconciler.ReportDirectory, report.StartedAt.UTC().Format(constant.DateOnlyFormat))
	fileName := report.RunID + ".ndjson"

	url, err := r.storage.Put(ctx, s3.Object{
		Directory:   directory,
		Name:        fileName,
		ContentType: constant.ContentTypeNDJSON,
		Body:        buf.Bytes(),
	})
	if err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("failed to upload reconciler report")

		return constant.Empty
	}

	return url
}
