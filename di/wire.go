//go:build wireinject
// +build wireinject

package di

import (
	"stayledger/config"
	"stayledger/infras/jwt"
	"stayledger/infras/kafka"
	"stayledger/infras/otel"
	"stayledger/infras/payment"
	"stayledger/infras/postgres"
	"stayledger/infras/redis"
	"stayledger/infras/s3"
	"stayledger/internal/jobs/reconciler"
	"stayledger/permissions"
	"stayledger/shared/cache"
	"stayledger/transport/http"
	"stayledger/transport/http/middleware"
	"stayledger/transport/http/router"

	"github.com/google/wire"

	"stayledger/internal/domains/booking/lifecycle"
	bookingRepository "stayledger/internal/domains/booking/repository"
	bookingService "stayledger/internal/domains/booking/service"
	couponRepository "stayledger/internal/domains/coupon/repository"
	couponService "stayledger/internal/domains/coupon/service"
	listingRepository "stayledger/internal/domains/listing/repository"
	listingService "stayledger/internal/domains/listing/service"
	paymentRepository "stayledger/internal/domains/payment/repository"
	paymentService "stayledger/internal/domains/payment/service"
	pricingService "stayledger/internal/domains/pricing/service"

	bookingHandler "stayledger/internal/handlers/booking"
	couponHandler "stayledger/internal/handlers/coupon"
	"stayledger/internal/handlers/events"
	listingHandler "stayledger/internal/handlers/listing"
	paymentHandler "stayledger/internal/handlers/payment"
	pricingHandler "stayledger/internal/handlers/pricing"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	payment.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var couponDomain = wire.NewSet(
	couponRepository.New,
	couponService.New,
)

var pricingDomain = wire.NewSet(
	pricingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	lifecycle.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var domains = wire.NewSet(
	listingDomain,
	couponDomain,
	pricingDomain,
	bookingDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	listingHandler.New,
	bookingHandler.New,
	pricingHandler.New,
	couponHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeReconciler() reconciler.Reconciler {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		reconciler.New,
	)

	return nil
}

func InitializeEventHandler() events.Handler {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		couponDomain,
		events.New,
	)

	return events.Handler{}
}
