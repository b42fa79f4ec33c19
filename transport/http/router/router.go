package router

import (
	"stayledger/internal/handlers/booking"
	"stayledger/internal/handlers/coupon"
	"stayledger/internal/handlers/listing"
	"stayledger/internal/handlers/payment"
	"stayledger/internal/handlers/pricing"
	"stayledger/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Listing listing.Handler
	Booking booking.Handler
	Pricing pricing.Handler
	Coupon  coupon.Handler
	Payment payment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		if r.AuthRole != nil {
			routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)
		}

		r.DomainHandlers.Listing.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Pricing.Router(routerGroup)
		r.DomainHandlers.Coupon.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
