// Package docs registers the OpenAPI document served under /swagger. Regenerate with
// `swag init -g cmd/app/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "APIKey": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    },
    "paths": {
        "/v1/bookings": {
            "get": {"tags": ["Booking"], "summary": "Get all bookings", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Booking"], "summary": "Reserve a listing", "security": [{"BearerAuth": []}]}
        },
        "/v1/bookings/mybookings": {
            "get": {"tags": ["Booking"], "summary": "Get the caller's bookings", "security": [{"BearerAuth": []}]}
        },
        "/v1/bookings/{id}": {
            "get": {"tags": ["Booking"], "summary": "Get a booking", "security": [{"BearerAuth": []}]}
        },
        "/v1/bookings/{id}/cancel": {
            "post": {"tags": ["Booking"], "summary": "Cancel a booking", "security": [{"BearerAuth": []}]}
        },
        "/v1/bookings/{id}/check-in": {
            "post": {"tags": ["Booking"], "summary": "Check a guest in", "security": [{"BearerAuth": []}]}
        },
        "/v1/bookings/{id}/complete": {
            "post": {"tags": ["Booking"], "summary": "Complete a stay", "security": [{"BearerAuth": []}]}
        },
        "/v1/payments": {
            "post": {"tags": ["Payment"], "summary": "Charge a booking idempotently", "security": [{"BearerAuth": []}]}
        },
        "/v1/payments/{key}": {
            "get": {"tags": ["Payment"], "summary": "Get a payment attempt", "security": [{"BearerAuth": []}]}
        },
        "/v1/quotes": {
            "post": {"tags": ["Pricing"], "summary": "Quote a stay"}
        },
        "/v1/listings": {
            "get": {"tags": ["Listing"], "summary": "List listings"},
            "post": {"tags": ["Listing"], "summary": "Create a listing", "security": [{"BearerAuth": []}]}
        },
        "/v1/listings/{id}": {
            "get": {"tags": ["Listing"], "summary": "Get a listing"},
            "patch": {"tags": ["Listing"], "summary": "Update a listing", "security": [{"BearerAuth": []}]}
        },
        "/v1/listings/{id}/availability": {
            "get": {"tags": ["Listing"], "summary": "Blocking ranges of a listing"}
        },
        "/v1/coupons": {
            "get": {"tags": ["Coupon"], "summary": "List coupons", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Coupon"], "summary": "Create a coupon", "security": [{"BearerAuth": []}]}
        },
        "/v1/coupons/{code}": {
            "get": {"tags": ["Coupon"], "summary": "Get a coupon", "security": [{"BearerAuth": []}]}
        },
        "/v1/coupons/{code}/validate": {
            "post": {"tags": ["Coupon"], "summary": "Dry-run a coupon", "security": [{"BearerAuth": []}]}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "stayledger API",
	Description:      "Booking admission, pricing, coupons and idempotent payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
