package routes

import (
	"net/http"

	"github.com/adisood/mandi/internal/handler/api"
	"github.com/adisood/mandi/internal/middleware"
)

// APIDeps contains the handlers and per-group middleware for the API routes.
type APIDeps struct {
	AuthHandler     *api.AuthHandler
	ProductHandler  *api.ProductHandler
	CategoryHandler *api.CategoryHandler
	CartHandler     *api.CartHandler
	AdminHandler    *api.AdminHandler

	// OTPRateLimit guards the OTP endpoints, which trigger SMS dispatch.
	OTPRateLimit func(next http.Handler) http.Handler

	// Metrics exposes the Prometheus scrape endpoint.
	Metrics *middleware.Metrics
}
