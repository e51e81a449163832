package routes

import (
	"encoding/json"
	"net/http"

	"github.com/adisood/mandi/internal/middleware"
	"github.com/adisood/mandi/internal/router"
)

// RegisterAPIRoutes registers the full API surface on r. The router's global
// chain (request ID, logging, metrics, CORS, recovery, WithUser) is expected
// to be installed by the caller; this function only adds per-group middleware.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Get("/api/health", healthCheck)
	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Auth. The OTP endpoints get a strict per-IP rate limit on top of the
	// global one.
	auth := r.Group()
	if deps.OTPRateLimit != nil {
		auth = r.Group(deps.OTPRateLimit)
	}
	auth.Post("/api/auth/otp", deps.AuthHandler.RequestOTP)
	auth.Post("/api/auth/verify", deps.AuthHandler.VerifyOTP)

	// Public catalog.
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)
	r.Get("/api/categories", deps.CategoryHandler.List)

	// Cart. Authenticated users only.
	cart := r.Group(middleware.RequireAuth)
	cart.Get("/api/cart", deps.CartHandler.Get)
	cart.Get("/api/cart/summary", deps.CartHandler.Summary)
	cart.Post("/api/cart/items", deps.CartHandler.Add)
	cart.Put("/api/cart/items/{productId}", deps.CartHandler.UpdateItem)
	cart.Delete("/api/cart/items/{productId}", deps.CartHandler.RemoveItem)
	cart.Delete("/api/cart", deps.CartHandler.Clear)
	cart.Post("/api/cart/coupons", deps.CartHandler.ApplyCoupon)
	cart.Put("/api/cart/delivery", deps.CartHandler.SetDeliveryInfo)

	// Admin catalog management.
	admin := r.Group(middleware.RequireAdmin)
	admin.Post("/api/admin/products", deps.AdminHandler.CreateProduct)
	admin.Put("/api/admin/products/{id}", deps.AdminHandler.UpdateProduct)
	admin.Delete("/api/admin/products/{id}", deps.AdminHandler.ArchiveProduct)
	admin.Post("/api/admin/products/{id}/stock", deps.AdminHandler.AdjustStock)
	admin.Post("/api/admin/categories", deps.AdminHandler.CreateCategory)
}

// healthCheck reports process liveness. Database health is checked at startup
// and by the connection pool, not per request.
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
