package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adisood/mandi/internal/domain"
)

// CartHandler handles the cart API routes.
type CartHandler struct {
	cartService domain.CartService
	logger      *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService domain.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

type addToCartRequest struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
	DeviceInfo string `json:"deviceInfo,omitempty"`
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cart, err := h.cartService.AddToCart(r.Context(), userID, req.ProductID, req.Quantity, domain.AddToCartParams{
		Notes:      req.Notes,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, cart)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cart, err := h.cartService.UpdateCartItem(r.Context(), userID, r.PathValue("productId"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveFromCart(r.Context(), userID, r.PathValue("productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, cart)
}

// Get handles GET /api/cart
// An absent cart is not an error; the client receives data: null.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	includeUnavailable := r.URL.Query().Get("includeUnavailable") == "true"

	cart, err := h.cartService.GetCart(r.Context(), userID, includeUnavailable)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, cart)
}

// Summary handles GET /api/cart/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.cartService.GetCartSummary(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart
// Destructive, so the client must confirm with ?confirm=true.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, r, domain.Invalid("cart.clear", "Pass confirm=true to clear the cart"))
		return
	}

	if err := h.cartService.ClearCart(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon handles POST /api/cart/coupons
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req applyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cart, err := h.cartService.ApplyCoupon(r.Context(), userID, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, cart)
}

type deliveryInfoRequest struct {
	Type              string     `json:"type"`
	DeliveryAddressID string     `json:"deliveryAddressId,omitempty"`
	ScheduledDelivery *time.Time `json:"scheduledDelivery,omitempty"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
}

// SetDeliveryInfo handles PUT /api/cart/delivery
func (h *CartHandler) SetDeliveryInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req deliveryInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	deliveryType := domain.DeliveryType(req.Type)
	if deliveryType != domain.DeliveryPickup && req.DeliveryAddressID == "" {
		writeError(w, r, domain.Invalid("cart.set_delivery", "A delivery address is required"))
		return
	}

	cart, err := h.cartService.SetDeliveryInfo(r.Context(), userID, domain.DeliveryInfoParams{
		Type:              deliveryType,
		DeliveryAddressID: req.DeliveryAddressID,
		ScheduledDelivery: req.ScheduledDelivery,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, cart)
}
