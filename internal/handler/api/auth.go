package api

import (
	"log/slog"
	"net/http"

	"github.com/adisood/mandi/internal/domain"
)

// AuthHandler handles the OTP authentication routes.
type AuthHandler struct {
	authService domain.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService domain.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type requestOTPRequest struct {
	Phone string `json:"phone"`
}

// RequestOTP handles POST /api/auth/otp
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.authService.RequestOTP(r.Context(), req.Phone); err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOTP handles POST /api/auth/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.authService.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, result)
}
