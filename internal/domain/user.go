package domain

import (
	"context"
	"time"
)

// UserRole controls access to admin operations.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is an account keyed by mobile number. Accounts are created implicitly
// on first successful OTP verification.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OTPChallenge is a pending one-time-password verification for a phone number.
// Only the bcrypt hash of the code is stored.
type OTPChallenge struct {
	Phone     string
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthResult is returned after a successful OTP verification.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// AuthService handles OTP-based mobile authentication. Code delivery is an
// external collaborator behind the Sender port in the service package.
type AuthService interface {
	// RequestOTP generates and dispatches a one-time code for the phone.
	RequestOTP(ctx context.Context, phone string) error

	// VerifyOTP checks the code and issues a session token, creating the
	// user on first verification.
	VerifyOTP(ctx context.Context, phone, code string) (*AuthResult, error)
}

// Auth-specific errors.
var (
	ErrInvalidPhone   = &Error{Code: EINVALID, Message: "Invalid mobile number"}
	ErrOTPNotFound    = &Error{Code: ENOTFOUND, Message: "No pending verification for this number"}
	ErrOTPExpired     = &Error{Code: EUNAUTHORIZED, Message: "Verification code has expired"}
	ErrOTPMismatch    = &Error{Code: EUNAUTHORIZED, Message: "Incorrect verification code"}
	ErrOTPMaxAttempts = &Error{Code: ERATELIMIT, Message: "Too many incorrect attempts, request a new code"}
)
