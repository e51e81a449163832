package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/adisood/mandi/internal/auth"
	"github.com/adisood/mandi/internal/domain"
	"github.com/adisood/mandi/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sender delivers one-time codes out of band (SMS gateway in production).
type Sender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending them. Development only.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendOTP(ctx context.Context, phone, code string) error {
	s.Logger.Info("otp code generated", "phone", phone, "code", code)
	return nil
}

// AuthConfig tunes the OTP flow.
type AuthConfig struct {
	// OTPTTL is how long a code stays valid.
	OTPTTL time.Duration

	// MaxAttempts is the number of wrong codes allowed before a fresh code
	// must be requested.
	MaxAttempts int
}

// DefaultAuthConfig returns the standard OTP policy: 5 minute codes, 5
// attempts.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		OTPTTL:      5 * time.Minute,
		MaxAttempts: 5,
	}
}

type authService struct {
	repo   repository.Querier
	sender Sender
	tokens *auth.TokenManager
	cfg    AuthConfig
	now    func() time.Time
}

// NewAuthService creates an AuthService that dispatches codes through sender
// and issues session tokens through tokens.
func NewAuthService(repo repository.Querier, sender Sender, tokens *auth.TokenManager, cfg AuthConfig) domain.AuthService {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &authService{
		repo:   repo,
		sender: sender,
		tokens: tokens,
		cfg:    cfg,
		now:    time.Now,
	}
}

// RequestOTP generates a fresh code for the phone, replacing any pending one.
func (s *authService) RequestOTP(ctx context.Context, phone string) error {
	const op = "auth.request_otp"

	phone, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return domain.Internal(err, op, "failed to generate code")
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return domain.Internal(err, op, "failed to hash code")
	}

	challenge := &domain.OTPChallenge{
		Phone:     phone,
		CodeHash:  hash,
		ExpiresAt: s.now().Add(s.cfg.OTPTTL),
	}
	if err := s.repo.UpsertOTPChallenge(ctx, challenge); err != nil {
		return domain.Internal(err, op, "failed to store challenge")
	}

	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		return domain.Internal(err, op, "failed to dispatch code")
	}
	return nil
}

// VerifyOTP checks the code, creates the user on first verification, and
// issues a session token.
func (s *authService) VerifyOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	const op = "auth.verify_otp"

	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if len(code) != auth.CodeLength {
		return nil, domain.Invalid(op, "Verification code must be 6 digits")
	}

	challenge, err := s.repo.GetOTPChallenge(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, domain.Internal(err, op, "failed to load challenge")
	}

	if s.now().After(challenge.ExpiresAt) {
		_ = s.repo.DeleteOTPChallenge(ctx, phone)
		return nil, domain.ErrOTPExpired
	}
	if challenge.Attempts >= s.cfg.MaxAttempts {
		return nil, domain.ErrOTPMaxAttempts
	}

	if err := auth.VerifyCode(code, challenge.CodeHash); err != nil {
		if errors.Is(err, auth.ErrCodeMismatch) {
			if ierr := s.repo.IncrementOTPAttempts(ctx, phone); ierr != nil {
				return nil, domain.Internal(ierr, op, "failed to record attempt")
			}
			return nil, domain.ErrOTPMismatch
		}
		return nil, domain.Internal(err, op, "failed to verify code")
	}

	if err := s.repo.DeleteOTPChallenge(ctx, phone); err != nil {
		return nil, domain.Internal(err, op, "failed to consume challenge")
	}

	user, err := s.repo.GetUserByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Internal(err, op, "failed to load user")
		}
		user, err = s.repo.CreateUser(ctx, &domain.User{
			ID:    uuid.NewString(),
			Phone: phone,
			Role:  domain.RoleCustomer,
		})
		if err != nil {
			return nil, domain.Internal(err, op, "failed to create user")
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to issue token")
	}

	return &domain.AuthResult{User: *user, Token: token}, nil
}

// normalizePhone validates an Indian mobile number and normalizes it to
// +91XXXXXXXXXX form. Accepts bare 10-digit numbers and 91/+91 prefixes.
func normalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, c := range phone {
		switch {
		case c >= '0' && c <= '9':
			digits.WriteRune(c)
		case c == '+' || c == ' ' || c == '-':
			// separators and the plus prefix are tolerated
		default:
			return "", domain.ErrInvalidPhone
		}
	}

	number := digits.String()
	if len(number) == 12 && strings.HasPrefix(number, "91") {
		number = number[2:]
	}
	if len(number) != 10 || number[0] < '6' || number[0] > '9' {
		return "", domain.ErrInvalidPhone
	}
	return "+91" + number, nil
}
