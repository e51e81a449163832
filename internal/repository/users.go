package repository

import (
	"context"

	"github.com/adisood/mandi/internal/domain"
)

// GetUserByID returns a user by ID.
func (q *Queries) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := q.pool.QueryRow(ctx, `
		SELECT id, phone, name, role, created_at, updated_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Phone, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByPhone returns a user by mobile number.
func (q *Queries) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	err := q.pool.QueryRow(ctx, `
		SELECT id, phone, name, role, created_at, updated_at
		FROM users WHERE phone = $1`, phone,
	).Scan(&u.ID, &u.Phone, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	var u domain.User
	err := q.pool.QueryRow(ctx, `
		INSERT INTO users (id, phone, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, phone, name, role, created_at, updated_at`,
		user.ID, user.Phone, user.Name, user.Role,
	).Scan(&u.ID, &u.Phone, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertOTPChallenge stores a fresh challenge for the phone, replacing any
// pending one and resetting the attempt counter.
func (q *Queries) UpsertOTPChallenge(ctx context.Context, challenge *domain.OTPChallenge) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO otp_challenges (phone, code_hash, attempts, expires_at, created_at)
		VALUES ($1, $2, 0, $3, now())
		ON CONFLICT (phone) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			attempts = 0,
			expires_at = EXCLUDED.expires_at,
			created_at = now()`,
		challenge.Phone, challenge.CodeHash, challenge.ExpiresAt)
	return err
}

// GetOTPChallenge returns the pending challenge for a phone.
func (q *Queries) GetOTPChallenge(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	var ch domain.OTPChallenge
	err := q.pool.QueryRow(ctx, `
		SELECT phone, code_hash, attempts, expires_at, created_at
		FROM otp_challenges WHERE phone = $1`, phone,
	).Scan(&ch.Phone, &ch.CodeHash, &ch.Attempts, &ch.ExpiresAt, &ch.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// IncrementOTPAttempts records a failed verification attempt.
func (q *Queries) IncrementOTPAttempts(ctx context.Context, phone string) error {
	_, err := q.pool.Exec(ctx,
		`UPDATE otp_challenges SET attempts = attempts + 1 WHERE phone = $1`, phone)
	return err
}

// DeleteOTPChallenge removes a challenge after successful verification or expiry.
func (q *Queries) DeleteOTPChallenge(ctx context.Context, phone string) error {
	_, err := q.pool.Exec(ctx,
		`DELETE FROM otp_challenges WHERE phone = $1`, phone)
	return err
}
