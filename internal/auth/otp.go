package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the number of digits in a one-time code.
	CodeLength = 6

	// bcryptCost is the cost factor for bcrypt hashing. OTP codes are short
	// lived, so a moderate cost keeps verification fast.
	bcryptCost = 10
)

var ErrCodeMismatch = errors.New("code does not match")

// GenerateCode returns a random numeric one-time code, zero padded to
// CodeLength digits.
func GenerateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// HashCode generates a bcrypt hash of the code. Only the hash is stored.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hash), nil
}

// VerifyCode checks the provided code against the stored hash.
func VerifyCode(code, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrCodeMismatch
		}
		return fmt.Errorf("failed to verify code: %w", err)
	}
	return nil
}
