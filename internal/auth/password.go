package auth

import (
	"errors"
	"fmt"

	"sublease-marketplace/internal/biddingerrors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = bcrypt.DefaultCost

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("auth: %w - password must be at least %d characters", biddingerrors.ErrValidation, MinPasswordLength)
	}
	// bcrypt ignores input past 72 bytes
	if len(password) > 72 {
		return "", fmt.Errorf("auth: %w - password must be at most 72 bytes", biddingerrors.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("auth: %w", biddingerrors.ErrInvalidCredential)
	}
	if err != nil {
		return fmt.Errorf("auth: %w - %v", biddingerrors.ErrInvalidCredential, err)
	}
	return nil
}
