package auth

import (
	"errors"
	"fmt"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/config"
	"sublease-marketplace/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the bearer token claims issued at login and registration
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokenIssuer creates a TokenIssuer from configuration. The secret must be non-empty.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	exp := cfg.Expiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		expiration: exp,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}, nil
}

// Issue returns a signed token for the user and its expiry
func (t *TokenIssuer) Issue(userID, email, role string) (string, time.Time, error) {
	now := t.now().UTC()
	expiresAt := now.Add(t.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.GenerateID(),
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token. Any failure is reported as ErrUnauthenticated.
func (t *TokenIssuer) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithTimeFunc(t.now),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: %w - token expired", biddingerrors.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("auth: %w - invalid token", biddingerrors.ErrUnauthenticated)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("auth: %w - invalid claims", biddingerrors.ErrUnauthenticated)
	}
	return claims, nil
}
