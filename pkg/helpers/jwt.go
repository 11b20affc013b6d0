package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token is well-formed and correctly
	// signed but past its encoded expiry.
	ErrTokenExpired = errors.New("Token expired")
	// ErrTokenInvalid covers every other verification failure (bad signature,
	// malformed token, wrong algorithm).
	ErrTokenInvalid = errors.New("Invalid token")
)

// Claims is the credential payload carried by issued tokens. It is kept
// minimal: the user identifier and email, no roles or scopes.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed, time-limited tokens with a single
// server-held secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs claims for the given user and returns the token along with its
// expiry time.
func (m *TokenManager) Issue(userID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify parses and validates a token. It returns ErrTokenExpired for stale
// tokens and ErrTokenInvalid for any other failure; there are no other
// outcomes.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
