package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySecret  = errors.New("token secret must not be empty")
)

// Claims is the identity carried by a session or verification token.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type tokenClaims struct {
	Claims
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens bound to a single server secret.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. An expiry of zero issues tokens
// without an exp claim; such tokens stay valid until the secret rotates.
func NewTokenService(secret string, expiry time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}, nil
}

// Issue signs the claims.
func (s *TokenService) Issue(c Claims) (string, error) {
	claims := tokenClaims{Claims: c}
	if s.expiry > 0 {
		now := s.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a token and returns its claims. Malformed tokens, bad
// signatures, other algorithms and expired tokens all yield ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (Claims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Claims.ID <= 0 {
		return Claims{}, ErrInvalidToken
	}

	return claims.Claims, nil
}
