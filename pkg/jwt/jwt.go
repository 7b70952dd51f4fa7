package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrMissingKey   = errors.New("missing jwt secret")
)

// Audience is the aud claim the backend service puts on signed-in user tokens.
const Audience = "authenticated"

// Claims mirrors the access token issued by the backend auth service.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the sub claim as a uuid.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Verifier validates access tokens with the project's shared HS256 secret.
type Verifier struct {
	secret []byte
}

// NewVerifier returns nil when secret is empty, so callers can fall back to a remote lookup.
func NewVerifier(secret string) *Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{secret: []byte(secret)}
}

// GenerateToken signs a token the same shape as the backend's; used by seeds and tests.
func (v *Verifier) GenerateToken(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	if v == nil {
		return "", ErrMissingKey
	}
	now := time.Now()
	claims := &Claims{
		Email: email,
		Role:  Audience,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// ValidateToken parses and validates an access token
func (v *Verifier) ValidateToken(tokenString string) (*Claims, error) {
	if v == nil {
		return nil, ErrMissingKey
	}
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithAudience(Audience))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if _, err := claims.UserID(); err != nil {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
