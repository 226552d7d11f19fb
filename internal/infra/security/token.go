package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired = errors.New("security: signing secret is required")
	ErrTokenInvalid   = errors.New("security: token invalid")
)

// JWTIssuer signs HS256 session tokens carrying the user id.
type JWTIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

type sessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (i JWTIssuer) Issue(userID string) (string, time.Time, error) {
	if len(i.Secret) == 0 {
		return "", time.Time{}, ErrSecretRequired
	}
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty subject", ErrTokenInvalid)
	}
	now := i.now()
	expires := now.Add(i.ttl())
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse verifies the signature and expiry and returns the user id.
func (i JWTIssuer) Parse(token string) (string, error) {
	if len(i.Secret) == 0 {
		return "", ErrSecretRequired
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return "", fmt.Errorf("%w: missing user_id", ErrTokenInvalid)
	}
	return claims.UserID, nil
}

func (i JWTIssuer) ttl() time.Duration {
	if i.TTL > 0 {
		return i.TTL
	}
	return 24 * time.Hour
}

func (i JWTIssuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}
