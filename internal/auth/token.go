package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, missing subject, or expiry in the past. Callers
// get one error so responses cannot leak which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies the bearer tokens the API hands out at
// login. Verification is stateless: nothing is looked up server-side.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl}
}

// Issue mints an HS256 JWT carrying the user id in "sub" and an
// absolute expiry at now+TTL.
func (t *Tokens) Issue(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(t.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// Verify validates signature and expiry and returns the user id from
// the "sub" claim. Any failure maps to ErrInvalidToken.
func (t *Tokens) Verify(tokenStr string) (int, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	// Numeric claims come back as float64 after JSON decoding.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}

	return int(sub), nil
}
