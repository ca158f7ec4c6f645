package core

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// sessionClaims carries exactly the user identifier. There is deliberately
// no expiry claim: session lifetime is bounded by the cookie Max-Age alone.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"_id"`
}

// TokenCodec signs and verifies the opaque bearer tokens that establish
// caller identity. It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue signs a token embedding the given user id.
func (tc *TokenCodec) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{UserID: userID})
	return token.SignedString(tc.secret)
}

// Verify checks the signature and returns the embedded user id. Any absent,
// malformed, or forged token yields ErrInvalidToken.
func (tc *TokenCodec) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tc.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
