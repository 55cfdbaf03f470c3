package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"smartlock.io/smartlock/model"
)

// PrincipalClaims is the identity token payload issued by the auth service:
// the principal plus standard JWT claims. The engine never validates
// credentials itself; it trusts the verified claims.
type PrincipalClaims struct {
	Principal model.Principal `json:"principal"`
	jwt.RegisteredClaims
}

// CreatePrincipalToken signs a principal into a bearer token. Used by the
// createtoken CLI and the middleware tests; production tokens come from the
// auth service with the same shape.
func CreatePrincipalToken(principal *model.Principal, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}

	claims := PrincipalClaims{
		Principal: *principal,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "smartlock",
			Subject:   principal.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretBytes)
}

// ParsePrincipalToken verifies the signature and expiry and returns the
// embedded principal.
func ParsePrincipalToken(tokenStr string, secret []byte) (*model.Principal, error) {
	claims := &PrincipalClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims.Principal, nil
}
