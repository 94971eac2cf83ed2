package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/expertec/api-web-negocios/pkg/config"
)

var (
	signingKey      []byte
	expirationHours int
)

// SessionClaims represents the JWT claims for a negocio admin session
type SessionClaims struct {
	NegocioID string `json:"negocio_id"`
	Nombre    string `json:"nombre,omitempty"`
	User      string `json:"user"`
	jwt.RegisteredClaims
}

// Initialize configures the signing key and token lifetime from configuration
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expirationHours = cfg.ExpirationHours
	if expirationHours <= 0 {
		expirationHours = 24
	}
}

// GenerateToken creates a session token scoped to a single negocio
func GenerateToken(negocioID, nombre, user string) (string, error) {
	claims := SessionClaims{
		NegocioID: negocioID,
		Nombre:    nombre,
		User:      user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses a session token
func ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
