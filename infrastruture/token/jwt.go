package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongIssuer   = errors.New("token issued by someone else")
	ErrSigningMethod = errors.New("unexpected signing method")
)

// JwtService signs and verifies HS256 session tokens.
type JwtService struct {
	secretKey string
	issuer    string
}

var _ i.Tokenizer = &JwtService{}

// NewJwtService creates a new JWT Service with the provided configuration.
func NewJwtService(secretKey, issuer string) *JwtService {
	return &JwtService{
		secretKey: secretKey,
		issuer:    issuer,
	}
}

// Generate creates a JWT for the given claims. The issuer, issue time and
// expiry are set by the service and cannot be overridden by claims.
func (s *JwtService) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	now := time.Now().UTC()
	jwtClaims := jwt.MapClaims{}
	for key, val := range claims {
		jwtClaims[key] = val
	}
	jwtClaims["iss"] = s.issuer
	jwtClaims["iat"] = now.Unix()
	jwtClaims["exp"] = now.Add(expTime).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Decode parses and validates a JWT, returning the claims if valid.
func (s *JwtService) Decode(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrWrongIssuer
	}

	return claims, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrSigningMethod
	}
	return []byte(s.secretKey), nil
}
