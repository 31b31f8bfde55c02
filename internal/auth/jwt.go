package auth

import (
	"errors"
	"fmt"

	"github.com/crestline-dev/budget-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTValidator validates HMAC-signed bearer tokens issued by the company
// identity service
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// ValidateToken validates a bearer token and returns the actor identity
func (v *JWTValidator) ValidateToken(tokenString string) (*ActorContext, error) {
	claims := jwt.MapClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	actor := &ActorContext{
		DisplayName: extractString(claims, "name", "preferred_username"),
		Email:       extractString(claims, "email", "upn"),
	}

	if subStr := extractString(claims, "sub", "oid"); subStr != "" {
		if uid, err := uuid.Parse(subStr); err == nil {
			actor.ActorID = uid
		}
	}

	// Fall back to a stable ID derived from the email
	if actor.ActorID == uuid.Nil && actor.Email != "" {
		actor.ActorID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(actor.Email))
	}

	return actor, nil
}

func extractString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if val, ok := claims[key]; ok {
			if str, ok := val.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}
