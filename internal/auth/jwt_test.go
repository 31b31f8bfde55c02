package auth_test

import (
	"testing"
	"time"

	"github.com/crestline-dev/budget-api/internal/auth"
	"github.com/crestline-dev/budget-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret-0123456789"

// signTestToken creates an HS256 token the way the identity service does
func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func testValidator(issuer string) *auth.JWTValidator {
	return auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    issuer,
	})
}

func TestJWTValidator_ValidateToken_ValidToken(t *testing.T) {
	validator := testValidator("https://identity.crestline.dev")

	claims := jwt.MapClaims{
		"iss":   "https://identity.crestline.dev",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
		"sub":   "12345678-1234-1234-1234-123456789012",
		"name":  "Dana Whitfield",
		"email": "dana@crestline.dev",
	}

	actor, err := validator.ValidateToken(signTestToken(t, testSecret, claims))

	require.NoError(t, err)
	assert.Equal(t, "Dana Whitfield", actor.DisplayName)
	assert.Equal(t, "dana@crestline.dev", actor.Email)
	assert.Equal(t, "12345678-1234-1234-1234-123456789012", actor.ActorID.String())
}

func TestJWTValidator_ValidateToken_ExpiredToken(t *testing.T) {
	validator := testValidator("")

	claims := jwt.MapClaims{
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"sub":  "12345678-1234-1234-1234-123456789012",
		"name": "Dana Whitfield",
	}

	actor, err := validator.ValidateToken(signTestToken(t, testSecret, claims))

	assert.Nil(t, actor)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTValidator_ValidateToken_WrongSecret(t *testing.T) {
	validator := testValidator("")

	claims := jwt.MapClaims{
		"exp":  time.Now().Add(time.Hour).Unix(),
		"name": "Dana Whitfield",
	}

	actor, err := validator.ValidateToken(signTestToken(t, "a-different-secret", claims))

	assert.Nil(t, actor)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTValidator_ValidateToken_WrongIssuer(t *testing.T) {
	validator := testValidator("https://identity.crestline.dev")

	claims := jwt.MapClaims{
		"iss":  "https://identity.evil.example",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"name": "Dana Whitfield",
	}

	actor, err := validator.ValidateToken(signTestToken(t, testSecret, claims))

	assert.Nil(t, actor)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTValidator_ValidateToken_RejectsUnsignedToken(t *testing.T) {
	validator := testValidator("")

	// alg=none tokens must never pass
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"exp":  time.Now().Add(time.Hour).Unix(),
		"name": "Dana Whitfield",
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	actor, err := validator.ValidateToken(tokenString)

	assert.Nil(t, actor)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTValidator_ValidateToken_InvalidTokenFormat(t *testing.T) {
	validator := testValidator("")

	actor, err := validator.ValidateToken("not-a-valid-jwt-token")

	assert.Nil(t, actor)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTValidator_ValidateToken_ExtractsIdentityFromAlternativeClaims(t *testing.T) {
	validator := testValidator("")

	tests := []struct {
		name          string
		claims        jwt.MapClaims
		expectedName  string
		expectedEmail string
	}{
		{
			name: "name from preferred_username",
			claims: jwt.MapClaims{
				"exp":                time.Now().Add(time.Hour).Unix(),
				"preferred_username": "dana.whitfield",
				"email":              "dana@crestline.dev",
			},
			expectedName:  "dana.whitfield",
			expectedEmail: "dana@crestline.dev",
		},
		{
			name: "email from upn",
			claims: jwt.MapClaims{
				"exp":  time.Now().Add(time.Hour).Unix(),
				"name": "Dana Whitfield",
				"upn":  "dana@crestline.dev",
			},
			expectedName:  "Dana Whitfield",
			expectedEmail: "dana@crestline.dev",
		},
		{
			name: "name claim takes precedence",
			claims: jwt.MapClaims{
				"exp":                time.Now().Add(time.Hour).Unix(),
				"name":               "Dana Whitfield",
				"preferred_username": "dana.whitfield",
				"email":              "dana@crestline.dev",
			},
			expectedName:  "Dana Whitfield",
			expectedEmail: "dana@crestline.dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := validator.ValidateToken(signTestToken(t, testSecret, tt.claims))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, actor.DisplayName)
			assert.Equal(t, tt.expectedEmail, actor.Email)
		})
	}
}

func TestJWTValidator_ValidateToken_DerivesActorIDFromEmailWhenMissing(t *testing.T) {
	validator := testValidator("")

	claims := jwt.MapClaims{
		"exp":   time.Now().Add(time.Hour).Unix(),
		"name":  "Dana Whitfield",
		"email": "dana@crestline.dev",
		// No sub or oid claim
	}

	first, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	require.NoError(t, err)
	second, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", first.ActorID.String())
	// Stable across requests
	assert.Equal(t, first.ActorID, second.ActorID)
}
