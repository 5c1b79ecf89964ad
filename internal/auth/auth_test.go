package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

var student = Session{UserID: 7, Email: "student@uni.edu", Role: RoleStudent}

func TestHashPassword(t *testing.T) {
	t.Run("hashes and salts", func(t *testing.T) {
		hash1, err := HashPassword("mySecurePassword123")
		require.NoError(t, err)
		hash2, err := HashPassword("mySecurePassword123")
		require.NoError(t, err)

		assert.NotEqual(t, "mySecurePassword123", hash1)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("correctPassword")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "correctPassword"))
	assert.False(t, CheckPassword(hashed, "wrongPassword"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestGenerateAccessToken(t *testing.T) {
	t.Run("token carries the session", func(t *testing.T) {
		token, err := GenerateAccessToken(student, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, student, claims.Session())
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)
	})

	t.Run("empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(student, "")
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})
}

func TestTokenTTL(t *testing.T) {
	tests := []struct {
		name     string
		generate func(Session, string) (string, error)
		ttl      time.Duration
		kind     string
	}{
		{"access", GenerateAccessToken, AccessTokenTTL, tokenTypeAccess},
		{"refresh", GenerateRefreshToken, RefreshTokenTTL, tokenTypeRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.generate(student, testSecret)
			require.NoError(t, err)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, claims.TokenType)
			diff := claims.ExpiresAt.Time.Sub(time.Now().Add(tt.ttl)).Abs()
			assert.Less(t, diff, 2*time.Second)
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	accessToken, refreshToken, err := GenerateTokens(student, "access-secret", "refresh-secret")
	require.NoError(t, err)
	assert.NotEqual(t, accessToken, refreshToken)

	_, _, err = GenerateTokens(student, "", "refresh-secret")
	assert.Error(t, err)

	a, r, err := GenerateTokens(student, "access-secret", "")
	assert.Error(t, err)
	assert.Empty(t, a)
	assert.Empty(t, r)
}

func signExpired(t *testing.T, tokenType string, secret string) string {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	claims := &JWTClaims{
		UserID:    student.UserID,
		Email:     student.Email,
		Role:      student.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-15 * time.Minute)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(student, testSecret)
	require.NoError(t, err)

	t.Run("empty secret", func(t *testing.T) {
		claims, err := ValidateToken(token, "")
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Nil(t, claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims, err := ValidateToken(token, "wrong-secret")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("garbage", func(t *testing.T) {
		claims, err := ValidateToken("invalid.token.format", testSecret)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired", func(t *testing.T) {
		claims, err := ValidateToken(signExpired(t, tokenTypeAccess, testSecret), testSecret)
		assert.Equal(t, ErrTokenExpired, err)
		assert.Nil(t, claims)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	accessSecret := "access-secret"
	refreshSecret := "refresh-secret"

	t.Run("issues a usable access token", func(t *testing.T) {
		refreshToken, err := GenerateRefreshToken(student, refreshSecret)
		require.NoError(t, err)

		newAccess, claims, err := RefreshAccessToken(refreshToken, refreshSecret, accessSecret)
		require.NoError(t, err)
		assert.Equal(t, student, claims.Session())

		accessClaims, err := ValidateToken(newAccess, accessSecret)
		require.NoError(t, err)
		assert.Equal(t, tokenTypeAccess, accessClaims.TokenType)
	})

	t.Run("rejects access tokens", func(t *testing.T) {
		accessToken, err := GenerateAccessToken(student, accessSecret)
		require.NoError(t, err)

		newAccess, claims, err := RefreshAccessToken(accessToken, accessSecret, accessSecret)
		assert.Equal(t, ErrInvalidTokenType, err)
		assert.Empty(t, newAccess)
		assert.Nil(t, claims)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		newAccess, claims, err := RefreshAccessToken(signExpired(t, tokenTypeRefresh, refreshSecret), refreshSecret, accessSecret)
		assert.Equal(t, ErrTokenExpired, err)
		assert.Empty(t, newAccess)
		assert.Nil(t, claims)
	})
}
