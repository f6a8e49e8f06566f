package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workwhiz/internal/api/adapters/services"
	domain "workwhiz/internal/api/domain/services"
	ports "workwhiz/internal/api/ports/services"
)

const strongPassword = "Str0ng!Passw0rd"

func TestBcrypt(t *testing.T) {
	ctx := context.Background()
	svc := services.NewBcrypt(bcrypt.MinCost)

	hash, err := svc.Hash(ctx, strongPassword)
	require.NoError(t, err)
	assert.NotEqual(t, strongPassword, hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	ok, err := svc.Verify(ctx, strongPassword, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok, "mismatch is not an error")

	t.Run("пустые значения", func(t *testing.T) {
		_, err := svc.Hash(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidPassword)

		_, err = svc.Verify(ctx, strongPassword, "")
		assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	})

	t.Run("битый хеш", func(t *testing.T) {
		_, err := svc.Verify(ctx, strongPassword, "not-a-hash")
		assert.Error(t, err)
	})

	t.Run("стоимость по умолчанию", func(t *testing.T) {
		hash, err := services.NewBcrypt(0).Hash(ctx, "x")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}

func TestJWT_IssueParse(t *testing.T) {
	ctx := context.Background()
	svc := services.NewJWT("secret", time.Hour)

	token, err := svc.Issue(ctx, domain.TokenClaims{
		UserID:  "user-1",
		Email:   "jane@acme.io",
		Role:    "candidate",
		Purpose: domain.PurposePasswordSetup,
	})
	require.NoError(t, err)

	claims, err := svc.Parse(ctx, token, domain.PurposePasswordSetup)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane@acme.io", claims.Email)
	assert.Equal(t, "candidate", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

	t.Run("другое назначение", func(t *testing.T) {
		_, err := svc.Parse(ctx, token, domain.PurposePasswordReset)
		assert.ErrorIs(t, err, domain.ErrTokenPurpose)
	})

	t.Run("другой секрет", func(t *testing.T) {
		_, err := services.NewJWT("other", time.Hour).Parse(ctx, token, domain.PurposePasswordSetup)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("мусор", func(t *testing.T) {
		_, err := svc.Parse(ctx, "not.a.token", domain.PurposePasswordSetup)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestJWT_Expired(t *testing.T) {
	ctx := context.Background()
	svc := services.NewJWT("secret", time.Hour)

	token, err := svc.Issue(ctx, domain.TokenClaims{
		UserID:    "user-1",
		Purpose:   domain.PurposePasswordReset,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = svc.Parse(ctx, token, domain.PurposePasswordReset)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestJWT_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{
		Purpose: string(domain.PurposePasswordSetup),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = services.NewJWT("secret", time.Hour).Parse(context.Background(), signed, domain.PurposePasswordSetup)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWT_EmptySecret(t *testing.T) {
	_, err := services.NewJWT("", time.Hour).Issue(context.Background(), domain.TokenClaims{UserID: "u"})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestServiceFactory(t *testing.T) {
	factory := services.NewServiceFactory("secret", time.Hour, bcrypt.MinCost)
	require.NotNil(t, factory)

	assert.Implements(t, (*ports.PasswordService)(nil), factory.PasswordService())
	assert.Implements(t, (*ports.TokenService)(nil), factory.TokenService())
	assert.Same(t, factory.TokenService(), factory.TokenService())
}
