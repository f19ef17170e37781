// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/sec"
)

func newKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

/*
TestTokenService_RoundTrip verifies a signed token yields the uploader identity.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key := newKeyPair(t)
	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "test-issuer")

	token, err := service.IssueToken("uploader-1", "tai", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uploader-1", claims.UserID)
	assert.Equal(t, "tai", claims.Username)
}

func TestTokenService_Rejects(t *testing.T) {
	key := newKeyPair(t)
	verifier := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "test-issuer")

	t.Run("foreign_issuer", func(t *testing.T) {
		token, err := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "someone-else").IssueToken("uploader-1", "", time.Minute)
		require.NoError(t, err)

		_, err = verifier.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "test-issuer").IssueToken("uploader-1", "", -time.Hour)
		require.NoError(t, err)

		_, err = verifier.VerifyToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("hs256", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "uploader-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = verifier.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("signing_disabled", func(t *testing.T) {
		_, err := verifier.IssueToken("uploader-1", "", time.Minute)
		assert.ErrorIs(t, err, sec.ErrSigningDisabled)
	})
}

/*
TestTokenService_SubjectFallback accepts tokens that only carry "sub".
*/
func TestTokenService_SubjectFallback(t *testing.T) {
	key := newKeyPair(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:    "test-issuer",
		Subject:   "uploader-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(key)
	require.NoError(t, err)

	claims, err := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "test-issuer").VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uploader-7", claims.UserID)
}

func TestNewTokenService_FromPEM(t *testing.T) {
	key := newKeyPair(t)
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	dir := t.TempDir()
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}), 0o600))

	service, err := sec.NewTokenService("", publicPath, "test-issuer")
	require.NoError(t, err)

	_, err = service.IssueToken("uploader-1", "", time.Minute)
	assert.ErrorIs(t, err, sec.ErrSigningDisabled)

	_, err = sec.NewTokenService("", filepath.Join(dir, "missing.pem"), "test-issuer")
	assert.Error(t, err)
}
