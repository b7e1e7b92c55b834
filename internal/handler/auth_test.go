package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/handler"
	"github.com/sakif/account-service/internal/service"
)

// newAuthEnv extends the account environment with the login handler and a
// token service, sharing the same stores.
func newAuthEnv(t *testing.T, graphTokens map[string]string) (*testEnv, *handler.AuthHandler, *auth.TokenService) {
	t.Helper()
	env := newTestEnv(t, graphTokens)

	tokens, err := auth.NewTokenService("test-secret-0123456789abcdef")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	passwords := auth.NewPasswordServiceForTest(4)

	svc := service.NewAuthService(env.db, tokens, passwords, stubVerifier(graphTokens), logger)

	return env, handler.NewAuthHandler(svc, logger), tokens
}

// stubVerifier is a map-backed IdentityVerifier for the login tests.
type stubVerifier map[string]string

func (s stubVerifier) RemoteID(_ context.Context, accessToken string) (string, error) {
	if id, ok := s[accessToken]; ok {
		return id, nil
	}
	return "", errors.New("graph API: invalid token")
}

func TestHandleLogin(t *testing.T) {
	env, authHandler, tokens := newAuthEnv(t, nil)
	createAccount(t, env, map[string]any{
		"email":    "ada@example.com",
		"password": "secret",
	})

	t.Run("success", func(t *testing.T) {
		rec := execute(authHandler.HandleLogin, http.MethodPost, "/api/login", "", map[string]any{
			"email":    "ada@example.com",
			"password": "secret",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.AccessToken)

		// the token identifies the account
		_, err := tokens.Validate(resp.AccessToken)
		assert.NoError(t, err)

		// and rides along as an HttpOnly cookie for browsers
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Equal(t, resp.AccessToken, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := execute(authHandler.HandleLogin, http.MethodPost, "/api/login", "", map[string]any{
			"email":    "ada@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Email or password is not valid", decodeError(t, rec).Message)
	})
}

func TestHandleLogin_Facebook(t *testing.T) {
	graphTokens := map[string]string{"fb-token": "fb-user-1"}
	env, authHandler, _ := newAuthEnv(t, graphTokens)
	createAccount(t, env, map[string]any{"facebookToken": "fb-token"})

	rec := execute(authHandler.HandleLogin, http.MethodPost, "/api/login", "", map[string]any{
		"facebookToken": "fb-token",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestHandleLogout(t *testing.T) {
	_, authHandler, _ := newAuthEnv(t, nil)

	rec := execute(authHandler.HandleLogout, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
