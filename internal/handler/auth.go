package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/service"
)

// AuthHandler exposes the login endpoint that issues access tokens.
type AuthHandler struct {
	sessions *service.AuthService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

// loginRequest accepts either email+password or a Facebook access token.
type loginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FacebookToken string `json:"facebookToken"`
}

// loginResponse returns the token in the body for mobile clients; browser
// clients rely on the HttpOnly cookie set alongside it.
type loginResponse struct {
	Account any    `json:"account"`
	Token   string `json:"accessToken"`
}

// HandleLogin authenticates a caller and issues an access token.
//
// HTTP: POST /api/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	var (
		result *service.AuthResult
		err    error
	)
	if req.FacebookToken != "" && req.Password == "" {
		result, err = h.sessions.LoginFacebook(r.Context(), req.FacebookToken)
	} else {
		result, err = h.sessions.Login(r.Context(), req.Email, req.Password)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	// HttpOnly keeps the token away from page scripts; SameSite=Lax blocks
	// it on cross-site POSTs.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Account: result.Account,
		Token:   result.Token,
	})
}

// HandleLogout clears the token cookie. Stateless tokens stay technically
// valid until expiry; without the cookie the browser can no longer send one.
//
// HTTP: POST /api/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
