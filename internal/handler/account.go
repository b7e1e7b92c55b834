// Package handler is the HTTP layer: it parses requests, calls services and
// writes JSON responses. No business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/service"
)

// AccountHandler exposes the account endpoints.
//
//	GET    /api/account           → HandleGet
//	GET    /api/account/password  → HandlePasswordStatus
//	POST   /api/accounts          → HandleCreate          (no auth)
//	PATCH  /api/account           → HandleUpdateProfile
//	PUT    /api/account/password  → HandleChangePassword
//	POST   /api/account/devices   → HandleRegisterDevice
//	DELETE /api/account           → HandleDelete
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// callerID reads the account ID the auth middleware stored in the context.
// Routes using this are always behind RequireAuth; the false branch guards
// against a route being wired without it.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return "", false
	}
	return id, true
}

// HandleGet returns the caller's account view.
//
// HTTP: GET /api/account?profile=basic|full
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r)
	if !ok {
		return
	}

	level := model.ParseViewLevel(r.URL.Query().Get("profile"))

	view, err := h.accounts.Get(r.Context(), id, level)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandlePasswordStatus reports whether the caller has a password set.
//
// HTTP: GET /api/account/password
func (h *AccountHandler) HandlePasswordStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r)
	if !ok {
		return
	}

	hasPassword, err := h.accounts.PasswordStatus(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"hasPassword": hasPassword})
}

// createAccountRequest is the registration body.
type createAccountRequest struct {
	Email         *string       `json:"email"`
	Password      string        `json:"password"`
	FacebookToken string        `json:"facebookToken"`
	Profile       model.Profile `json:"profile"`
}

// HandleCreate registers a new account.
//
// HTTP: POST /api/accounts (unauthenticated)
func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create-account JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	view, err := h.accounts.Create(r.Context(), service.CreateAccountInput{
		Email:         req.Email,
		Password:      req.Password,
		FacebookToken: req.FacebookToken,
		Profile:       req.Profile,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// updateProfileRequest is the profile patch body. Email is optional;
// absent leaves the stored email untouched. The profile object is a
// copy-or-clear sync: fields omitted from it are CLEARED on the account.
type updateProfileRequest struct {
	Email   *string       `json:"email"`
	Profile model.Profile `json:"profile"`
}

// HandleUpdateProfile applies a profile patch.
//
// HTTP: PATCH /api/account
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update-profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	view, err := h.accounts.UpdateProfile(r.Context(), id, service.UpdateProfileInput{
		Email:   req.Email,
		Profile: req.Profile,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// changePasswordRequest is the change-password body. Exactly one of
// oldPassword and facebookToken is expected as proof.
type changePasswordRequest struct {
	OldPassword   string `json:"oldPassword"`
	FacebookToken string `json:"facebookToken"`
	Password      string `json:"password"`
}

// HandleChangePassword replaces the caller's password.
//
// HTTP: PUT /api/account/password
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid change-password JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	view, err := h.accounts.ChangePassword(r.Context(), id, service.ChangePasswordInput{
		OldPassword:   req.OldPassword,
		FacebookToken: req.FacebookToken,
		Password:      req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// registerDeviceRequest is the device registration body.
type registerDeviceRequest struct {
	PlayerID string `json:"playerId"`
}

// HandleRegisterDevice records the caller's push player ID.
//
// HTTP: POST /api/account/devices
// Success body is an empty object.
func (h *AccountHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r)
	if !ok {
		return
	}

	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register-device JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	if err := h.accounts.RegisterDevice(r.Context(), id, req.PlayerID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

// deleteAccountRequest is the delete-account body. One of password and
// facebookToken is required as proof.
type deleteAccountRequest struct {
	Password      string `json:"password"`
	FacebookToken string `json:"facebookToken"`
}

// HandleDelete permanently removes the caller's account.
//
// HTTP: DELETE /api/account
// Success body is an empty object.
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r)
	if !ok {
		return
	}

	var req deleteAccountRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("invalid delete-account JSON", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
			return
		}
	}

	if err := h.accounts.DeleteAccount(r.Context(), id, service.DeleteAccountInput{
		Password:      req.Password,
		FacebookToken: req.FacebookToken,
	}); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}
