// Package service contains the business logic layer.
//
// AccountService owns the account mutation workflows:
//
//	AccountHandler (HTTP) → AccountService (rules) → AccountRepository (DB)
//	                                               → DeviceRepository (Redis)
//	                                               → IdentityVerifier (Facebook)
//
// Handlers parse requests and map errors to HTTP; everything below this
// line is protocol-agnostic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// IdentityVerifier confirms that a client-supplied social access token
// belongs to a specific remote user. Implemented by auth.FacebookVerifier;
// tests substitute a fake.
type IdentityVerifier interface {
	RemoteID(ctx context.Context, accessToken string) (string, error)
}

// AccountService handles account reads and mutations.
type AccountService struct {
	accounts  repository.AccountRepository
	devices   repository.DeviceRepository
	passwords *auth.PasswordService
	facebook  IdentityVerifier
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all dependencies.
func NewAccountService(
	accounts repository.AccountRepository,
	devices repository.DeviceRepository,
	passwords *auth.PasswordService,
	facebook IdentityVerifier,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		devices:   devices,
		passwords: passwords,
		facebook:  facebook,
		logger:    logger,
	}
}

// loadCaller resolves the caller's account. A caller ID with no matching
// account means the access token outlived the account; always surfaced as
// Unauthenticated, never as NotFound.
func (s *AccountService) loadCaller(ctx context.Context, callerID string) (*model.Account, error) {
	account, err := s.accounts.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated()
		}
		return nil, fmt.Errorf("loading account %s: %w", callerID, err)
	}
	return account, nil
}

// Get returns the caller's account projected at the given detail level.
func (s *AccountService) Get(ctx context.Context, callerID string, level model.ViewLevel) (model.AccountView, error) {
	account, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return model.AccountView{}, err
	}
	return account.View(level), nil
}

// PasswordStatus reports whether the caller has a local password set.
func (s *AccountService) PasswordStatus(ctx context.Context, callerID string) (bool, error) {
	account, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return false, err
	}
	return account.HasPassword(), nil
}

// CreateAccountInput is the registration payload. Password and
// FacebookToken are both optional; an account may start with either, both,
// or neither.
type CreateAccountInput struct {
	Email         *string
	Password      string
	FacebookToken string
	Profile       model.Profile
}

// Create registers a new account. The initial password, when given, is
// hashed here; a Facebook token, when given, is verified and the remote
// identity linked.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (model.AccountView, error) {
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return model.AccountView{}, apperror.ValidationFailed("email", "a valid email address is required")
		}
		in.Email = &email
	}

	account := &model.Account{
		Email:   in.Email,
		Profile: in.Profile,
	}

	if in.Password != "" {
		hash, err := s.passwords.Hash(in.Password)
		if err != nil {
			return model.AccountView{}, apperror.ValidationFailed("password", err.Error())
		}
		account.PasswordHash = hash
	}

	if in.FacebookToken != "" {
		remoteID, err := s.facebook.RemoteID(ctx, in.FacebookToken)
		if err != nil {
			return model.AccountView{}, fmt.Errorf("verifying Facebook token on signup: %w", err)
		}
		account.FacebookID = remoteID
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return model.AccountView{}, err
	}

	s.logger.Info("account created",
		slog.String("id", account.ID),
		slog.Bool("hasPassword", account.HasPassword()),
		slog.Bool("facebookLinked", account.FacebookLinked()),
	)

	return account.View(model.ViewFull), nil
}

// UpdateProfileInput is the profile patch. Email is applied only when the
// body defines it; the Profile fields are copied-or-cleared unconditionally
// (see copyOrClearProfile).
type UpdateProfileInput struct {
	Email   *string
	Profile model.Profile
}

// UpdateProfile applies the patch to the caller's account and returns the
// updated view.
func (s *AccountService) UpdateProfile(ctx context.Context, callerID string, in UpdateProfileInput) (model.AccountView, error) {
	account, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return model.AccountView{}, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return model.AccountView{}, apperror.ValidationFailed("email", "a valid email address is required")
		}
		account.Email = &email
	}

	copyOrClearProfile(&account.Profile, in.Profile)

	if err := s.accounts.Update(ctx, account); err != nil {
		return model.AccountView{}, fmt.Errorf("updating account %s: %w", callerID, err)
	}

	s.logger.Info("profile updated", slog.String("id", account.ID))

	return account.View(model.ViewFull), nil
}

// copyOrClearProfile overwrites every patchable profile field of dst with
// the corresponding field of src.
//
// This is a copy-or-clear sync, not a sparse merge: a field omitted from
// the patch arrives as nil and CLEARS the stored value. Clients must always
// send the complete profile they want to keep. Fields outside this fixed
// list can never be written through a patch.
func copyOrClearProfile(dst *model.Profile, src model.Profile) {
	dst.FirstName = src.FirstName
	dst.LastName = src.LastName
	dst.BirthDate = src.BirthDate
	dst.Age = src.Age
	dst.Gender = src.Gender
	dst.Height = src.Height
	dst.Weight = src.Weight
	dst.Location = src.Location
	dst.Photo = src.Photo
}

// ChangePasswordInput carries the change-password request body. Exactly one
// of OldPassword and FacebookToken is expected; OldPassword wins if both
// are present.
type ChangePasswordInput struct {
	OldPassword   string
	FacebookToken string
	Password      string
}

// ChangePassword replaces the caller's password after verifying a
// credential proof.
//
// Ordering contract: the proof is resolved up front without touching the
// store, but a missing proof is only rejected after the account load: a
// caller with a stale token and no proof observes Unauthenticated, not
// Forbidden. DeleteAccount orders these checks the other way around.
func (s *AccountService) ChangePassword(ctx context.Context, callerID string, in ChangePasswordInput) (model.AccountView, error) {
	if in.Password == "" {
		return model.AccountView{}, apperror.ValidationFailed("password", "new password is required")
	}

	p := resolveProof(in.OldPassword, in.FacebookToken)

	account, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return model.AccountView{}, err
	}

	if err := s.verifyProof(ctx, account, p, changePasswordMessages); err != nil {
		return model.AccountView{}, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return model.AccountView{}, apperror.ValidationFailed("password", err.Error())
	}
	account.PasswordHash = hash

	if err := s.accounts.Update(ctx, account); err != nil {
		return model.AccountView{}, fmt.Errorf("saving new password for account %s: %w", callerID, err)
	}

	s.logger.Info("password changed", slog.String("id", account.ID))

	return account.View(model.ViewFull), nil
}

// RegisterDevice records the caller's push-notification player ID.
//
// Any existing registration for the same player ID, even one owned by a
// different account, is removed first, so a device follows whoever logs in
// on it and never receives another account's notifications.
func (s *AccountService) RegisterDevice(ctx context.Context, callerID, playerID string) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return apperror.ValidationFailed("playerId", "playerId is required")
	}

	existing, err := s.devices.GetByPlayerID(ctx, playerID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("looking up device %s: %w", playerID, err)
	}

	if existing != nil {
		if err := s.devices.DeleteByPlayerID(ctx, playerID); err != nil {
			return fmt.Errorf("removing previous registration for device %s: %w", playerID, err)
		}
		if existing.AccountID != callerID {
			s.logger.Info("device transferred",
				slog.String("playerId", playerID),
				slog.String("from", existing.AccountID),
				slog.String("to", callerID),
			)
		}
	}

	reg := &model.DeviceRegistration{
		AccountID: callerID,
		PlayerID:  playerID,
	}
	if err := s.devices.Save(ctx, reg); err != nil {
		return fmt.Errorf("saving registration for device %s: %w", playerID, err)
	}

	return nil
}

// DeleteAccountInput carries the delete-account request body. Password wins
// over FacebookToken when both are present.
type DeleteAccountInput struct {
	Password      string
	FacebookToken string
}

// DeleteAccount permanently removes the caller's account after verifying a
// credential proof. Hard delete; the ID is never reused but nothing of the
// record survives.
//
// Ordering contract: a missing proof is rejected before any store access,
// so a caller with a stale token and no proof observes Forbidden here,
// the mirror image of ChangePassword's ordering.
func (s *AccountService) DeleteAccount(ctx context.Context, callerID string, in DeleteAccountInput) error {
	p := resolveProof(in.Password, in.FacebookToken)
	if p.kind == proofMissing {
		return apperror.Forbidden(apperror.MsgDeleteProofMissing)
	}

	account, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return err
	}

	if err := s.verifyProof(ctx, account, p, deleteAccountMessages); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return fmt.Errorf("deleting account %s: %w", account.ID, err)
	}

	s.logger.Info("account deleted", slog.String("id", account.ID))

	return nil
}
