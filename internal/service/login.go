package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// msgInvalidLogin is deliberately identical for an unknown email, a
// password-less account and a wrong password, so login cannot be used to
// enumerate accounts.
const msgInvalidLogin = "Email or password is not valid"

// AuthService issues the access tokens the protected endpoints require.
type AuthService struct {
	accounts  repository.AccountRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	facebook  IdentityVerifier
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies.
func NewAuthService(
	accounts repository.AccountRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	facebook IdentityVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		facebook:  facebook,
		logger:    logger,
	}
}

// AuthResult bundles the account view and the issued token so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	Account model.AccountView
	Token   string
}

func invalidLogin() *apperror.AppError {
	return &apperror.AppError{
		Err:     apperror.ErrUnauthenticated,
		Message: msgInvalidLogin,
	}
}

// Login authenticates by email and password and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalidLogin()
		}
		return nil, fmt.Errorf("looking up account by email: %w", err)
	}

	if !account.HasPassword() {
		return nil, invalidLogin()
	}

	if err := s.passwords.Verify(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, invalidLogin()
		}
		return nil, fmt.Errorf("verifying login password: %w", err)
	}

	return s.issue(account)
}

// LoginFacebook authenticates with a Facebook access token. The token is
// resolved to a remote user ID and matched against linked accounts.
func (s *AuthService) LoginFacebook(ctx context.Context, facebookToken string) (*AuthResult, error) {
	if facebookToken == "" {
		return nil, apperror.ValidationFailed("facebookToken", "facebookToken is required")
	}

	remoteID, err := s.facebook.RemoteID(ctx, facebookToken)
	if err != nil {
		return nil, fmt.Errorf("verifying Facebook login token: %w", err)
	}

	account, err := s.accounts.GetByFacebookID(ctx, remoteID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrUnauthenticated,
				Message: "No account is linked to this Facebook user",
			}
		}
		return nil, fmt.Errorf("looking up account by Facebook ID: %w", err)
	}

	return s.issue(account)
}

func (s *AuthService) issue(account *model.Account) (*AuthResult, error) {
	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for account %s: %w", account.ID, err)
	}

	s.logger.Info("login", slog.String("id", account.ID))

	return &AuthResult{
		Account: account.View(model.ViewFull),
		Token:   token,
	}, nil
}
