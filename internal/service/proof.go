package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
)

// proofKind enumerates the supported ways a caller proves authority over
// sensitive account state: the local password or a linked Facebook identity.
type proofKind int

const (
	proofMissing proofKind = iota
	proofPassword
	proofFacebook
)

// proof is the credential proof resolved from a request body, as a tagged
// variant. Resolution never touches the store; rejection of a missing proof
// happens in verify, so each flow controls where that check lands relative
// to the account load.
type proof struct {
	kind  proofKind
	value string // plaintext password or Facebook access token
}

// resolveProof picks the proof method by field presence. The password field
// wins when both are supplied; the Facebook token is considered only when
// no password is given.
func resolveProof(password, facebookToken string) proof {
	switch {
	case password != "":
		return proof{kind: proofPassword, value: password}
	case facebookToken != "":
		return proof{kind: proofFacebook, value: facebookToken}
	default:
		return proof{kind: proofMissing}
	}
}

// proofMessages carries the message texts that differ between the
// change-password and delete-account flows. The preconditions themselves
// are identical.
type proofMessages struct {
	missing         string
	invalidPassword string
}

var (
	changePasswordMessages = proofMessages{
		missing:         apperror.MsgChangePassProofMissing,
		invalidPassword: apperror.MsgOldPasswordInvalid,
	}
	deleteAccountMessages = proofMessages{
		missing:         apperror.MsgDeleteProofMissing,
		invalidPassword: apperror.MsgPasswordInvalid,
	}
)

// verifyProof executes the resolved proof against the loaded account.
//
// Password proof requires a local credential to exist and the plaintext to
// match it. Facebook proof is only valid for password-less accounts (a set
// password must never be bypassable by the weaker proof), requires a linked
// identity, and requires the token to belong to exactly that identity.
//
// Verifier network failures propagate as plain errors, never as Forbidden.
func (s *AccountService) verifyProof(ctx context.Context, account *model.Account, p proof, msgs proofMessages) error {
	switch p.kind {
	case proofPassword:
		if !account.HasPassword() {
			return apperror.Forbidden(apperror.MsgNoPasswordSet)
		}
		if err := s.passwords.Verify(account.PasswordHash, p.value); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return apperror.Forbidden(msgs.invalidPassword)
			}
			return fmt.Errorf("verifying password for account %s: %w", account.ID, err)
		}
		return nil

	case proofFacebook:
		if account.HasPassword() {
			return apperror.Forbidden(apperror.MsgHasPasswordSet)
		}
		if !account.FacebookLinked() {
			return apperror.Forbidden(apperror.MsgNoLinkedFacebook)
		}
		remoteID, err := s.facebook.RemoteID(ctx, p.value)
		if err != nil {
			return fmt.Errorf("verifying Facebook token for account %s: %w", account.ID, err)
		}
		if remoteID != account.FacebookID {
			return apperror.Forbidden(apperror.MsgWrongFacebookUser)
		}
		return nil

	default:
		return apperror.Forbidden(msgs.missing)
	}
}
