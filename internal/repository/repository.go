// Package repository declares the storage interfaces consumed by the
// service layer. Concrete implementations live in the sqlite and redisrepo
// subpackages; tests substitute hand-written fakes.
package repository

import (
	"context"

	"github.com/sakif/account-service/internal/model"
)

// AccountRepository persists user accounts.
//
// Lookups return apperror.ErrNotFound (wrapped) when no account matches;
// the service layer decides whether that surfaces as 401 or 404.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByFacebookID(ctx context.Context, facebookID string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id string) error
}

// DeviceRepository persists push-notification device registrations,
// keyed by player ID.
type DeviceRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (*model.DeviceRegistration, error)
	Save(ctx context.Context, reg *model.DeviceRegistration) error
	DeleteByPlayerID(ctx context.Context, playerID string) error
}
