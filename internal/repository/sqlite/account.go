package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// compile-time check that *DB implements repository.AccountRepository
var _ repository.AccountRepository = (*DB)(nil)

const accountColumns = `id, email, password_hash, facebook_id,
	first_name, last_name, birth_date, age, gender, height, weight,
	location, photo, created_at, updated_at`

// Create inserts a new account, generating its ID and timestamps.
// Returns apperror.ErrConflict when the email is already taken.
func (db *DB) Create(ctx context.Context, account *model.Account) error {
	if account.Email != nil {
		var existing string
		err := db.conn.QueryRowContext(ctx,
			`SELECT id FROM accounts WHERE email = ?`, *account.Email,
		).Scan(&existing)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sqlite: checking email %s: %w", *account.Email, err)
		}
		if existing != "" {
			return apperror.Conflict("account", *account.Email)
		}
	}

	now := time.Now()
	account.ID = xid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FacebookID,
		account.Profile.FirstName,
		account.Profile.LastName,
		account.Profile.BirthDate,
		account.Profile.Age,
		account.Profile.Gender,
		account.Profile.Height,
		account.Profile.Weight,
		account.Profile.Location,
		account.Profile.Photo,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting account %s: %w", account.ID, err)
	}

	return nil
}

// GetByID retrieves an account by its internal ID.
// Returns apperror.ErrNotFound if no account exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return db.getOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves an account by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return db.getOne(ctx, `WHERE email = ?`, email)
}

// GetByFacebookID retrieves an account by its linked Facebook user ID.
func (db *DB) GetByFacebookID(ctx context.Context, facebookID string) (*model.Account, error) {
	return db.getOne(ctx, `WHERE facebook_id = ? AND facebook_id <> ''`, facebookID)
}

func (db *DB) getOne(ctx context.Context, where string, arg any) (*model.Account, error) {
	var a model.Account

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts `+where, arg,
	).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FacebookID,
		&a.Profile.FirstName,
		&a.Profile.LastName,
		&a.Profile.BirthDate,
		&a.Profile.Age,
		&a.Profile.Gender,
		&a.Profile.Height,
		&a.Profile.Weight,
		&a.Profile.Location,
		&a.Profile.Photo,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("account", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting account (%v): %w", arg, err)
	}

	return &a, nil
}

// Update writes back every mutable field of the account.
// Returns apperror.ErrNotFound if the account no longer exists.
func (db *DB) Update(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE accounts SET
			email = ?, password_hash = ?, facebook_id = ?,
			first_name = ?, last_name = ?, birth_date = ?, age = ?,
			gender = ?, height = ?, weight = ?, location = ?, photo = ?,
			updated_at = ?
		 WHERE id = ?`,
		account.Email,
		account.PasswordHash,
		account.FacebookID,
		account.Profile.FirstName,
		account.Profile.LastName,
		account.Profile.BirthDate,
		account.Profile.Age,
		account.Profile.Gender,
		account.Profile.Height,
		account.Profile.Weight,
		account.Profile.Location,
		account.Profile.Photo,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating account %s: %w", account.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating account %s: %w", account.ID, err)
	}
	if rows == 0 {
		return apperror.NotFound("account", account.ID)
	}

	return nil
}

// Delete permanently removes an account. Hard delete, no tombstone.
// Returns apperror.ErrNotFound if the account does not exist.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting account %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting account %s: %w", id, err)
	}
	if rows == 0 {
		return apperror.NotFound("account", id)
	}

	return nil
}
