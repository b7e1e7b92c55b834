// Package model defines the data structures used throughout the application.
package model

import "time"

// Account represents a registered user account.
//
// PasswordHash is the bcrypt hash of the local password, or "" when the
// account has no local credential (Facebook-only accounts). FacebookID is
// the linked Facebook user ID, or "" when no identity is linked. Neither
// field ever appears in JSON responses; clients see only the derived
// hasPassword flag on the view.
type Account struct {
	ID           string    `db:"id"`
	Email        *string   `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FacebookID   string    `db:"facebook_id"`
	Profile      Profile   `db:"-"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Profile holds the displayable attributes of an account. Every field is
// optional; nil means the field is unset. BirthDate is an ISO-8601 date
// string ("2006-01-02") rather than a time.Time because clients send dates
// without a time zone.
type Profile struct {
	FirstName *string  `json:"firstName,omitempty" db:"first_name"`
	LastName  *string  `json:"lastName,omitempty"  db:"last_name"`
	BirthDate *string  `json:"birthDate,omitempty" db:"birth_date"`
	Age       *int     `json:"age,omitempty"       db:"age"`
	Gender    *string  `json:"gender,omitempty"    db:"gender"`
	Height    *float64 `json:"height,omitempty"    db:"height"`
	Weight    *float64 `json:"weight,omitempty"    db:"weight"`
	Location  *string  `json:"location,omitempty"  db:"location"`
	Photo     *string  `json:"photo,omitempty"     db:"photo"`
}

// HasPassword reports whether a local password credential is set.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// FacebookLinked reports whether a Facebook identity is linked.
func (a *Account) FacebookLinked() bool {
	return a.FacebookID != ""
}
