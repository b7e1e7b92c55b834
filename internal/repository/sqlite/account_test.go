package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
)

// newTestDB opens an in-memory database that disappears when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	account := &model.Account{
		Email:        strPtr("ada@example.com"),
		PasswordHash: "hash",
		FacebookID:   "fb1",
		Profile: model.Profile{
			FirstName: strPtr("Ada"),
			Age:       intPtr(36),
		},
	}
	if err := db.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if account.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}
	if account.CreatedAt.IsZero() || account.UpdatedAt.IsZero() {
		t.Error("Create() did not assign timestamps")
	}

	got, err := db.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email == nil || *got.Email != "ada@example.com" {
		t.Errorf("email = %v, want ada@example.com", got.Email)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("passwordHash = %q, want hash", got.PasswordHash)
	}
	if got.Profile.FirstName == nil || *got.Profile.FirstName != "Ada" {
		t.Errorf("firstName = %v, want Ada", got.Profile.FirstName)
	}
	if got.Profile.Age == nil || *got.Profile.Age != 36 {
		t.Errorf("age = %v, want 36", got.Profile.Age)
	}
	if got.Profile.LastName != nil {
		t.Errorf("lastName should be nil, got %q", *got.Profile.LastName)
	}
}

func TestCreate_NoEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Two accounts without email must coexist: the UNIQUE constraint only
	// applies to non-NULL values.
	for i := 0; i < 2; i++ {
		if err := db.Create(ctx, &model.Account{}); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Create(ctx, &model.Account{Email: strPtr("taken@example.com")}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := db.Create(ctx, &model.Account{Email: strPtr("taken@example.com")})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	account := &model.Account{Email: strPtr("find@example.com")}
	if err := db.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.GetByEmail(ctx, "find@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != account.ID {
		t.Errorf("ID = %q, want %q", got.ID, account.ID)
	}

	_, err = db.GetByEmail(ctx, "other@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByFacebookID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	linked := &model.Account{FacebookID: "fb123"}
	if err := db.Create(ctx, linked); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// An unlinked account has an empty facebook_id and must never match.
	if err := db.Create(ctx, &model.Account{}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.GetByFacebookID(ctx, "fb123")
	if err != nil {
		t.Fatalf("GetByFacebookID() error = %v", err)
	}
	if got.ID != linked.ID {
		t.Errorf("ID = %q, want %q", got.ID, linked.ID)
	}

	_, err = db.GetByFacebookID(ctx, "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("empty facebook ID must not match, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	account := &model.Account{
		Email:   strPtr("ada@example.com"),
		Profile: model.Profile{FirstName: strPtr("Ada"), Age: intPtr(36)},
	}
	if err := db.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	account.PasswordHash = "new-hash"
	account.Profile.FirstName = strPtr("Grace")
	account.Profile.Age = nil // cleared fields round-trip as NULL
	if err := db.Update(ctx, account); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("passwordHash = %q, want new-hash", got.PasswordHash)
	}
	if got.Profile.FirstName == nil || *got.Profile.FirstName != "Grace" {
		t.Errorf("firstName = %v, want Grace", got.Profile.FirstName)
	}
	if got.Profile.Age != nil {
		t.Errorf("age should be NULL after clearing, got %d", *got.Profile.Age)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Account{ID: "missing"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	account := &model.Account{Email: strPtr("gone@example.com")}
	if err := db.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := db.Delete(ctx, account.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(ctx, account.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// The freed email is usable again after a hard delete.
	if err := db.Create(ctx, &model.Account{Email: strPtr("gone@example.com")}); err != nil {
		t.Errorf("re-creating with the freed email failed: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
