package store

import (
	"errors"
	"testing"
)

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create(" Alice ", "Smith", "Alice@Example.com ", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Firstname != "Alice" {
		t.Errorf("firstname = %q, want %q", u.Firstname, "Alice")
	}
	if u.PasswordHash != "hash" {
		t.Errorf("password_hash = %q, want %q", u.PasswordHash, "hash")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("Alice", "Smith", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := us.Create("Alice", "Jones", "ALICE@example.com", "hash")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestUserGetByEmailCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	created := createTestUser(t, db, "alice@example.com")

	u, err := us.GetByEmail("ALICE@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want user %d", u, created.ID)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserUpdateName(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	u := createTestUser(t, db, "alice@example.com")

	updated, err := us.UpdateName(u.ID, "Alicia", "Smythe")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Firstname != "Alicia" || updated.Lastname != "Smythe" {
		t.Errorf("name = %q %q, want Alicia Smythe", updated.Firstname, updated.Lastname)
	}
}
