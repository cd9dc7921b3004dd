package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("jdoe", "jdoe@company.com", "s3cret-passw0rd", RoleEmployee)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Username != "jdoe" {
		t.Errorf("Expected username jdoe, got %s", user.Username)
	}

	if user.Role != RoleEmployee {
		t.Errorf("Expected role %s, got %s", RoleEmployee, user.Role)
	}

	// Invalid role
	if _, err := NewUser("jdoe", "jdoe@company.com", "s3cret-passw0rd", UserRole("root")); err != ErrInvalidRole {
		t.Errorf("Expected error %v, got %v", ErrInvalidRole, err)
	}

	// Short password
	if _, err := NewUser("jdoe", "jdoe@company.com", "short", RoleEmployee); err != ErrPasswordTooShort {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	// Empty username
	if _, err := NewUser("", "jdoe@company.com", "s3cret-passw0rd", RoleEmployee); err != ErrEmptyUsername {
		t.Errorf("Expected error %v, got %v", ErrEmptyUsername, err)
	}
}

func TestUserValidateEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		email string
		valid bool
	}{
		{"admin@company.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"@company.com", false},
		{"admin@", false},
		{"admin@company", false},
		{"admin@.com", false},
	}

	for _, tc := range cases {
		user := User{
			ID:             uuid.New(),
			Username:       "admin",
			Email:          tc.email,
			Role:           RoleAdmin,
			HashedPassword: "hashed",
		}

		err := user.Validate()
		if tc.valid && err != nil {
			t.Errorf("Expected %q to be valid, got %v", tc.email, err)
		}
		if !tc.valid && err != ErrInvalidEmail {
			t.Errorf("Expected %q to fail with %v, got %v", tc.email, ErrInvalidEmail, err)
		}
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the database has no plaintext password.
	stored := User{
		ID:             uuid.New(),
		Username:       "admin",
		Email:          "admin@company.com",
		Role:           RoleAdmin,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}

	if err := stored.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	stored.HashedPassword = ""
	if err := stored.Validate(); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}
