package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidUserName     = errors.New("invalid user name")
)

// User name bounds, in characters.
const (
	UserNameMinLength = 3
	UserNameMaxLength = 40
)

// User is an activated account. Users are only created once their emailed
// activation token has been verified.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a non-admin user from an already hashed password.
// The name is trimmed and the email lowercased before validation.
func NewUser(name, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if err := ValidateUserName(u.Name); err != nil {
		return err
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !IsValidEmail(u.Email) {
		return ErrInvalidEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// Rename sets a new display name and bumps UpdatedAt.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := ValidateUserName(name); err != nil {
		return err
	}
	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetHashedPassword replaces the stored hash and bumps UpdatedAt.
func (u *User) SetHashedPassword(hash string) error {
	if hash == "" {
		return ErrEmptyHashedPassword
	}
	u.HashedPassword = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateUserName checks the trimmed length of a display name.
func ValidateUserName(name string) error {
	n := len([]rune(name))
	switch {
	case n < UserNameMinLength:
		return NewValidationError("name", "Name must be at least 3 characters", ErrInvalidUserName)
	case n > UserNameMaxLength:
		return NewValidationError("name", "Name cannot exceed 40 characters", ErrInvalidUserName)
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address. Emails are stored
// and compared in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether email is a bare RFC 5322 address.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}
