package mocks

import (
	"errors"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare by default
// when the candidate does not equal the "hash".
var ErrPasswordMismatch = errors.New("mock: password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing. By default
// Hash prefixes the password with "hashed:" and Compare checks that prefix.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// HashCallCount tracks how many times Hash was called
	HashCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordHasher
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != "hashed:"+password {
		return ErrPasswordMismatch
	}
	return nil
}
