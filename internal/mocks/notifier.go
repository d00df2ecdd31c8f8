package mocks

import (
	"context"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Notifier is a testify mock of the account and reminder email senders.
type Notifier struct {
	mock.Mock
}

// SendActivation is a mock implementation of the activation email sender.
func (m *Notifier) SendActivation(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

// SendPasswordReset is a mock implementation of the password reset email sender.
func (m *Notifier) SendPasswordReset(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

// SendTaskReminder is a mock implementation of the task reminder email sender.
func (m *Notifier) SendTaskReminder(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
