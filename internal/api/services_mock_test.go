package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) ListTasks(ctx context.Context, status, name string) ([]domain.Task, error) {
	args := m.Called(ctx, status, name)
	tasks, _ := args.Get(0).([]domain.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) ListTasksForUser(
	ctx context.Context,
	actor service.Actor,
	userID, status string,
) ([]domain.Task, error) {
	args := m.Called(ctx, actor, userID, status)
	tasks, _ := args.Get(0).([]domain.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) CreateTask(
	ctx context.Context,
	creatorID uuid.UUID,
	in service.CreateTaskInput,
) (*domain.Task, error) {
	args := m.Called(ctx, creatorID, in)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTaskService) EditTask(ctx context.Context, id string, update service.TaskUpdate) (*domain.Task, error) {
	args := m.Called(ctx, id, update)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *mockTaskService) EditTaskStatus(
	ctx context.Context,
	actor service.Actor,
	id string,
	update service.StatusUpdate,
) (*domain.Task, error) {
	args := m.Called(ctx, actor, id, update)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, name, email, password string) (string, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) Activate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *mockUserService) RefreshAccessToken(ctx context.Context, refreshToken string) (*service.Session, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, actor service.Actor, id string) (*domain.User, error) {
	args := m.Called(ctx, actor, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) UpdateUser(
	ctx context.Context,
	actor service.Actor,
	id string,
	update service.UserUpdate,
) (*service.Session, error) {
	args := m.Called(ctx, actor, id, update)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *mockUserService) UpdatePassword(
	ctx context.Context,
	actor service.Actor,
	id, oldPassword, newPassword, confirmPassword string,
) error {
	return m.Called(ctx, actor, id, oldPassword, newPassword, confirmPassword).Error(0)
}

func (m *mockUserService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockUserService) ResetPassword(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

func (m *mockUserService) ListUsersWithTaskCounts(
	ctx context.Context,
	excludingID uuid.UUID,
) ([]service.UserWithTaskCounts, error) {
	args := m.Called(ctx, excludingID)
	users, _ := args.Get(0).([]service.UserWithTaskCounts)
	return users, args.Error(1)
}
