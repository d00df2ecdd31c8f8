package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a testify mock of store.TaskStore.
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsActiveTitle is a mock implementation of store.TaskStore.ExistsActiveTitle
func (m *TaskStore) ExistsActiveTitle(ctx context.Context, assigneeID uuid.UUID, title string) (bool, error) {
	args := m.Called(ctx, assigneeID, title)
	return args.Bool(0), args.Error(1)
}

// List is a mock implementation of store.TaskStore.List
func (m *TaskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteByAssignee is a mock implementation of store.TaskStore.DeleteByAssignee
func (m *TaskStore) DeleteByAssignee(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// CountByStatus is a mock implementation of store.TaskStore.CountByStatus
func (m *TaskStore) CountByStatus(
	ctx context.Context,
	assigneeIDs []uuid.UUID,
) (map[uuid.UUID][]store.StatusCount, error) {
	args := m.Called(ctx, assigneeIDs)
	if counts, ok := args.Get(0).(map[uuid.UUID][]store.StatusCount); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindDueForReminder is a mock implementation of store.TaskStore.FindDueForReminder
func (m *TaskStore) FindDueForReminder(ctx context.Context, window store.ReminderWindow) ([]domain.Task, error) {
	args := m.Called(ctx, window)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkReminderSent is a mock implementation of store.TaskStore.MarkReminderSent
func (m *TaskStore) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MarkOverdueFailed is a mock implementation of store.TaskStore.MarkOverdueFailed
func (m *TaskStore) MarkOverdueFailed(ctx context.Context, cutoff store.OverdueCutoff) ([]uuid.UUID, error) {
	args := m.Called(ctx, cutoff)
	if ids, ok := args.Get(0).([]uuid.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself so expectations hold inside transactions.
func (m *TaskStore) WithTx(_ *sqlx.Tx) store.TaskStore {
	return m
}
