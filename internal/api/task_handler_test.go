package api

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTaskID = uuid.MustParse("33333333-3333-3333-3333-333333333333")

func newTaskRouter(t *testing.T, identity auth.Identity) (http.Handler, *mockTaskService) {
	t.Helper()

	tasks := &mockTaskService{}
	t.Cleanup(func() { tasks.AssertExpectations(t) })

	h := NewTaskHandler(tasks)
	r := chi.NewRouter()
	r.Use(withIdentity(identity))
	r.Post("/api/tasks", h.ListTasks)
	r.Post("/api/tasks/user-tasks", h.ListUserTasks)
	r.Get("/api/tasks/single-task/{id}", h.GetTask)
	r.Post("/api/tasks/create-task", h.CreateTask)
	r.Put("/api/tasks/{id}", h.EditTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	r.Put("/api/tasks/status/{id}", h.EditTaskStatus)
	return r, tasks
}

func sampleTask() *domain.Task {
	return &domain.Task{
		ID:        testTaskID,
		Email:     "jane@example.com",
		Title:     "Deploy",
		Deadline:  "2030-01-02",
		Hour:      10,
		Minute:    30,
		CreatedBy: domain.UserRef{ID: testAdminID, Name: "Root"},
		CreatedTo: domain.UserRef{ID: testUserID, Name: "Jane"},
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	t.Run("filters are passed through", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("ListTasks", mock.Anything, "PENDING", "jan").Return([]domain.Task{*sampleTask()}, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/tasks", ListTasksRequest{Status: "PENDING", Name: "jan"})

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Tasks were returned successfully", env.Message)
		assert.Contains(t, string(env.Payload), `"totalTask":1`)
		assert.Contains(t, string(env.Payload), `"createdToTask":{"id":"`+testUserID.String()+`","name":"Jane"}`)
	})

	t.Run("no body lists everything", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("ListTasks", mock.Anything, "", "").Return(nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/tasks", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Task not available...", env.Message)
		assert.JSONEq(t, `{"totalTask":0,"allTasks":[]}`, string(env.Payload))
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("ListTasks", mock.Anything, "DONE", "").Return(nil, service.ErrInvalidStatusFilter)

		rec := doRequest(t, router, http.MethodPost, "/api/tasks", ListTasksRequest{Status: "DONE"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Invalid status", decodeEnvelope(t, rec).Message)
	})
}

func TestTaskHandler_ListUserTasks(t *testing.T) {
	t.Parallel()

	identity := userIdentity()
	router, tasks := newTaskRouter(t, identity)
	tasks.On("ListTasksForUser", mock.Anything, actorOf(identity), testUserID.String(), "COMPLETED").
		Return([]domain.Task{*sampleTask()}, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks/user-tasks",
		UserTasksRequest{ID: testUserID.String(), Status: "COMPLETED"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "For this particular ID, tasks have been counted and returned successfully.",
		decodeEnvelope(t, rec).Message)
}

func TestTaskHandler_GetTask(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, userIdentity())
		tasks.On("GetTask", mock.Anything, testTaskID.String()).Return(sampleTask(), nil)

		rec := doRequest(t, router, http.MethodGet, "/api/tasks/single-task/"+testTaskID.String(), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Task was returned successfully", env.Message)
		assert.Contains(t, string(env.Payload), `"task":{"id":"`+testTaskID.String()+`"`)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, userIdentity())
		tasks.On("GetTask", mock.Anything, "nope").Return(nil, service.ErrInvalidTaskID)

		rec := doRequest(t, router, http.MethodGet, "/api/tasks/single-task/nope", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid task ID", decodeEnvelope(t, rec).Message)
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	valid := `{"createdToTask":"` + testUserID.String() + `","title":"Deploy","tag":"ops",` +
		`"description":"Ship it","deadline":"2030-01-02","hour":10,"minute":0}`

	t.Run("creator is the caller", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		want := service.CreateTaskInput{
			AssigneeID:  testUserID.String(),
			Title:       "Deploy",
			Tag:         "ops",
			Description: "Ship it",
			Deadline:    "2030-01-02",
			Hour:        10,
			Minute:      0,
		}
		tasks.On("CreateTask", mock.Anything, testAdminID, want).Return(sampleTask(), nil)

		rec := doRequest(t, router, http.MethodPost, "/api/tasks/create-task", valid)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Task created successfully", decodeEnvelope(t, rec).Message)
	})

	t.Run("missing minute", func(t *testing.T) {
		t.Parallel()
		router, _ := newTaskRouter(t, adminIdentity())

		rec := doRequest(t, router, http.MethodPost, "/api/tasks/create-task",
			`{"createdToTask":"x","title":"Deploy","description":"d","deadline":"2030-01-02","hour":1}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "minute is required", decodeEnvelope(t, rec).Message)
	})

	t.Run("self assignment", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("CreateTask", mock.Anything, testAdminID, mock.Anything).Return(nil, service.ErrSelfAssignment)

		rec := doRequest(t, router, http.MethodPost, "/api/tasks/create-task", valid)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "You are not allowed to create a task for yourself.", decodeEnvelope(t, rec).Message)
	})

	t.Run("duplicate title", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("CreateTask", mock.Anything, testAdminID, mock.Anything).Return(nil, service.ErrDuplicateTask)

		rec := doRequest(t, router, http.MethodPost, "/api/tasks/create-task", valid)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()
	router, tasks := newTaskRouter(t, adminIdentity())
	tasks.On("DeleteTask", mock.Anything, testTaskID.String()).Return(service.ErrDeleteTaskNotFound)

	rec := doRequest(t, router, http.MethodDelete, "/api/tasks/"+testTaskID.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found.", decodeEnvelope(t, rec).Message)
}

func TestTaskHandler_EditTask(t *testing.T) {
	t.Parallel()

	t.Run("status key is flagged", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("EditTask", mock.Anything, testTaskID.String(),
			mock.MatchedBy(func(u service.TaskUpdate) bool { return u.StatusSent })).
			Return(nil, service.ErrStatusNotEditable)

		rec := doRequest(t, router, http.MethodPut, "/api/tasks/"+testTaskID.String(), `{"status":2}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t,
			"You cannot modify the status. It is assigned by default when the task is created.",
			decodeEnvelope(t, rec).Message)
	})

	t.Run("past deadline", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("EditTask", mock.Anything, testTaskID.String(),
			mock.MatchedBy(func(u service.TaskUpdate) bool {
				return u.Deadline != nil && *u.Deadline == "2020-01-01" && !u.StatusSent
			})).
			Return(nil, domain.ErrDeadlinePast)

		rec := doRequest(t, router, http.MethodPut, "/api/tasks/"+testTaskID.String(), `{"deadline":"2020-01-01"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Deadline cannot be in the past", decodeEnvelope(t, rec).Message)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		router, tasks := newTaskRouter(t, adminIdentity())
		tasks.On("EditTask", mock.Anything, testTaskID.String(),
			mock.MatchedBy(func(u service.TaskUpdate) bool {
				return u.Title != nil && *u.Title == "Deploy v2" && u.Hour != nil && *u.Hour == 0
			})).
			Return(sampleTask(), nil)

		rec := doRequest(t, router, http.MethodPut, "/api/tasks/"+testTaskID.String(), `{"title":"Deploy v2","hour":0}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Task was updated successfully", decodeEnvelope(t, rec).Message)
	})
}

func TestTaskHandler_EditTaskStatus(t *testing.T) {
	t.Parallel()

	t.Run("locked fields are reported", func(t *testing.T) {
		t.Parallel()
		identity := userIdentity()
		router, tasks := newTaskRouter(t, identity)
		tasks.On("EditTaskStatus", mock.Anything, actorOf(identity), testTaskID.String(),
			mock.MatchedBy(func(u service.StatusUpdate) bool {
				return assert.ObjectsAreEqual([]string{"title", "tag"}, u.Fields)
			})).
			Return(nil, &service.FieldNotAllowedError{Field: "title"})

		rec := doRequest(t, router, http.MethodPut, "/api/tasks/status/"+testTaskID.String(),
			`{"status":1,"title":"x","tag":"y"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, `Updating "title" is not allowed`, decodeEnvelope(t, rec).Message)
	})

	t.Run("pending status is forwarded", func(t *testing.T) {
		t.Parallel()
		identity := userIdentity()
		router, tasks := newTaskRouter(t, identity)
		tasks.On("EditTaskStatus", mock.Anything, actorOf(identity), testTaskID.String(),
			mock.MatchedBy(func(u service.StatusUpdate) bool {
				return u.Status != nil && *u.Status == 0 && len(u.Fields) == 0
			})).
			Return(sampleTask(), nil)

		rec := doRequest(t, router, http.MethodPut, "/api/tasks/status/"+testTaskID.String(), `{"status":0}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Status updated successfully", decodeEnvelope(t, rec).Message)
	})

	t.Run("not the assignee", func(t *testing.T) {
		t.Parallel()
		identity := userIdentity()
		router, tasks := newTaskRouter(t, identity)
		tasks.On("EditTaskStatus", mock.Anything, actorOf(identity), testTaskID.String(), mock.Anything).
			Return(nil, service.ErrForbidden)

		rec := doRequest(t, router, http.MethodPut, "/api/tasks/status/"+testTaskID.String(), `{"status":2}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
