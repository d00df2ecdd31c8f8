package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/service"
)

const requestTimeout = 30 * time.Second

// routerDeps are the collaborators the HTTP routes need.
type routerDeps struct {
	users   service.UserService
	tasks   service.TaskService
	auth    *apiMiddleware.AuthMiddleware
	cookies api.CookieConfig
	logger  *slog.Logger
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		users:   app.userService,
		tasks:   app.taskService,
		auth:    apiMiddleware.NewAuthMiddleware(app.jwtService),
		cookies: api.NewCookieConfig(app.config.Auth),
		logger:  app.logger,
	})
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(deps.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	authHandler := api.NewAuthHandler(deps.users, deps.cookies, deps.logger)
	userHandler := api.NewUserHandler(deps.users, deps.cookies, deps.logger)
	taskHandler := api.NewTaskHandler(deps.tasks)

	loggedIn := deps.auth.IsLoggedIn
	loggedOut := deps.auth.IsLoggedOut
	admin := apiMiddleware.RequireAdmin

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loggedOut).Post("/login", authHandler.Login)
			r.With(loggedIn).Post("/logout", authHandler.Logout)
			r.Get("/refresh-token", authHandler.RefreshToken)
		})

		r.Route("/users", func(r chi.Router) {
			// Public
			r.Post("/forgot-password", userHandler.ForgotPassword)
			r.Put("/reset-password", userHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(loggedOut)
				r.Post("/register", userHandler.Register)
				r.Post("/verify-account", userHandler.VerifyAccount)
			})

			r.Group(func(r chi.Router) {
				r.Use(loggedIn)
				r.With(admin).Get("/", userHandler.ListUsers)
				r.Get("/{id}", userHandler.GetUser)
				r.Put("/{id}", userHandler.UpdateUser)
				r.With(admin).Delete("/{id}", userHandler.DeleteUser)
				r.Put("/update-password/{id}", userHandler.UpdatePassword)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(loggedIn)
			r.With(admin).Post("/", taskHandler.ListTasks)
			r.Post("/user-tasks", taskHandler.ListUserTasks)
			r.Get("/single-task/{id}", taskHandler.GetTask)
			r.With(admin).Post("/create-task", taskHandler.CreateTask)
			r.With(admin).Put("/{id}", taskHandler.EditTask)
			r.With(admin).Delete("/{id}", taskHandler.DeleteTask)
			r.Put("/status/{id}", taskHandler.EditTaskStatus)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.logger.Error("failed to write health check response", slog.Any("error", err))
		}
	})

	return r
}
