package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// countBatchSize bounds the assignee ids sent in one count query.
const countBatchSize = 200

// AccountNotifier sends the account emails a user service triggers.
type AccountNotifier interface {
	SendActivation(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// Session is an authenticated user with freshly issued tokens. RefreshToken
// is empty when only the access token was renewed.
type Session struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// UserUpdate lists the profile fields a user may change. EmailSent records
// that the request tried to change the email.
type UserUpdate struct {
	Name      *string
	Password  *string
	EmailSent bool
}

// UserWithTaskCounts is a user together with the number of tasks assigned
// to them in each status.
type UserWithTaskCounts struct {
	domain.User
	Status []store.StatusCount `json:"status"`
}

// UserService provides account, session and admin user operations.
type UserService interface {
	// Register emails an activation link for a new account and returns the
	// activation token. Nothing is stored until the token is redeemed.
	Register(ctx context.Context, name, email, password string) (string, error)

	// Activate redeems an activation token and creates the account.
	Activate(ctx context.Context, token string) (*domain.User, error)

	// Login verifies credentials and issues access and refresh tokens.
	Login(ctx context.Context, email, password string) (*Session, error)

	// RefreshAccessToken issues a new access token for a valid refresh token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*Session, error)

	// GetUser retrieves a user. The actor must be that user or an admin.
	GetUser(ctx context.Context, actor Actor, id string) (*domain.User, error)

	// DeleteUser removes a non-admin user and every task assigned to them.
	DeleteUser(ctx context.Context, id string) error

	// UpdateUser changes a user's name and/or password. When actors update
	// themselves the returned session carries tokens for the new identity.
	UpdateUser(ctx context.Context, actor Actor, id string, update UserUpdate) (*Session, error)

	// UpdatePassword replaces the actor's own password after verifying the old one.
	UpdatePassword(ctx context.Context, actor Actor, id, oldPassword, newPassword, confirmPassword string) error

	// ForgotPassword emails a password reset link in the background.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword redeems a reset token and stores the new password.
	ResetPassword(ctx context.Context, token, password string) error

	// ListUsersWithTaskCounts returns every user except excludingID with their
	// per-status task counts.
	ListUsersWithTaskCounts(ctx context.Context, excludingID uuid.UUID) ([]UserWithTaskCounts, error)
}

// UserOption customizes a user service.
type UserOption func(*userServiceImpl)

// WithBackgroundRunner replaces the function used to run work that must not
// hold up the response, such as password reset emails.
func WithBackgroundRunner(run func(func())) UserOption {
	return func(s *userServiceImpl) {
		s.background = run
	}
}

type userServiceImpl struct {
	users      store.UserStore
	tasks      store.TaskStore
	tx         store.Transactor
	tokens     auth.JWTService
	hasher     auth.PasswordHasher
	notifier   AccountNotifier
	background func(func())
	logger     *slog.Logger
}

// NewUserService creates a UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	tasks store.TaskStore,
	tx store.Transactor,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	notifier AccountNotifier,
	logger *slog.Logger,
	opts ...UserOption,
) (UserService, error) {
	deps := []struct {
		name    string
		missing bool
	}{
		{"users", users == nil},
		{"tasks", tasks == nil},
		{"tx", tx == nil},
		{"tokens", tokens == nil},
		{"hasher", hasher == nil},
		{"notifier", notifier == nil},
	}
	for _, d := range deps {
		if d.missing {
			return nil, domain.NewValidationError(d.name, "cannot be nil", domain.ErrValidation)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &userServiceImpl{
		users:      users,
		tasks:      tasks,
		tx:         tx,
		tokens:     tokens,
		hasher:     hasher,
		notifier:   notifier,
		background: func(f func()) { go f() },
		logger:     logger.With(slog.String("component", "user_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, name, email, password string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateUserName(name); err != nil {
		return "", err
	}
	if !domain.IsValidEmail(email) {
		return "", domain.NewValidationError("email", "Invalid email format", domain.ErrInvalidEmail)
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrEmailRegistered
	case !store.IsNotFoundError(err):
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}

	token, err := s.tokens.GenerateActivationToken(ctx, auth.Registration{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate activation token: %w", err)
	}

	if err := s.notifier.SendActivation(ctx, email, name, token); err != nil {
		log.Error("failed to send activation email",
			slog.String("error", redact.Error(err)),
			slog.String("email", redact.String(email)))
		return "", fmt.Errorf("%w: %w", ErrVerificationEmailFailed, err)
	}

	log.Info("activation email sent", slog.String("email", redact.String(email)))
	return token, nil
}

// Activate implements UserService.Activate
func (s *userServiceImpl) Activate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenNotFound
	}

	reg, err := s.tokens.ValidateActivationToken(ctx, token)
	if err != nil {
		return nil, normalizeTokenError(err)
	}

	_, err = s.users.GetByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return nil, ErrUserAlreadyExists
	case !store.IsNotFoundError(err):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(reg.Name, reg.Email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("account activated",
		slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("password mismatch on login",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// RefreshAccessToken implements UserService.RefreshAccessToken
func (s *userServiceImpl) RefreshAccessToken(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	access, err := s.tokens.GenerateToken(ctx, identityOf(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &Session{User: user, AccessToken: access}, nil
}

// GetUser implements UserService.GetUser
func (s *userServiceImpl) GetUser(ctx context.Context, actor Actor, id string) (*domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// DeleteUser implements UserService.DeleteUser
// The user and their assigned tasks are removed in a single transaction.
func (s *userServiceImpl) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidUserID
	}

	var removed int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores store.Stores) error {
		user, err := stores.Users.GetByID(ctx, userID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}
		if user.IsAdmin {
			return ErrAdminNotDeletable
		}

		if removed, err = stores.Tasks.DeleteByAssignee(ctx, userID); err != nil {
			return err
		}
		if err := stores.Users.Delete(ctx, userID); err != nil {
			if store.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrAdminNotDeletable) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("tasks_removed", removed))
	return nil
}

// UpdateUser implements UserService.UpdateUser
func (s *userServiceImpl) UpdateUser(
	ctx context.Context,
	actor Actor,
	id string,
	update UserUpdate,
) (*Session, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	if update.EmailSent {
		return nil, ErrEmailNotEditable
	}
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUpdateUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if update.Name != nil {
		if err := user.Rename(*update.Name); err != nil {
			return nil, err
		}
	}
	if update.Password != nil {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		if err := user.SetHashedPassword(hash); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUpdateUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if actor.ID != userID {
		return &Session{User: user}, nil
	}
	return s.issueSession(ctx, user)
}

// UpdatePassword implements UserService.UpdatePassword
func (s *userServiceImpl) UpdatePassword(
	ctx context.Context,
	actor Actor,
	id, oldPassword, newPassword, confirmPassword string,
) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidUserID
	}
	if actor.ID != userID {
		return ErrForbidden
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := user.SetHashedPassword(hash); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ForgotPassword implements UserService.ForgotPassword
// The email is sent without waiting for delivery; send failures are logged only.
func (s *userServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrResetEmailNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.tokens.GeneratePasswordResetToken(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	sendCtx := context.WithoutCancel(ctx)
	s.background(func() {
		if err := s.notifier.SendPasswordReset(sendCtx, user.Email, user.Name, token); err != nil {
			log.Error("failed to send password reset email",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", user.ID.String()))
		}
	})
	return nil
}

// ResetPassword implements UserService.ResetPassword
func (s *userServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	email, err := s.tokens.ValidatePasswordResetToken(ctx, token)
	if err != nil {
		return normalizeTokenError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		if store.IsNotFoundError(err) {
			return ErrPasswordResetFailed
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// ListUsersWithTaskCounts implements UserService.ListUsersWithTaskCounts
// Counts are fetched in batches of assignee ids queried concurrently.
func (s *userServiceImpl) ListUsersWithTaskCounts(
	ctx context.Context,
	excludingID uuid.UUID,
) ([]UserWithTaskCounts, error) {
	users, err := s.users.ListExcept(ctx, excludingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	result := make([]UserWithTaskCounts, len(users))
	if len(users) == 0 {
		return result, nil
	}

	var (
		mu     sync.Mutex
		counts = make(map[uuid.UUID][]store.StatusCount, len(users))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(users); start += countBatchSize {
		end := min(start+countBatchSize, len(users))
		ids := make([]uuid.UUID, 0, end-start)
		for _, u := range users[start:end] {
			ids = append(ids, u.ID)
		}

		g.Go(func() error {
			batch, err := s.tasks.CountByStatus(gctx, ids)
			if err != nil {
				return err
			}
			mu.Lock()
			for id, c := range batch {
				counts[id] = c
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	for i, u := range users {
		status := counts[u.ID]
		if status == nil {
			status = []store.StatusCount{}
		}
		result[i] = UserWithTaskCounts{User: u, Status: status}
	}
	return result, nil
}

func (s *userServiceImpl) issueSession(ctx context.Context, user *domain.User) (*Session, error) {
	identity := identityOf(user)

	access, err := s.tokens.GenerateToken(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func identityOf(user *domain.User) auth.Identity {
	return auth.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

// normalizeTokenError collapses token failures to expired or invalid.
func normalizeTokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return auth.ErrExpiredToken
	}
	return auth.ErrInvalidToken
}
