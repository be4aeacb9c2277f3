package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

const MinPasswordLength = 6

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileInput struct {
	Username string `json:"username" binding:"omitempty,min=3,max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UserServiceInterface is what the auth handlers need from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, id, current, next string) error
}

var _ UserServiceInterface = (*UserService)(nil)

// UserService handles accounts and credentials
type UserService struct {
	userRepo interfaces.UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewUserService(userRepo interfaces.UserRepository, notifier Notifier) *UserService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &UserService{userRepo: userRepo, notifier: notifier, now: time.Now}
}

// Register creates a user account with role user and returns a token for it
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if err := s.ensureAvailable(ctx, "", username, email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return nil, errors.New(errors.ErrWeakPassword, "password must be at least 6 characters")
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}

	now := s.now()
	user := &model.User{
		ID:           util.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrUserExists, "username or email already registered")
		}
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	util.Logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))

	s.notifier.SendWelcome(user)
	return s.issue(user)
}

// Login checks credentials with bcrypt and stamps lastLogin
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if stderrors.Is(err, interfaces.ErrNotFound) {
			return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	if !util.CheckPassword(user.PasswordHash, password) {
		util.Logger.Info("login failed", zap.String("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New(errors.ErrAccountDisabled, "account is disabled")
	}

	now := s.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		// login still succeeds when the timestamp cannot be written
		util.Logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	return s.issue(user)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile changes the caller's username and/or email
func (s *UserService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == user.Username {
		username = ""
	}
	if email == user.Email {
		email = ""
	}
	if err := s.ensureAvailable(ctx, user.ID, username, email); err != nil {
		return nil, err
	}
	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrUserExists, "username or email already registered")
		}
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !util.CheckPassword(user.PasswordHash, current) {
		return errors.New(errors.ErrInvalidCredentials, "current password is incorrect")
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return errors.New(errors.ErrWeakPassword, "password must be at least 6 characters")
	}

	hash, err := util.HashPassword(next)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	return repoError(s.userRepo.Update(ctx, user), errors.ErrUserNotFound, "user not found")
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(email)
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, interfaces.ErrNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.now()
	admin := &model.User{
		ID:           util.NewID(),
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	util.Logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}

func (s *UserService) ensureAvailable(ctx context.Context, selfID, username, email string) error {
	if email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return errors.New(errors.ErrUserExists, "email already registered")
		case err != nil && !stderrors.Is(err, interfaces.ErrNotFound):
			return repoError(err, errors.ErrUserNotFound, "user not found")
		}
	}
	if username != "" {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return errors.New(errors.ErrUserExists, "username already taken")
		case err != nil && !stderrors.Is(err, interfaces.ErrNotFound):
			return repoError(err, errors.ErrUserNotFound, "user not found")
		}
	}
	return nil
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateToken(user)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
