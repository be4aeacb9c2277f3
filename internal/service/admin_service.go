package service

import (
	"context"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

// AdminService holds the user management operations of the admin panel
type AdminService struct {
	userRepo interfaces.UserRepository
	now      func() time.Time
}

func NewAdminService(userRepo interfaces.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo, now: time.Now}
}

func (s *AdminService) GetUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	if filter.Role != "" && !model.ValidRole(filter.Role) {
		return nil, 0, errors.New(errors.ErrValidation, "role must be user or admin")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	return users, total, nil
}

// UpdateUserRole changes a role. Tokens issued before the change keep the old role until they expire.
func (s *AdminService) UpdateUserRole(ctx context.Context, actor model.Actor, userID, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, errors.New(errors.ErrValidation, "role must be user or admin")
	}
	if userID == actor.UserID && role != model.RoleAdmin {
		return nil, errors.New(errors.ErrBadRequest, "you cannot remove your own admin role")
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	util.Logger.Info("user role updated", zap.String("user_id", userID), zap.String("role", role), zap.String("admin_id", actor.UserID))
	return user, nil
}

// SetUserActive enables or disables login for an account
func (s *AdminService) SetUserActive(ctx context.Context, actor model.Actor, userID string, active bool) (*model.User, error) {
	if userID == actor.UserID && !active {
		return nil, errors.New(errors.ErrBadRequest, "you cannot deactivate your own account")
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	util.Logger.Info("user status updated", zap.String("user_id", userID), zap.Bool("active", active), zap.String("admin_id", actor.UserID))
	return user, nil
}

func (s *AdminService) findUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}
