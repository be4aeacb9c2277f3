package interfaces

import (
	"context"

	"robotapp-backend/internal/model"
)

// UserRepository persists user accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Count(ctx context.Context, filter model.UserFilter) (int64, error)
	FindAll(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error)
}
