package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

// userRepository implements interfaces.UserRepository. The password hash
// lives in its own column because the JSON document omits it.
type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) interfaces.UserRepository {
	return &userRepository{db}
}

func userColumns(user *model.User) *columns {
	return (&columns{}).
		set("username", user.Username).
		set("email", user.Email).
		set("password_hash", user.PasswordHash).
		set("role", user.Role).
		set("is_active", user.IsActive)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	cols := (&columns{}).set("id", user.ID).set("created_at", user.CreatedAt)
	full := userColumns(user)
	cols.names = append(cols.names, full.names...)
	cols.values = append(cols.values, full.values...)
	return insertRow(ctx, r.db, "users", cols, user)
}

func (r *userRepository) findBy(ctx context.Context, column string, value interface{}) (*model.User, error) {
	var (
		data []byte
		hash string
	)
	row := r.db.QueryRowContext(ctx, "SELECT data, password_hash FROM users WHERE "+column+" = ?", value)
	if err := row.Scan(&data, &hash); err != nil {
		return nil, translateError(err)
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return updateRow(ctx, r.db, "users", user.ID, userColumns(user), user)
}

func (r *userRepository) Count(ctx context.Context, filter model.UserFilter) (int64, error) {
	return count(ctx, r.db, "users", userWhere(filter))
}

// FindAll lists users without password hashes
func (r *userRepository) FindAll(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	return listDocs[model.User](ctx, r.db, "users", userWhere(filter), "created_at DESC", filter.Page, filter.Limit)
}

func userWhere(filter model.UserFilter) *where {
	w := &where{}
	w.search(filter.Search, "username", "email")
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		w.add("is_active = ?", *filter.IsActive)
	}
	return w
}
