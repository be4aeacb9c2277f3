package mongodb

import (
	"context"

	"robotapp-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository stores users in the users collection
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return translateError(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := findOne(ctx, r.coll, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := findOne(ctx, r.coll, bson.M{"username": username}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return replaceByID(ctx, r.coll, user.ID, user)
}

func (r *UserRepository) Count(ctx context.Context, filter model.UserFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, userQuery(filter))
}

func (r *UserRepository) FindAll(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	users := []*model.User{}
	total, err := findPage(ctx, r.coll, userQuery(filter), sortBy("createdAt", true, "createdAt"), filter.Page, filter.Limit, &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func userQuery(filter model.UserFilter) bson.M {
	q := bson.M{}
	if filter.Search != "" {
		q["$or"] = bson.A{
			bson.M{"username": containsText(filter.Search)},
			bson.M{"email": containsText(filter.Search)},
		}
	}
	if filter.Role != "" {
		q["role"] = filter.Role
	}
	if filter.IsActive != nil {
		q["isActive"] = *filter.IsActive
	}
	return q
}
