package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection     = "users"
	ordersCollection    = "orders"
	productsCollection  = "products"
	ticketsCollection   = "support_tickets"
	feedbackCollection  = "feedback"
	questionsCollection = "questions"
)

// Connect opens a client pool and pings the primary
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the services rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			unique(bson.D{{Key: "email", Value: 1}}),
			unique(bson.D{{Key: "username", Value: 1}}),
		},
		ordersCollection: {
			unique(bson.D{{Key: "orderNumber", Value: 1}}),
			plain(bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}),
			plain(bson.D{{Key: "orderStatus", Value: 1}}),
		},
		productsCollection: {
			unique(bson.D{{Key: "slug", Value: 1}}),
			plain(bson.D{{Key: "variant", Value: 1}, {Key: "isActive", Value: 1}}),
		},
		ticketsCollection: {
			unique(bson.D{{Key: "ticketNumber", Value: 1}}),
			plain(bson.D{{Key: "userId", Value: 1}}),
		},
		feedbackCollection: {
			plain(bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}),
		},
		questionsCollection: {
			plain(bson.D{{Key: "tags", Value: 1}}),
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		util.Logger.Debug("indexes ensured", zap.String("collection", name), zap.Int("count", len(models)))
	}
	return nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return interfaces.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return interfaces.ErrDuplicate
	default:
		return err
	}
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, dst interface{}) error {
	return translateError(coll.FindOne(ctx, filter).Decode(dst))
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// findPage runs a paginated find and returns the matching total
func findPage(ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, page, limit int, dst interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
		if page > 1 {
			opts.SetSkip(int64((page - 1) * limit))
		}
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, dst); err != nil {
		return 0, err
	}
	return total, nil
}

// containsText is a case-insensitive substring match on user input
func containsText(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func direction(desc bool) int {
	if desc {
		return -1
	}
	return 1
}

func sortBy(field string, desc bool, fallback string) bson.D {
	if field == "" {
		field = fallback
	}
	sort := bson.D{{Key: field, Value: direction(desc)}}
	if field != "createdAt" {
		sort = append(sort, bson.E{Key: "createdAt", Value: -1})
	}
	return sort
}
