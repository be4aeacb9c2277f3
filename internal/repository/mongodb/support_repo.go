package mongodb

import (
	"context"

	"robotapp-backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TicketRepository stores support tickets with their comments embedded
type TicketRepository struct {
	coll *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{coll: db.Collection(ticketsCollection)}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	_, err := r.coll.InsertOne(ctx, ticket)
	return translateError(err)
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*model.SupportTicket, error) {
	var ticket model.SupportTicket
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *model.SupportTicket) error {
	return replaceByID(ctx, r.coll, ticket.ID, ticket)
}

func (r *TicketRepository) List(ctx context.Context, filter model.TicketFilter) ([]*model.SupportTicket, int64, error) {
	tickets := []*model.SupportTicket{}
	total, err := findPage(ctx, r.coll, ticketQuery(filter), sortBy("createdAt", true, "createdAt"), filter.Page, filter.Limit, &tickets)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) Count(ctx context.Context, filter model.TicketFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, ticketQuery(filter))
}

func ticketQuery(filter model.TicketFilter) bson.M {
	q := bson.M{}
	if filter.UserID != "" {
		q["userId"] = filter.UserID
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.Priority != "" {
		q["priority"] = filter.Priority
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.Search != "" {
		q["$or"] = bson.A{
			bson.M{"ticketNumber": containsText(filter.Search)},
			bson.M{"subject": containsText(filter.Search)},
			bson.M{"description": containsText(filter.Search)},
			bson.M{"email": containsText(filter.Search)},
		}
	}
	return q
}
