package interfaces

import (
	"context"

	"robotapp-backend/internal/model"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) error
	FindByID(ctx context.Context, id string) (*model.SupportTicket, error)
	Update(ctx context.Context, ticket *model.SupportTicket) error
	List(ctx context.Context, filter model.TicketFilter) ([]*model.SupportTicket, int64, error)
	Count(ctx context.Context, filter model.TicketFilter) (int64, error)
}
