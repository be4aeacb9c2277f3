package mysql

import (
	"context"
	"database/sql"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) interfaces.TicketRepository {
	return &ticketRepository{db}
}

func ticketColumns(ticket *model.SupportTicket) *columns {
	return (&columns{}).
		set("status", ticket.Status).
		set("priority", ticket.Priority).
		set("category", ticket.Category).
		set("subject", ticket.Subject).
		set("email", ticket.Email).
		set("description", ticket.Description)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	cols := ticketColumns(ticket).
		set("id", ticket.ID).
		set("ticket_number", ticket.TicketNumber).
		set("user_id", ticket.UserID).
		set("created_at", ticket.CreatedAt)
	return insertRow(ctx, r.db, "support_tickets", cols, ticket)
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*model.SupportTicket, error) {
	var ticket model.SupportTicket
	if err := getDoc(ctx, r.db, "support_tickets", "id", id, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *model.SupportTicket) error {
	return updateRow(ctx, r.db, "support_tickets", ticket.ID, ticketColumns(ticket), ticket)
}

func (r *ticketRepository) List(ctx context.Context, filter model.TicketFilter) ([]*model.SupportTicket, int64, error) {
	return listDocs[model.SupportTicket](ctx, r.db, "support_tickets", ticketWhere(filter), "created_at DESC", filter.Page, filter.Limit)
}

func (r *ticketRepository) Count(ctx context.Context, filter model.TicketFilter) (int64, error) {
	return count(ctx, r.db, "support_tickets", ticketWhere(filter))
}

func ticketWhere(filter model.TicketFilter) *where {
	w := &where{}
	if filter.UserID != "" {
		w.add("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		w.add("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	w.search(filter.Search, "ticket_number", "subject", "description", "email")
	return w
}
