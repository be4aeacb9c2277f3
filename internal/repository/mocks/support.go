package mocks

import (
	"context"

	"robotapp-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

// TicketRepository mocks interfaces.TicketRepository
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketRepository) FindByID(ctx context.Context, id string) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *TicketRepository) Update(ctx context.Context, ticket *model.SupportTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketRepository) List(ctx context.Context, filter model.TicketFilter) ([]*model.SupportTicket, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.SupportTicket), args.Get(1).(int64), args.Error(2)
}

func (m *TicketRepository) Count(ctx context.Context, filter model.TicketFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
