package service

import (
	"context"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

const recentOrdersLimit = 5

// StatsService aggregates the admin dashboard numbers
type StatsService struct {
	userRepo     interfaces.UserRepository
	orderRepo    interfaces.OrderRepository
	productRepo  interfaces.ProductRepository
	ticketRepo   interfaces.TicketRepository
	feedbackRepo interfaces.FeedbackRepository
}

func NewStatsService(
	userRepo interfaces.UserRepository,
	orderRepo interfaces.OrderRepository,
	productRepo interfaces.ProductRepository,
	ticketRepo interfaces.TicketRepository,
	feedbackRepo interfaces.FeedbackRepository,
) *StatsService {
	return &StatsService{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		ticketRepo:   ticketRepo,
		feedbackRepo: feedbackRepo,
	}
}

func (s *StatsService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var (
		stats model.DashboardStats
		err   error
	)
	active := true

	if stats.TotalUsers, err = s.userRepo.Count(ctx, model.UserFilter{}); err != nil {
		return nil, statsError(err)
	}
	if stats.ActiveUsers, err = s.userRepo.Count(ctx, model.UserFilter{IsActive: &active}); err != nil {
		return nil, statsError(err)
	}
	if stats.TotalProducts, err = s.productRepo.Count(ctx, false); err != nil {
		return nil, statsError(err)
	}
	if stats.ActiveProducts, err = s.productRepo.Count(ctx, true); err != nil {
		return nil, statsError(err)
	}
	if stats.OrdersByStatus, err = s.orderRepo.CountByStatus(ctx); err != nil {
		return nil, statsError(err)
	}
	for _, n := range stats.OrdersByStatus {
		stats.TotalOrders += n
	}
	if stats.TotalRevenue, err = s.orderRepo.TotalRevenue(ctx); err != nil {
		return nil, statsError(err)
	}
	if stats.OpenTickets, err = s.ticketRepo.Count(ctx, model.TicketFilter{Status: model.StatusOpen}); err != nil {
		return nil, statsError(err)
	}
	if stats.OpenFeedback, err = s.feedbackRepo.Count(ctx, model.FeedbackFilter{Status: model.StatusOpen}); err != nil {
		return nil, statsError(err)
	}
	if stats.RecentOrders, _, err = s.orderRepo.List(ctx, model.OrderFilter{
		SortField: "createdAt",
		SortDesc:  true,
		Page:      1,
		Limit:     recentOrdersLimit,
	}); err != nil {
		return nil, statsError(err)
	}
	return &stats, nil
}

func statsError(err error) error {
	return errors.Wrap(errors.ErrDatabase, "failed to load dashboard stats", err)
}
