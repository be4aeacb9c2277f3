package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

type CreateTicketInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Subject     string `json:"subject" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority"`
	RobotIP     string `json:"robotIP" binding:"omitempty,ip"`
}

type UpdateTicketInput struct {
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	ResolutionNotes *string `json:"resolutionNotes"`
}

// SupportService tracks customer support tickets
type SupportService struct {
	ticketRepo interfaces.TicketRepository
	notifier   Notifier
	now        func() time.Time
}

func NewSupportService(ticketRepo interfaces.TicketRepository, notifier Notifier) *SupportService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &SupportService{ticketRepo: ticketRepo, notifier: notifier, now: time.Now}
}

// CreateTicket opens a ticket. Anonymous callers are recorded as "anonymous".
func (s *SupportService) CreateTicket(ctx context.Context, actor model.Actor, input CreateTicketInput) (*model.SupportTicket, error) {
	if !model.ValidTicketCategory(input.Category) {
		return nil, errors.New(errors.ErrValidation, "invalid ticket category")
	}
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	if !model.ValidPriority(priority) {
		return nil, errors.New(errors.ErrValidation, "invalid priority")
	}

	userID := actor.UserID
	if userID == "" {
		userID = model.AnonymousUserID
	}
	now := s.now()
	ticket := &model.SupportTicket{
		ID:           util.NewID(),
		TicketNumber: util.GenerateTicketNumber(now),
		UserID:       userID,
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:      strings.TrimSpace(input.Subject),
		Description:  input.Description,
		Category:     input.Category,
		Priority:     priority,
		Status:       model.StatusOpen,
		RobotIP:      input.RobotIP,
		Comments:     []model.TicketComment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.Wrap(errors.ErrResourceConflict, "ticket number collision, please retry", err)
		}
		return nil, repoError(err, errors.ErrTicketNotFound, "ticket not found")
	}
	util.Logger.Info("support ticket created", zap.String("ticket_id", ticket.ID), zap.String("ticket_number", ticket.TicketNumber))

	s.notifier.SendTicketAcknowledgement(ticket)
	return ticket, nil
}

// GetTicket returns the ticket to its owner or an admin
func (s *SupportService) GetTicket(ctx context.Context, actor model.Actor, id string) (*model.SupportTicket, error) {
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeTicket(actor, ticket) {
		return nil, errors.New(errors.ErrForbidden, "you do not have access to this ticket")
	}
	return ticket, nil
}

func (s *SupportService) ListTickets(ctx context.Context, filter model.TicketFilter) ([]*model.SupportTicket, int64, error) {
	if filter.Status != "" && !model.ValidTrackerStatus(filter.Status) {
		return nil, 0, errors.New(errors.ErrValidation, "invalid status")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	tickets, total, err := s.ticketRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrTicketNotFound, "ticket not found")
	}
	return tickets, total, nil
}

func (s *SupportService) ListMyTickets(ctx context.Context, userID string, page, limit int) ([]*model.SupportTicket, int64, error) {
	return s.ListTickets(ctx, model.TicketFilter{UserID: userID, Page: page, Limit: limit})
}

// UpdateTicket is the admin setter. Entering resolved stamps resolvedAt;
// leaving resolved keeps the stamp.
func (s *SupportService) UpdateTicket(ctx context.Context, id string, input UpdateTicketInput) (*model.SupportTicket, error) {
	if input.Status != "" && !model.ValidTrackerStatus(input.Status) {
		return nil, errors.New(errors.ErrValidation, "invalid status")
	}
	if input.Priority != "" && !model.ValidPriority(input.Priority) {
		return nil, errors.New(errors.ErrValidation, "invalid priority")
	}

	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if input.Status != "" {
		if input.Status == model.StatusResolved && ticket.Status != model.StatusResolved {
			ticket.ResolvedAt = &now
		}
		ticket.Status = input.Status
	}
	if input.Priority != "" {
		ticket.Priority = input.Priority
	}
	if input.ResolutionNotes != nil {
		ticket.ResolutionNotes = *input.ResolutionNotes
	}
	ticket.UpdatedAt = now

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, repoError(err, errors.ErrTicketNotFound, "ticket not found")
	}
	return ticket, nil
}

// AddComment appends a comment from the owner or staff
func (s *SupportService) AddComment(ctx context.Context, actor model.Actor, id, message string) (*model.SupportTicket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New(errors.ErrValidation, "message is required")
	}
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeTicket(actor, ticket) {
		return nil, errors.New(errors.ErrForbidden, "you do not have access to this ticket")
	}

	now := s.now()
	ticket.Comments = append(ticket.Comments, model.TicketComment{
		UserID:    actor.UserID,
		UserName:  actor.Username,
		Message:   message,
		IsStaff:   actor.IsAdmin(),
		CreatedAt: now,
	})
	ticket.UpdatedAt = now
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, repoError(err, errors.ErrTicketNotFound, "ticket not found")
	}
	return ticket, nil
}

func (s *SupportService) findTicket(ctx context.Context, id string) (*model.SupportTicket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrTicketNotFound, "ticket not found")
	}
	return ticket, nil
}

func canSeeTicket(actor model.Actor, ticket *model.SupportTicket) bool {
	if actor.IsAdmin() {
		return true
	}
	return !actor.IsAnonymous() && ticket.UserID == actor.UserID
}
