package service

import (
	"context"
	"testing"
	"time"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSupportService(repo *mocks.TicketRepository, n Notifier) *SupportService {
	s := NewSupportService(repo, n)
	s.now = clock
	return s
}

func TestCreateTicket(t *testing.T) {
	repo := new(mocks.TicketRepository)
	notifier := &recordingNotifier{}
	s := newSupportService(repo, notifier)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.SupportTicket")).Return(nil)

	input := CreateTicketInput{Name: "Asha", Email: "Asha@Example.com", Subject: "Robot offline", Description: "It does not boot", Category: "technical"}

	ticket, err := s.CreateTicket(context.Background(), model.Actor{}, input)
	require.NoError(t, err)
	assert.Equal(t, model.AnonymousUserID, ticket.UserID)
	assert.Equal(t, model.StatusOpen, ticket.Status)
	assert.Equal(t, "medium", ticket.Priority)
	assert.Equal(t, "asha@example.com", ticket.Email)
	assert.Equal(t, "TKT240315", ticket.TicketNumber[:9])
	assert.Len(t, notifier.tickets, 1)

	ticket, err = s.CreateTicket(context.Background(), owner, input)
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, ticket.UserID)

	input.Category = "complaint"
	_, err = s.CreateTicket(context.Background(), owner, input)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUpdateTicketResolvedAt(t *testing.T) {
	repo := new(mocks.TicketRepository)
	s := newSupportService(repo, nil)
	ticket := &model.SupportTicket{ID: "t1", Status: model.StatusOpen}
	repo.On("FindByID", mock.Anything, "t1").Return(ticket, nil)
	repo.On("Update", mock.Anything, ticket).Return(nil)

	updated, err := s.UpdateTicket(context.Background(), "t1", UpdateTicketInput{Status: model.StatusInProgress})
	require.NoError(t, err)
	assert.Nil(t, updated.ResolvedAt)

	notes := "replaced battery"
	updated, err = s.UpdateTicket(context.Background(), "t1", UpdateTicketInput{Status: model.StatusResolved, ResolutionNotes: &notes})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, fixedNow, *updated.ResolvedAt)
	assert.Equal(t, "replaced battery", updated.ResolutionNotes)

	// reopening keeps the original resolution time
	s.now = func() time.Time { return fixedNow.Add(time.Hour) }
	updated, err = s.UpdateTicket(context.Background(), "t1", UpdateTicketInput{Status: model.StatusOpen})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, fixedNow, *updated.ResolvedAt)

	_, err = s.UpdateTicket(context.Background(), "t1", UpdateTicketInput{Status: "done"})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestTicketAccess(t *testing.T) {
	repo := new(mocks.TicketRepository)
	s := newSupportService(repo, nil)
	ticket := &model.SupportTicket{ID: "t1", UserID: owner.UserID, Comments: []model.TicketComment{}}
	anon := &model.SupportTicket{ID: "t2", UserID: model.AnonymousUserID}
	repo.On("FindByID", mock.Anything, "t1").Return(ticket, nil)
	repo.On("FindByID", mock.Anything, "t2").Return(anon, nil)
	repo.On("Update", mock.Anything, ticket).Return(nil)

	_, err := s.GetTicket(context.Background(), owner, "t1")
	assert.NoError(t, err)
	_, err = s.GetTicket(context.Background(), admin, "t1")
	assert.NoError(t, err)
	_, err = s.GetTicket(context.Background(), other, "t1")
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	_, err = s.GetTicket(context.Background(), other, "t2")
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	updated, err := s.AddComment(context.Background(), admin, "t1", "Looking into it")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.True(t, updated.Comments[0].IsStaff)

	updated, err = s.AddComment(context.Background(), owner, "t1", "Thanks")
	require.NoError(t, err)
	assert.False(t, updated.Comments[1].IsStaff)

	_, err = s.AddComment(context.Background(), other, "t1", "hi")
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	_, err = s.AddComment(context.Background(), owner, "t1", "  ")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestListMyTickets(t *testing.T) {
	repo := new(mocks.TicketRepository)
	s := newSupportService(repo, nil)
	repo.On("List", mock.Anything, model.TicketFilter{UserID: "user-1", Page: 1, Limit: 10}).
		Return([]*model.SupportTicket{{ID: "t1"}}, int64(1), nil)

	tickets, total, err := s.ListMyTickets(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, int64(1), total)
}
