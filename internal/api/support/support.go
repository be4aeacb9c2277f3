package support

import (
	"strings"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SupportHandler serves support tickets
type SupportHandler struct {
	supportService *service.SupportService
}

func NewSupportHandler(supportService *service.SupportService) *SupportHandler {
	util.RegisterValidators()
	return &SupportHandler{supportService}
}

// CreateTicket accepts tickets from signed-in and anonymous users
func (h *SupportHandler) CreateTicket(c *gin.Context) {
	var input service.CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	ticket, err := h.supportService.CreateTicket(c.Request.Context(), middleware.CurrentActor(c), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, ticket, "Support ticket created")
}

func (h *SupportHandler) GetMyTickets(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	tickets, total, err := h.supportService.ListMyTickets(c.Request.Context(), c.GetString(middleware.ContextUserID), page, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(tickets, page, limit, total), "")
}

func (h *SupportHandler) GetTicket(c *gin.Context) {
	ticket, err := h.supportService.GetTicket(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, ticket, "")
}

func (h *SupportHandler) AddComment(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	ticket, err := h.supportService.AddComment(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.Message)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, ticket, "Comment added")
}

// ListTickets is the admin queue
func (h *SupportHandler) ListTickets(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	filter := model.TicketFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		Limit:    limit,
	}

	tickets, total, err := h.supportService.ListTickets(c.Request.Context(), filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(tickets, page, limit, total), "")
}

func (h *SupportHandler) UpdateTicket(c *gin.Context) {
	var input service.UpdateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	ticket, err := h.supportService.UpdateTicket(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, ticket, "Ticket updated")
}
