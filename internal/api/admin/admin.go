package admin

import (
	"strings"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard and user management
type AdminHandler struct {
	adminService *service.AdminService
	statsService *service.StatsService
	analytics    *errors.ErrorAnalytics
}

func NewAdminHandler(adminService *service.AdminService, statsService *service.StatsService, analytics *errors.ErrorAnalytics) *AdminHandler {
	return &AdminHandler{adminService, statsService, analytics}
}

func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, stats, "")
}

// GetUsers lists accounts with search, role and active filters
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	filter := model.UserFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Role:     c.Query("role"),
		IsActive: util.ParseBoolQuery(c, "isActive"),
		Page:     page,
		Limit:    limit,
	}

	users, total, err := h.adminService.GetUsers(c.Request.Context(), filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(users, page, limit, total), "")
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var input struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	user, err := h.adminService.UpdateUserRole(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), input.Role)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "User role updated")
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	user, err := h.adminService.SetUserActive(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), *input.IsActive)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "User status updated")
}

// GetErrorStats exposes the error monitor counters
func (h *AdminHandler) GetErrorStats(c *gin.Context) {
	errors.HandleSuccess(c, h.analytics.GetStats(), "")
}
