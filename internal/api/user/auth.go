package user

import (
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the caller's own profile
type AuthHandler struct {
	userService service.UserServiceInterface
}

func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	util.RegisterValidators()
	return &AuthHandler{userService}
}

// Register creates an account and returns a token for it
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Debug("register rejected", zap.Error(err))
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	result, err := h.userService.Register(c.Request.Context(), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, result, "User registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	result, err := h.userService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, result, "Login successful")
}

// Verify confirms the token is still valid and returns its user
func (h *AuthHandler) Verify(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if !user.IsActive {
		errors.HandleError(c, errors.New(errors.ErrAccountDisabled, "Account is disabled"))
		return
	}
	errors.HandleSuccess(c, gin.H{"valid": true, "user": user}, "")
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "")
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, user, "Profile updated")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	if err := h.userService.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("password changed", zap.String("user_id", userID))
	errors.HandleSuccess(c, nil, "Password updated")
}
