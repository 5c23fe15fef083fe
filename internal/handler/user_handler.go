package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/service"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/httpx"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/middleware"
)

// UserHandler exposes accounts and profile settings over HTTP.
type UserHandler struct {
	svc    *service.UserService
	auth   *middleware.AuthMiddleware
	logger logger.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(svc *service.UserService, auth *middleware.AuthMiddleware, log logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, auth: auth, logger: log}
}

// RegisterRoutes registers auth, profile and reporter-request routes.
func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	users := r.Group("/api/v1/users")
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.PUT("/me/push", h.UpdatePushSettings)
		users.POST("/me/reporter-request", h.RequestReporterRole)
	}

	admin := r.Group("/api/v1/admin/reporter-requests")
	admin.Use(h.auth.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.ListReporterRequests)
		admin.PUT("/:id", h.ResolveReporterRequest)
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

// Register creates a new account.
func (h *UserHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "Invalid register request", logger.F("error", err.Error()))
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	user, err := h.svc.Register(ctx, &service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Region:   req.Region,
		Language: req.Language,
	})
	if err != nil {
		h.logger.Error(ctx, "Register failed",
			logger.F("error", err.Error()),
			logger.F("username", req.Username))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, sanitizeUser(user), nil)
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns a signed token.
func (h *UserHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	user, token, err := h.svc.Login(ctx, req.Login, req.Password)
	if err != nil {
		h.logger.Error(ctx, "Login failed",
			logger.F("error", err.Error()),
			logger.F("login", req.Login))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"user": sanitizeUser(user), "token": token}, nil)
}

// GetProfile returns the caller's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.svc.GetProfile(ctx, c.GetInt64("userID"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, sanitizeUser(user), nil)
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

// UpdateProfile edits the caller's display fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	userID := c.GetInt64("userID")

	user, err := h.svc.UpdateProfile(ctx, userID, &service.UpdateProfileParams{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Region:   req.Region,
		Language: req.Language,
	})
	if err != nil {
		h.logger.Error(ctx, "Update profile failed",
			logger.F("error", err.Error()),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, sanitizeUser(user), nil)
}

type pushSettingsRequest struct {
	Enabled  bool   `json:"enabled"`
	FCMToken string `json:"fcmToken"`
}

// UpdatePushSettings stores the caller's notification preference.
func (h *UserHandler) UpdatePushSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var req pushSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	userID := c.GetInt64("userID")

	if err := h.svc.UpdatePushSettings(ctx, userID, req.Enabled, req.FCMToken); err != nil {
		h.logger.Error(ctx, "Update push settings failed",
			logger.F("error", err.Error()),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteMessage(c, "push settings updated")
}

type reporterRequestBody struct {
	Reason string `json:"reason"`
}

// RequestReporterRole files the caller's application to publish news.
func (h *UserHandler) RequestReporterRole(c *gin.Context) {
	ctx := c.Request.Context()

	var req reporterRequestBody
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	userID := c.GetInt64("userID")

	request, err := h.svc.RequestReporterRole(ctx, userID, req.Reason)
	if err != nil {
		h.logger.Error(ctx, "Reporter request failed",
			logger.F("error", err.Error()),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, request, nil)
}

// ListReporterRequests returns applications for admin review. Defaults
// to the pending ones.
func (h *UserHandler) ListReporterRequests(c *gin.Context) {
	ctx := c.Request.Context()

	requests, err := h.svc.ListReporterRequests(ctx, c.Query("status"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, requests, nil)
}

type resolveReporterRequestBody struct {
	Status string `json:"status" binding:"required"`
}

// ResolveReporterRequest applies an admin decision to an application.
func (h *UserHandler) ResolveReporterRequest(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	var req resolveReporterRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}
	if req.Status != model.RequestStatusApproved && req.Status != model.RequestStatusRejected {
		httpx.WriteError(c, model.InvalidInput("status must be approved or rejected"))
		return
	}

	request, err := h.svc.ResolveReporterRequest(ctx, requestID, req.Status == model.RequestStatusApproved)
	if err != nil {
		h.logger.Error(ctx, "Resolve reporter request failed",
			logger.F("error", err.Error()),
			logger.F("requestID", requestID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, request, nil)
}

// sanitizeUser strips the credential fields before the user object
// leaves the API.
func sanitizeUser(user *model.User) *model.User {
	clean := *user
	clean.PasswordHash = ""
	clean.FCMToken = ""
	return &clean
}
