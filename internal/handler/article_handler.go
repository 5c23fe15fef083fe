package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/service"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/httpx"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/middleware"
)

// ArticleHandler exposes article publishing, reading and moderation
// over HTTP.
type ArticleHandler struct {
	svc        *service.ArticleService
	moderation *service.ModerationService
	auth       *middleware.AuthMiddleware
	logger     logger.Logger
}

// NewArticleHandler creates the article handler.
func NewArticleHandler(svc *service.ArticleService, moderation *service.ModerationService, auth *middleware.AuthMiddleware, log logger.Logger) *ArticleHandler {
	return &ArticleHandler{svc: svc, moderation: moderation, auth: auth, logger: log}
}

// RegisterRoutes registers article, bookmark and moderation routes.
func (h *ArticleHandler) RegisterRoutes(r *gin.Engine) {
	public := r.Group("/api/v1/news/public")
	{
		public.GET("", h.ListPublic)
		public.GET("/trending", h.Trending)
		public.GET("/search", h.Search)
		public.GET("/:id", h.GetPublic)
		public.GET("/:id/translations/:lang", h.GetTranslation)
	}

	api := r.Group("/api/v1/news")
	{
		api.POST("", h.auth.RequireRole(model.RoleReporter, model.RoleAdmin), h.Create)
		api.GET("/bookmarks", h.ListBookmarked)
		api.GET("/mine", h.ListMine)
		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
		api.POST("/:id/bookmark", h.ToggleBookmark)
		api.PUT("/:id/translations", h.auth.RequireRole(model.RoleReporter, model.RoleAdmin), h.UpsertTranslation)
	}

	admin := r.Group("/api/v1/admin/news", h.auth.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.ListForReview)
		admin.PUT("/:id/status", h.SetStatus)
	}
}

type articleRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Region   string `json:"region"`
	Language string `json:"language"`
	ImageURL string `json:"imageUrl"`
}

// Create submits a new article for review.
func (h *ArticleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "Invalid create article request", logger.F("error", err.Error()))
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	userID := c.GetInt64("userID")

	article, err := h.svc.CreateArticle(ctx, &service.CreateArticleParams{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Category: req.Category,
		Region:   req.Region,
		Language: req.Language,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.logger.Error(ctx, "Create article failed",
			logger.F("error", err.Error()),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, article, nil)
}

// ListPublic lists approved articles with optional filters.
func (h *ArticleHandler) ListPublic(c *gin.Context) {
	h.list(c, model.ArticleStatusApproved, 0)
}

// ListMine lists the caller's own articles in any status.
func (h *ArticleHandler) ListMine(c *gin.Context) {
	h.list(c, c.Query("status"), c.GetInt64("userID"))
}

// ListForReview lists articles by status for the moderation queue.
func (h *ArticleHandler) ListForReview(c *gin.Context) {
	status := c.DefaultQuery("status", model.ArticleStatusPending)
	h.list(c, status, 0)
}

func (h *ArticleHandler) list(c *gin.Context, status string, authorID int64) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	articles, total, err := h.svc.ListArticles(ctx, &dao.ListArticlesParams{
		Status:   status,
		Category: c.Query("category"),
		Region:   c.Query("region"),
		Language: c.Query("language"),
		AuthorID: authorID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error(ctx, "List articles failed", logger.F("error", err.Error()))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"articles": articles, "total": total, "page": page}, nil)
}

// GetPublic reads an article anonymously and counts the view.
func (h *ArticleHandler) GetPublic(c *gin.Context) {
	h.get(c, 0)
}

// Get reads an article as an authenticated user and counts the view.
func (h *ArticleHandler) Get(c *gin.Context) {
	h.get(c, c.GetInt64("userID"))
}

func (h *ArticleHandler) get(c *gin.Context, viewerID int64) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	article, err := h.svc.GetArticle(ctx, articleID, viewerID, true)
	if err != nil {
		h.logger.Error(ctx, "Get article failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, article, nil)
}

// Update edits an article. Allowed for the author or an admin.
func (h *ArticleHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	userID := c.GetInt64("userID")
	isAdmin := c.GetString("role") == model.RoleAdmin

	article, err := h.svc.UpdateArticle(ctx, articleID, userID, isAdmin, &service.UpdateArticleParams{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Category: req.Category,
		Region:   req.Region,
		Language: req.Language,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.logger.Error(ctx, "Update article failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, article, nil)
}

// Delete removes an article and everything attached to it.
func (h *ArticleHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	userID := c.GetInt64("userID")
	isAdmin := c.GetString("role") == model.RoleAdmin

	if err := h.svc.DeleteArticle(ctx, articleID, userID, isAdmin); err != nil {
		h.logger.Error(ctx, "Delete article failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteMessage(c, "article deleted")
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus moves an article through the moderation workflow.
func (h *ArticleHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	article, err := h.moderation.SetArticleStatus(ctx, articleID, req.Status)
	if err != nil {
		h.logger.Error(ctx, "Set article status failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID),
			logger.F("status", req.Status))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, article, nil)
}

// ToggleBookmark bookmarks or unbookmarks an article for the caller.
func (h *ArticleHandler) ToggleBookmark(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	userID := c.GetInt64("userID")

	bookmarked, err := h.svc.ToggleBookmark(ctx, articleID, userID)
	if err != nil {
		h.logger.Error(ctx, "Toggle bookmark failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"bookmarked": bookmarked}, nil)
}

// ListBookmarked returns the caller's bookmarked articles.
func (h *ArticleHandler) ListBookmarked(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.GetInt64("userID")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	articles, total, err := h.svc.ListBookmarked(ctx, userID, page, pageSize)
	if err != nil {
		h.logger.Error(ctx, "List bookmarks failed",
			logger.F("error", err.Error()),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"articles": articles, "total": total}, nil)
}

type translationRequest struct {
	Language string `json:"language" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Summary  string `json:"summary"`
}

// UpsertTranslation stores a localized rendition of an article.
func (h *ArticleHandler) UpsertTranslation(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	var req translationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	translation, err := h.svc.UpsertTranslation(ctx, articleID, &service.TranslateArticleParams{
		Language: req.Language,
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
	})
	if err != nil {
		h.logger.Error(ctx, "Upsert translation failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID),
			logger.F("language", req.Language))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, translation, nil)
}

// GetTranslation reads an article in the requested language,
// falling back to the original when no translation exists.
func (h *ArticleHandler) GetTranslation(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	translation, err := h.svc.GetTranslation(ctx, articleID, c.Param("lang"))
	if err != nil {
		h.logger.Error(ctx, "Get translation failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, translation, nil)
}

// Search runs a full-text query over the approved articles.
func (h *ArticleHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	articles, total, err := h.svc.SearchArticles(ctx,
		c.Query("q"), c.Query("region"), c.Query("language"), page, pageSize)
	if err != nil {
		h.logger.Error(ctx, "Search articles failed",
			logger.F("error", err.Error()),
			logger.F("query", c.Query("q")))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"articles": articles, "total": total}, nil)
}

// Trending returns the most viewed approved articles.
func (h *ArticleHandler) Trending(c *gin.Context) {
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	articles, err := h.svc.TrendingArticles(ctx, limit)
	if err != nil {
		h.logger.Error(ctx, "List trending failed", logger.F("error", err.Error()))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"articles": articles}, nil)
}
