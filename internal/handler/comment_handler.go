package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/service"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/httpx"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

// CommentHandler exposes the comment tree over HTTP.
type CommentHandler struct {
	svc    *service.CommentService
	logger logger.Logger
}

// NewCommentHandler creates the comment handler.
func NewCommentHandler(svc *service.CommentService, log logger.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: log}
}

// RegisterRoutes registers the comment routes.
func (h *CommentHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/comments")
	{
		api.POST("", h.CreateComment)
		api.POST("/:id/like", h.ToggleLike)
		api.DELETE("/:id", h.DeleteComment)
	}

	r.GET("/api/v1/news/:id/comments", h.GetArticleComments)
	r.GET("/api/v1/news/public/:id/comments", h.GetArticleComments)
}

type createCommentRequest struct {
	ArticleID int64  `json:"articleId" binding:"required"`
	ParentID  int64  `json:"parentId"`
	Content   string `json:"content" binding:"required"`
}

// CreateComment posts a top-level comment or a reply.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "Invalid create comment request", logger.F("error", err.Error()))
		httpx.WriteError(c, model.InvalidInput("invalid request format"))
		return
	}

	userID := c.GetInt64("userID")

	comment, err := h.svc.CreateComment(ctx, &service.CreateCommentParams{
		ArticleID: req.ArticleID,
		ParentID:  req.ParentID,
		AuthorID:  userID,
		Content:   req.Content,
	})
	if err != nil {
		h.logger.Error(ctx, "Create comment failed",
			logger.F("error", err.Error()),
			logger.F("articleID", req.ArticleID),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, comment, nil)
}

// ToggleLike likes or unlikes a comment for the caller.
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	ctx := c.Request.Context()

	commentID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	userID := c.GetInt64("userID")

	liked, likeCount, err := h.svc.ToggleLike(ctx, commentID, userID)
	if err != nil {
		h.logger.Error(ctx, "Toggle comment like failed",
			logger.F("error", err.Error()),
			logger.F("commentID", commentID),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"liked": liked, "likes": likeCount}, nil)
}

// DeleteComment removes a comment together with its reply subtree.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()

	commentID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	userID := c.GetInt64("userID")
	isAdmin := c.GetString("role") == model.RoleAdmin

	removed, err := h.svc.DeleteComment(ctx, commentID, userID, isAdmin)
	if err != nil {
		h.logger.Error(ctx, "Delete comment failed",
			logger.F("error", err.Error()),
			logger.F("commentID", commentID),
			logger.F("userID", userID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"removed": removed}, nil)
}

// GetArticleComments returns the comment forest for an article,
// with the caller's likes marked when authenticated.
func (h *CommentHandler) GetArticleComments(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, err := pathID(c, "id")
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	viewerID := c.GetInt64("userID")

	forest, err := h.svc.GetArticleComments(ctx, articleID, viewerID)
	if err != nil {
		h.logger.Error(ctx, "Get article comments failed",
			logger.F("error", err.Error()),
			logger.F("articleID", articleID))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"comments": forest}, nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.InvalidInput("invalid %s", name)
	}
	return id, nil
}
