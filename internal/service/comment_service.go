package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	tracecontext "github.com/mahalakshmi2126/Newshub-Server/pkg/context"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/kafka"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/redis"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/telemetry"
)

const (
	commentForestCachePrefix = "comments:article:"
	commentForestCacheTTL    = 2 * time.Minute
)

// CommentService manages the per-article comment forests.
type CommentService struct {
	commentDAO dao.CommentDAO
	userDAO    dao.UserDAO
	redis      *redis.RedisClient
	producer   *kafka.Producer
	logger     logger.Logger
}

// NewCommentService creates the comment service.
func NewCommentService(commentDAO dao.CommentDAO, userDAO dao.UserDAO, redisClient *redis.RedisClient, producer *kafka.Producer, log logger.Logger) *CommentService {
	return &CommentService{
		commentDAO: commentDAO,
		userDAO:    userDAO,
		redis:      redisClient,
		producer:   producer,
		logger:     log,
	}
}

// CreateCommentParams carries the input for posting a comment or a
// reply. ParentID zero means a new top-level thread.
type CreateCommentParams struct {
	ArticleID int64
	ParentID  int64
	AuthorID  int64
	Content   string
}

// CreateComment posts a comment, snapshotting the author identity at
// creation time. Works for top-level comments and replies at any depth.
func (s *CommentService) CreateComment(ctx context.Context, params *CreateCommentParams) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "comment.service.CreateComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.article_id", params.ArticleID),
		attribute.Int64("comment.parent_id", params.ParentID),
		attribute.Int64("comment.author_id", params.AuthorID),
		attribute.Int("comment.content_length", len(params.Content)),
	)

	ctx = tracecontext.WithUserID(ctx, params.AuthorID)
	ctx = tracecontext.WithArticleID(ctx, params.ArticleID)

	if err := s.validateCreateParams(params); err != nil {
		span.SetStatus(codes.Error, "invalid parameters")
		return nil, err
	}

	author, err := s.userDAO.GetUser(ctx, params.AuthorID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	comment := &model.Comment{
		ArticleID:    params.ArticleID,
		ParentID:     params.ParentID,
		AuthorID:     author.ID,
		AuthorName:   author.DisplayName(),
		AuthorAvatar: author.Avatar,
		Content:      strings.TrimSpace(params.Content),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.commentDAO.CreateComment(ctx, comment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create comment")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("comment.id", comment.ID))

	s.clearForestCache(ctx, comment.ArticleID)
	s.publishEvent(ctx, model.EventCommentCreated, comment)

	s.logger.Info(ctx, "Comment created successfully",
		logger.F("commentID", comment.ID),
		logger.F("articleID", comment.ArticleID),
		logger.F("parentID", comment.ParentID))

	span.SetStatus(codes.Ok, "comment created successfully")
	return comment, nil
}

// ToggleLike flips the caller's like on a comment. A user's repeated
// toggles alternate between exactly one like and none.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID int64) (bool, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "comment.service.ToggleLike")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.id", commentID),
		attribute.Int64("comment.user_id", userID),
	)

	if commentID <= 0 {
		return false, 0, model.InvalidInput("comment id is required")
	}
	if userID <= 0 {
		return false, 0, model.InvalidInput("user id is required")
	}

	liked, likeCount, err := s.commentDAO.ToggleLike(ctx, commentID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to toggle like")
		return false, 0, err
	}

	comment, getErr := s.commentDAO.GetComment(ctx, commentID)
	if getErr == nil {
		s.clearForestCache(ctx, comment.ArticleID)
	}

	s.logger.Info(ctx, "Comment like toggled",
		logger.F("commentID", commentID),
		logger.F("userID", userID),
		logger.F("liked", liked),
		logger.F("likeCount", likeCount))

	span.SetStatus(codes.Ok, "like toggled")
	return liked, likeCount, nil
}

// DeleteComment removes the comment and its whole reply subtree. Only
// the comment author or an admin may delete.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int64, isAdmin bool) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "comment.service.DeleteComment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.id", commentID),
		attribute.Int64("comment.user_id", userID),
		attribute.Bool("comment.is_admin", isAdmin),
	)

	if commentID <= 0 {
		return 0, model.InvalidInput("comment id is required")
	}

	comment, err := s.commentDAO.GetComment(ctx, commentID)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	if !isAdmin && comment.AuthorID != userID {
		return 0, model.InvalidInput("only the comment author can delete it")
	}

	removed, err := s.commentDAO.DeleteComment(ctx, commentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete comment")
		return 0, err
	}

	s.clearForestCache(ctx, comment.ArticleID)
	s.publishEvent(ctx, model.EventCommentDeleted, comment)

	s.logger.Info(ctx, "Comment deleted successfully",
		logger.F("commentID", commentID),
		logger.F("articleID", comment.ArticleID),
		logger.F("removedNodes", removed))

	span.SetStatus(codes.Ok, "comment deleted")
	return removed, nil
}

// GetArticleComments returns the article's comment forest with live
// author identities and the viewer's like marks resolved. viewerID
// zero means an anonymous reader.
func (s *CommentService) GetArticleComments(ctx context.Context, articleID, viewerID int64) ([]*model.CommentNode, error) {
	ctx, span := telemetry.StartSpan(ctx, "comment.service.GetArticleComments")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("comment.article_id", articleID),
		attribute.Int64("comment.viewer_id", viewerID),
	)

	if articleID <= 0 {
		return nil, model.InvalidInput("article id is required")
	}

	forest, hit := s.loadForestFromCache(ctx, articleID)
	if !hit {
		rows, err := s.commentDAO.ListByArticle(ctx, articleID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		forest = model.BuildCommentForest(rows)
		if dropped := int64(len(rows)) - model.CountNodes(forest); dropped > 0 {
			s.logger.Warn(ctx, "Comment rows dropped from listing",
				logger.F("articleID", articleID),
				logger.F("dropped", dropped))
		}

		if err := s.annotateAuthors(ctx, rows); err != nil {
			s.logger.Warn(ctx, "Failed to refresh comment authors",
				logger.F("articleID", articleID),
				logger.F("error", err.Error()))
		}

		// Cached before the viewer's like marks go on, so a hit serves
		// any reader.
		s.storeForestInCache(ctx, articleID, forest)
	}
	span.SetAttributes(attribute.Bool("comment.cache_hit", hit))

	if viewerID > 0 {
		likedSet, err := s.commentDAO.GetLikedSet(ctx, viewerID, forestIDs(forest))
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		markLiked(forest, likedSet)
	}

	span.SetAttributes(attribute.Int64("comment.count", model.CountNodes(forest)))
	span.SetStatus(codes.Ok, "comments loaded")
	return forest, nil
}

// annotateAuthors refreshes snapshot identities from live accounts;
// deleted accounts keep their stored snapshot.
func (s *CommentService) annotateAuthors(ctx context.Context, rows []*model.Comment) error {
	if len(rows) == 0 {
		return nil
	}

	authorIDs := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if !seen[row.AuthorID] {
			seen[row.AuthorID] = true
			authorIDs = append(authorIDs, row.AuthorID)
		}
	}

	users, err := s.userDAO.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return err
	}

	for _, row := range rows {
		snapshot := model.ResolveAuthor(row, users[row.AuthorID])
		row.AuthorName = snapshot.Name
		row.AuthorAvatar = snapshot.Avatar
	}
	return nil
}

func markLiked(nodes []*model.CommentNode, likedSet map[int64]bool) {
	for _, node := range nodes {
		node.IsLiked = likedSet[node.ID]
		markLiked(node.Replies, likedSet)
	}
}

func forestIDs(nodes []*model.CommentNode) []int64 {
	ids := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID)
		ids = append(ids, forestIDs(node.Replies)...)
	}
	return ids
}

func (s *CommentService) validateCreateParams(params *CreateCommentParams) error {
	if params.ArticleID <= 0 {
		return model.InvalidInput("article id is required")
	}
	if params.AuthorID <= 0 {
		return model.InvalidInput("author id is required")
	}
	if params.ParentID < 0 {
		return model.InvalidInput("parent id is invalid")
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return model.InvalidInput("comment content must not be empty")
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return model.InvalidInput("comment content exceeds %d characters", model.MaxCommentLength)
	}
	return nil
}

func (s *CommentService) loadForestFromCache(ctx context.Context, articleID int64) ([]*model.CommentNode, bool) {
	if s.redis == nil {
		return nil, false
	}
	key := fmt.Sprintf("%s%d", commentForestCachePrefix, articleID)
	raw, err := s.redis.Get(ctx, key)
	if err != nil || raw == "" {
		return nil, false
	}
	var forest []*model.CommentNode
	if err := json.Unmarshal([]byte(raw), &forest); err != nil {
		return nil, false
	}
	return forest, true
}

func (s *CommentService) storeForestInCache(ctx context.Context, articleID int64, forest []*model.CommentNode) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(forest)
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s%d", commentForestCachePrefix, articleID)
	if err := s.redis.Set(ctx, key, string(raw), commentForestCacheTTL); err != nil {
		s.logger.Warn(ctx, "Failed to cache comment forest",
			logger.F("articleID", articleID),
			logger.F("error", err.Error()))
	}
}

// clearForestCache drops both the cached forest and the cached article
// so the next read sees the fresh comment counter.
func (s *CommentService) clearForestCache(ctx context.Context, articleID int64) {
	if s.redis == nil {
		return
	}
	forestKey := fmt.Sprintf("%s%d", commentForestCachePrefix, articleID)
	articleKey := fmt.Sprintf("%s%d", articleCachePrefix, articleID)
	if err := s.redis.Del(ctx, forestKey, articleKey); err != nil {
		s.logger.Warn(ctx, "Failed to clear comment caches",
			logger.F("articleID", articleID),
			logger.F("error", err.Error()))
	}
}

type commentEvent struct {
	Type      string `json:"type"`
	CommentID int64  `json:"comment_id"`
	ArticleID int64  `json:"article_id"`
	AuthorID  int64  `json:"author_id"`
	Timestamp int64  `json:"timestamp"`
}

func (s *CommentService) publishEvent(ctx context.Context, eventType string, comment *model.Comment) {
	if s.producer == nil {
		return
	}

	go func() {
		event := &commentEvent{
			Type:      eventType,
			CommentID: comment.ID,
			ArticleID: comment.ArticleID,
			AuthorID:  comment.AuthorID,
			Timestamp: time.Now().Unix(),
		}

		key := fmt.Sprintf("%d", comment.ArticleID)
		if err := s.producer.PublishJSON(model.TopicCommentEvents, key, event); err != nil {
			s.logger.Error(context.Background(), "Failed to publish event",
				logger.F("eventType", eventType),
				logger.F("commentID", comment.ID),
				logger.F("error", err.Error()))
		}
	}()
}
