package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	tracecontext "github.com/mahalakshmi2126/Newshub-Server/pkg/context"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/redis"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/telemetry"
)

const (
	articleCachePrefix = "article:"
	articleCacheTTL    = 5 * time.Minute
	trendingZSetKey    = "articles:trending"
)

// ArticleService handles article publishing, reading and bookmarks.
type ArticleService struct {
	articleDAO   dao.ArticleDAO
	userDAO      dao.UserDAO
	searchDAO    dao.SearchDAO
	analyticsDAO dao.AnalyticsDAO
	redis        *redis.RedisClient
	logger       logger.Logger
}

// NewArticleService creates the article service.
func NewArticleService(
	articleDAO dao.ArticleDAO,
	userDAO dao.UserDAO,
	searchDAO dao.SearchDAO,
	analyticsDAO dao.AnalyticsDAO,
	redisClient *redis.RedisClient,
	log logger.Logger,
) *ArticleService {
	return &ArticleService{
		articleDAO:   articleDAO,
		userDAO:      userDAO,
		searchDAO:    searchDAO,
		analyticsDAO: analyticsDAO,
		redis:        redisClient,
		logger:       log,
	}
}

// CreateArticleParams carries the fields a reporter submits.
type CreateArticleParams struct {
	AuthorID int64
	Title    string
	Content  string
	Summary  string
	Category string
	Region   string
	Language string
	ImageURL string
}

// CreateArticle submits a new article. It always enters in pending
// status and becomes visible to readers only after approval.
func (s *ArticleService) CreateArticle(ctx context.Context, params *CreateArticleParams) (*model.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.CreateArticle")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.author_id", params.AuthorID),
		attribute.String("article.category", params.Category),
	)

	ctx = tracecontext.WithUserID(ctx, params.AuthorID)

	if err := validateArticleParams(params); err != nil {
		span.SetStatus(codes.Error, "invalid params")
		return nil, err
	}

	if _, err := s.userDAO.GetUser(ctx, params.AuthorID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	article := &model.Article{
		AuthorID: params.AuthorID,
		Title:    strings.TrimSpace(params.Title),
		Content:  params.Content,
		Summary:  strings.TrimSpace(params.Summary),
		Category: params.Category,
		Region:   params.Region,
		Language: params.Language,
		ImageURL: params.ImageURL,
		Status:   model.ArticleStatusPending,
	}

	if err := s.articleDAO.CreateArticle(ctx, article); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create article")
		return nil, err
	}

	s.logger.Info(ctx, "Article submitted",
		logger.F("articleID", article.ID),
		logger.F("authorID", article.AuthorID),
		logger.F("category", article.Category))

	span.SetAttributes(attribute.Int64("article.id", article.ID))
	span.SetStatus(codes.Ok, "article created")
	return article, nil
}

// GetArticle returns a single article. Reads count toward the view
// counter and the analytics store when countView is set.
func (s *ArticleService) GetArticle(ctx context.Context, articleID, viewerID int64, countView bool) (*model.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.GetArticle")
	defer span.End()

	span.SetAttributes(attribute.Int64("article.id", articleID))
	ctx = tracecontext.WithArticleID(ctx, articleID)

	if articleID <= 0 {
		return nil, model.InvalidInput("article id is required")
	}

	article, cached := s.loadArticleFromCache(ctx, articleID)
	if !cached {
		var err error
		article, err = s.articleDAO.GetArticle(ctx, articleID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "article not found")
			return nil, err
		}
		s.storeArticleInCache(ctx, article)
	}

	if countView {
		s.recordView(article, viewerID)
	}

	span.SetStatus(codes.Ok, "article fetched")
	return article, nil
}

// ListArticles returns a filtered page of articles.
func (s *ArticleService) ListArticles(ctx context.Context, params *dao.ListArticlesParams) ([]*model.Article, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.ListArticles")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.status_filter", params.Status),
		attribute.Int("article.page", params.Page),
	)

	articles, total, err := s.articleDAO.ListArticles(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list articles")
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int64("article.total", total))
	span.SetStatus(codes.Ok, "articles listed")
	return articles, total, nil
}

// UpdateArticleParams carries the editable fields of an article.
type UpdateArticleParams struct {
	Title    string
	Content  string
	Summary  string
	Category string
	Region   string
	Language string
	ImageURL string
}

// UpdateArticle lets the author or an admin edit an article. An
// edited approved article returns to pending for re-review.
func (s *ArticleService) UpdateArticle(ctx context.Context, articleID, userID int64, isAdmin bool, params *UpdateArticleParams) (*model.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.UpdateArticle")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.Int64("user.id", userID),
	)

	ctx = tracecontext.WithUserID(ctx, userID)
	ctx = tracecontext.WithArticleID(ctx, articleID)

	article, err := s.articleDAO.GetArticle(ctx, articleID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if article.AuthorID != userID && !isAdmin {
		span.SetStatus(codes.Error, "not authorized")
		return nil, model.InvalidInput("only the author or an admin can edit the article")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" || strings.TrimSpace(params.Content) == "" {
		return nil, model.InvalidInput("title and content are required")
	}

	article.Title = title
	article.Content = params.Content
	article.Summary = strings.TrimSpace(params.Summary)
	article.Category = params.Category
	article.Region = params.Region
	article.Language = params.Language
	article.ImageURL = params.ImageURL

	if err := s.articleDAO.UpdateArticle(ctx, article); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update article")
		return nil, err
	}

	s.clearCache(ctx, articleID)
	s.logger.Info(ctx, "Article updated",
		logger.F("articleID", articleID),
		logger.F("userID", userID))

	span.SetStatus(codes.Ok, "article updated")
	return article, nil
}

// DeleteArticle removes an article with its bookmarks and
// translations. Comments are not cascaded and stay orphaned.
func (s *ArticleService) DeleteArticle(ctx context.Context, articleID, userID int64, isAdmin bool) error {
	ctx, span := telemetry.StartSpan(ctx, "article.service.DeleteArticle")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.Int64("user.id", userID),
	)

	ctx = tracecontext.WithUserID(ctx, userID)

	article, err := s.articleDAO.GetArticle(ctx, articleID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if article.AuthorID != userID && !isAdmin {
		span.SetStatus(codes.Error, "not authorized")
		return model.InvalidInput("only the author or an admin can delete the article")
	}

	if err := s.articleDAO.DeleteArticle(ctx, articleID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete article")
		return err
	}

	s.clearCache(ctx, articleID)
	s.clearForestCacheFor(ctx, articleID)

	if s.searchDAO != nil && article.IsApproved() {
		go func() {
			if err := s.searchDAO.RemoveArticle(context.Background(), articleID); err != nil {
				s.logger.Error(context.Background(), "Failed to remove deleted article from index",
					logger.F("articleID", articleID),
					logger.F("error", err.Error()))
			}
		}()
	}

	s.logger.Info(ctx, "Article deleted",
		logger.F("articleID", articleID),
		logger.F("userID", userID))

	span.SetStatus(codes.Ok, "article deleted")
	return nil
}

// ToggleBookmark adds or removes the article from the user's
// bookmarks and reports the resulting state.
func (s *ArticleService) ToggleBookmark(ctx context.Context, articleID, userID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.ToggleBookmark")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.Int64("user.id", userID),
	)

	ctx = tracecontext.WithUserID(ctx, userID)

	if articleID <= 0 || userID <= 0 {
		return false, model.InvalidInput("article id and user id are required")
	}

	bookmarked, err := s.articleDAO.ToggleBookmark(ctx, userID, articleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to toggle bookmark")
		return false, err
	}

	span.SetAttributes(attribute.Bool("bookmark.active", bookmarked))
	span.SetStatus(codes.Ok, "bookmark toggled")
	return bookmarked, nil
}

// ListBookmarked returns a page of the user's bookmarked articles.
func (s *ArticleService) ListBookmarked(ctx context.Context, userID int64, page, pageSize int) ([]*model.Article, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.ListBookmarked")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", userID))
	ctx = tracecontext.WithUserID(ctx, userID)

	if userID <= 0 {
		return nil, 0, model.InvalidInput("user id is required")
	}

	articles, total, err := s.articleDAO.ListBookmarked(ctx, userID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list bookmarks")
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "bookmarks listed")
	return articles, total, nil
}

// TranslateArticleParams carries one localized rendition of an article.
type TranslateArticleParams struct {
	Language string
	Title    string
	Content  string
	Summary  string
}

// UpsertTranslation stores a localized version of an article,
// replacing any previous translation for the same language.
func (s *ArticleService) UpsertTranslation(ctx context.Context, articleID int64, params *TranslateArticleParams) (*model.ArticleTranslation, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.UpsertTranslation")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.String("translation.language", params.Language),
	)

	if articleID <= 0 {
		return nil, model.InvalidInput("article id is required")
	}
	if strings.TrimSpace(params.Language) == "" || strings.TrimSpace(params.Title) == "" {
		return nil, model.InvalidInput("language and title are required")
	}

	if _, err := s.articleDAO.GetArticle(ctx, articleID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	translation := &model.ArticleTranslation{
		ArticleID: articleID,
		Language:  strings.ToLower(strings.TrimSpace(params.Language)),
		Title:     strings.TrimSpace(params.Title),
		Content:   params.Content,
		Summary:   strings.TrimSpace(params.Summary),
	}

	if err := s.articleDAO.UpsertTranslation(ctx, translation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save translation")
		return nil, err
	}

	s.clearCache(ctx, articleID)
	span.SetStatus(codes.Ok, "translation saved")
	return translation, nil
}

// GetTranslation returns the article rendered in the requested
// language, falling back to the original when none exists.
func (s *ArticleService) GetTranslation(ctx context.Context, articleID int64, language string) (*model.ArticleTranslation, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.GetTranslation")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.String("translation.language", language),
	)

	translation, err := s.articleDAO.GetTranslation(ctx, articleID, strings.ToLower(language))
	if err == nil {
		span.SetStatus(codes.Ok, "translation found")
		return translation, nil
	}
	if !model.IsNotFound(err) {
		span.RecordError(err)
		return nil, err
	}

	article, err := s.articleDAO.GetArticle(ctx, articleID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "fell back to original language")
	return &model.ArticleTranslation{
		ArticleID: article.ID,
		Language:  article.Language,
		Title:     article.Title,
		Content:   article.Content,
		Summary:   article.Summary,
	}, nil
}

// SearchArticles runs a full-text query and hydrates the hits from
// the primary store, preserving relevance order.
func (s *ArticleService) SearchArticles(ctx context.Context, query, region, language string, page, pageSize int) ([]*model.Article, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.SearchArticles")
	defer span.End()

	span.SetAttributes(
		attribute.String("search.query", query),
		attribute.String("search.region", region),
	)

	if strings.TrimSpace(query) == "" {
		return nil, 0, model.InvalidInput("search query is required")
	}
	if s.searchDAO == nil {
		return nil, 0, model.Internal("search is not configured", nil)
	}

	ids, total, err := s.searchDAO.SearchArticles(ctx, query, region, language, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, 0, err
	}

	articles := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		article, err := s.articleDAO.GetArticle(ctx, id)
		if err != nil {
			if model.IsNotFound(err) {
				continue // index lag, article already gone
			}
			span.RecordError(err)
			return nil, 0, err
		}
		articles = append(articles, article)
	}

	span.SetAttributes(attribute.Int64("search.total", total))
	span.SetStatus(codes.Ok, "search completed")
	return articles, total, nil
}

// TrendingArticles returns the most viewed articles from the redis
// sorted set, hydrated from the primary store.
func (s *ArticleService) TrendingArticles(ctx context.Context, limit int) ([]*model.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "article.service.TrendingArticles")
	defer span.End()

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	if s.redis == nil {
		return nil, model.Internal("trending is not configured", nil)
	}

	entries, err := s.redis.ZRevRangeWithScores(ctx, trendingZSetKey, 0, int64(limit-1))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read trending set")
		return nil, model.Internal("failed to read trending set", err)
	}

	articles := make([]*model.Article, 0, len(entries))
	for _, entry := range entries {
		id, ok := entry.Member.(string)
		if !ok {
			continue
		}
		var articleID int64
		if _, err := fmt.Sscanf(id, "%d", &articleID); err != nil {
			continue
		}
		article, err := s.articleDAO.GetArticle(ctx, articleID)
		if err != nil {
			continue
		}
		if article.IsApproved() {
			articles = append(articles, article)
		}
	}

	span.SetStatus(codes.Ok, "trending listed")
	return articles, nil
}

func validateArticleParams(params *CreateArticleParams) error {
	if params.AuthorID <= 0 {
		return model.InvalidInput("author id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return model.InvalidInput("title is required")
	}
	if strings.TrimSpace(params.Content) == "" {
		return model.InvalidInput("content is required")
	}
	return nil
}

// recordView bumps the relational counter, the analytics store and
// the trending set. Best effort, runs off the request path.
func (s *ArticleService) recordView(article *model.Article, viewerID int64) {
	articleID := article.ID
	category := article.Category
	region := article.Region

	go func() {
		ctx := context.Background()

		if err := s.articleDAO.IncrementViewCount(ctx, articleID); err != nil {
			s.logger.Warn(ctx, "Failed to increment view count",
				logger.F("articleID", articleID),
				logger.F("error", err.Error()))
		}

		if s.analyticsDAO != nil {
			event := &dao.ArticleViewEvent{
				ArticleID: articleID,
				UserID:    viewerID,
				Category:  category,
				Region:    region,
				ViewedAt:  time.Now(),
			}
			if err := s.analyticsDAO.RecordView(ctx, event); err != nil {
				s.logger.Warn(ctx, "Failed to record view event",
					logger.F("articleID", articleID),
					logger.F("error", err.Error()))
			}
		}

		if s.redis != nil {
			member := fmt.Sprintf("%d", articleID)
			if err := s.redis.ZIncrBy(ctx, trendingZSetKey, 1, member); err != nil {
				s.logger.Warn(ctx, "Failed to update trending set",
					logger.F("articleID", articleID),
					logger.F("error", err.Error()))
			}
		}
	}()
}

func (s *ArticleService) loadArticleFromCache(ctx context.Context, articleID int64) (*model.Article, bool) {
	if s.redis == nil {
		return nil, false
	}
	key := fmt.Sprintf("%s%d", articleCachePrefix, articleID)
	raw, err := s.redis.Get(ctx, key)
	if err != nil || raw == "" {
		return nil, false
	}
	var article model.Article
	if err := json.Unmarshal([]byte(raw), &article); err != nil {
		return nil, false
	}
	return &article, true
}

func (s *ArticleService) storeArticleInCache(ctx context.Context, article *model.Article) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(article)
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s%d", articleCachePrefix, article.ID)
	if err := s.redis.Set(ctx, key, string(raw), articleCacheTTL); err != nil {
		s.logger.Warn(ctx, "Failed to cache article",
			logger.F("articleID", article.ID),
			logger.F("error", err.Error()))
	}
}

func (s *ArticleService) clearCache(ctx context.Context, articleID int64) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf("%s%d", articleCachePrefix, articleID)
	if err := s.redis.Del(ctx, key); err != nil {
		s.logger.Warn(ctx, "Failed to clear article cache",
			logger.F("articleID", articleID),
			logger.F("error", err.Error()))
	}
}

func (s *ArticleService) clearForestCacheFor(ctx context.Context, articleID int64) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf("%s%d", commentForestCachePrefix, articleID)
	if err := s.redis.Del(ctx, key); err != nil {
		s.logger.Warn(ctx, "Failed to clear comment cache",
			logger.F("articleID", articleID),
			logger.F("error", err.Error()))
	}
}
