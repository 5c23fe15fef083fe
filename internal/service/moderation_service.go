package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/notify"
	tracecontext "github.com/mahalakshmi2126/Newshub-Server/pkg/context"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/kafka"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/redis"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/telemetry"
)

// ModerationService applies editorial decisions to submitted articles.
type ModerationService struct {
	articleDAO dao.ArticleDAO
	userDAO    dao.UserDAO
	searchDAO  dao.SearchDAO
	redis      *redis.RedisClient
	producer   *kafka.Producer
	dispatcher notify.Dispatcher
	logger     logger.Logger

	frontendURL string
	pushIcon    string
}

// NewModerationService creates the moderation service.
func NewModerationService(
	articleDAO dao.ArticleDAO,
	userDAO dao.UserDAO,
	searchDAO dao.SearchDAO,
	redisClient *redis.RedisClient,
	producer *kafka.Producer,
	dispatcher notify.Dispatcher,
	frontendURL, pushIcon string,
	log logger.Logger,
) *ModerationService {
	return &ModerationService{
		articleDAO:  articleDAO,
		userDAO:     userDAO,
		searchDAO:   searchDAO,
		redis:       redisClient,
		producer:    producer,
		dispatcher:  dispatcher,
		logger:      log,
		frontendURL: frontendURL,
		pushIcon:    pushIcon,
	}
}

// SetArticleStatus moves an article to pending, approved or rejected.
// The reporter's approved-article count moves only when the approved
// boundary is crossed; repeating a status is a no-op for the counter.
// Side effects outside the database run asynchronously and never fail
// the moderation call.
func (s *ModerationService) SetArticleStatus(ctx context.Context, articleID int64, newStatus string) (*model.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "moderation.service.SetArticleStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.String("article.new_status", newStatus),
	)

	ctx = tracecontext.WithArticleID(ctx, articleID)

	if articleID <= 0 {
		return nil, model.InvalidInput("article id is required")
	}
	if !model.ValidStatus(newStatus) {
		return nil, model.InvalidInput("status must be pending, approved or rejected")
	}

	change, err := s.articleDAO.UpdateStatus(ctx, articleID, newStatus)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update status")
		return nil, err
	}

	article, err := s.articleDAO.GetArticle(ctx, articleID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.clearArticleCache(ctx, articleID)
	s.applySideEffects(article, change)

	s.logger.Info(ctx, "Article status updated",
		logger.F("articleID", articleID),
		logger.F("oldStatus", change.OldStatus),
		logger.F("newStatus", change.NewStatus),
		logger.F("authorDelta", change.AuthorDelta))

	span.SetStatus(codes.Ok, "status updated")
	return article, nil
}

// applySideEffects fans out the push notification, adjusts the search
// index and publishes the moderation event. All best effort.
func (s *ModerationService) applySideEffects(article *model.Article, change *model.ArticleStatusChange) {
	newlyApproved := change.OldStatus != model.ArticleStatusApproved &&
		change.NewStatus == model.ArticleStatusApproved
	leftApproved := change.OldStatus == model.ArticleStatusApproved &&
		change.NewStatus != model.ArticleStatusApproved

	go func() {
		ctx := context.Background()

		if newlyApproved {
			s.fanOutPush(ctx, article)
			if s.searchDAO != nil {
				if err := s.searchDAO.IndexArticle(ctx, article); err != nil {
					s.logger.Error(ctx, "Failed to index approved article",
						logger.F("articleID", article.ID),
						logger.F("error", err.Error()))
				}
			}
		}

		if leftApproved && s.searchDAO != nil {
			if err := s.searchDAO.RemoveArticle(ctx, article.ID); err != nil {
				s.logger.Error(ctx, "Failed to remove article from index",
					logger.F("articleID", article.ID),
					logger.F("error", err.Error()))
			}
		}

		s.publishModerationEvent(ctx, article, change)
	}()
}

// fanOutPush notifies every opted-in user about a freshly approved
// article, the reporter included.
func (s *ModerationService) fanOutPush(ctx context.Context, article *model.Article) {
	if s.dispatcher == nil {
		return
	}

	targets, err := s.userDAO.ListPushTargets(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to load push targets",
			logger.F("articleID", article.ID),
			logger.F("error", err.Error()))
		return
	}
	if len(targets) == 0 {
		return
	}

	tokens := make([]string, 0, len(targets))
	for _, target := range targets {
		tokens = append(tokens, target.FCMToken)
	}

	notification := notify.BuildArticleNotification(article, s.frontendURL, s.pushIcon, tokens)
	if err := s.dispatcher.DispatchPush(notification); err != nil {
		s.logger.Error(ctx, "Failed to dispatch push notification",
			logger.F("articleID", article.ID),
			logger.F("error", err.Error()))
	}
}

type moderationEvent struct {
	Type      string `json:"type"`
	ArticleID int64  `json:"article_id"`
	AuthorID  int64  `json:"author_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Timestamp int64  `json:"timestamp"`
}

func (s *ModerationService) publishModerationEvent(ctx context.Context, article *model.Article, change *model.ArticleStatusChange) {
	if s.producer == nil {
		return
	}

	eventType := model.EventArticleRejected
	if change.NewStatus == model.ArticleStatusApproved {
		eventType = model.EventArticleApproved
	}

	event := &moderationEvent{
		Type:      eventType,
		ArticleID: article.ID,
		AuthorID:  article.AuthorID,
		OldStatus: change.OldStatus,
		NewStatus: change.NewStatus,
		Timestamp: time.Now().Unix(),
	}

	key := fmt.Sprintf("%d", article.ID)
	if err := s.producer.PublishJSON(model.TopicArticleEvents, key, event); err != nil {
		s.logger.Error(ctx, "Failed to publish moderation event",
			logger.F("articleID", article.ID),
			logger.F("eventType", eventType),
			logger.F("error", err.Error()))
	}
}

func (s *ModerationService) clearArticleCache(ctx context.Context, articleID int64) {
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
