package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/telemetry"
)

// AnalyticsService reads aggregated view statistics for the
// editorial dashboard.
type AnalyticsService struct {
	analyticsDAO dao.AnalyticsDAO
	articleDAO   dao.ArticleDAO
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(analyticsDAO dao.AnalyticsDAO, articleDAO dao.ArticleDAO) *AnalyticsService {
	return &AnalyticsService{analyticsDAO: analyticsDAO, articleDAO: articleDAO}
}

// TopArticleStat pairs an article with its view total for a window.
type TopArticleStat struct {
	Article *model.Article `json:"article"`
	Views   int64          `json:"views"`
}

// TopArticles returns the most viewed articles within the last
// `days` days, hydrated from the primary store.
func (s *AnalyticsService) TopArticles(ctx context.Context, days, limit int) ([]*TopArticleStat, error) {
	ctx, span := telemetry.StartSpan(ctx, "analytics.service.TopArticles")
	defer span.End()

	if days <= 0 {
		days = 7
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	span.SetAttributes(
		attribute.Int("analytics.days", days),
		attribute.Int("analytics.limit", limit),
	)

	since := time.Now().AddDate(0, 0, -days)
	counts, err := s.analyticsDAO.TopArticles(ctx, since, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to aggregate views")
		return nil, err
	}

	stats := make([]*TopArticleStat, 0, len(counts))
	for _, count := range counts {
		article, err := s.articleDAO.GetArticle(ctx, count.ArticleID)
		if err != nil {
			if model.IsNotFound(err) {
				continue // article deleted after views were recorded
			}
			span.RecordError(err)
			return nil, err
		}
		stats = append(stats, &TopArticleStat{Article: article, Views: count.Views})
	}

	span.SetStatus(codes.Ok, "top articles aggregated")
	return stats, nil
}

// CategoryBreakdown returns view totals per category within the last
// `days` days.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, days int) ([]dao.CategoryViewCount, error) {
	ctx, span := telemetry.StartSpan(ctx, "analytics.service.CategoryBreakdown")
	defer span.End()

	if days <= 0 {
		days = 7
	}

	span.SetAttributes(attribute.Int("analytics.days", days))

	since := time.Now().AddDate(0, 0, -days)
	breakdown, err := s.analyticsDAO.CategoryBreakdown(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to aggregate categories")
		return nil, err
	}

	span.SetStatus(codes.Ok, "category breakdown aggregated")
	return breakdown, nil
}
