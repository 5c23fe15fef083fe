package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/database"
)

type articleDAO struct {
	db *database.PostgreSQL
}

// NewArticleDAO creates the article DAO.
func NewArticleDAO(db *database.PostgreSQL) ArticleDAO {
	return &articleDAO{
		db: db,
	}
}

// CreateArticle inserts a new article in pending status.
func (d *articleDAO) CreateArticle(ctx context.Context, article *model.Article) error {
	if article.Status == "" {
		article.Status = model.ArticleStatusPending
	}
	return d.db.WithContext(ctx).Create(article).Error
}

// GetArticle loads one article with its translations.
func (d *articleDAO) GetArticle(ctx context.Context, articleID int64) (*model.Article, error) {
	var article model.Article
	err := d.db.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", articleID).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound("article %d not found", articleID)
		}
		return nil, err
	}
	return &article, nil
}

// ListArticles queries articles with filters and pagination.
func (d *articleDAO) ListArticles(ctx context.Context, params *ListArticlesParams) ([]*model.Article, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Article{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Region != "" {
		query = query.Where("region = ?", params.Region)
	}
	if params.Language != "" {
		query = query.Where("language = ?", params.Language)
	}
	if params.AuthorID > 0 {
		query = query.Where("author_id = ?", params.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page <= 0 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var articles []*model.Article
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// UpdateArticle saves article fields.
func (d *articleDAO) UpdateArticle(ctx context.Context, article *model.Article) error {
	return d.db.WithContext(ctx).Save(article).Error
}

// DeleteArticle removes the article with its bookmarks and
// translations. The comment forest is left in place: comments of a
// deleted article become unreachable orphans.
func (d *articleDAO) DeleteArticle(ctx context.Context, articleID int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := tx.Where("id = ?", articleID).First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("article %d not found", articleID)
			}
			return err
		}

		if err := tx.Where("article_id = ?", articleID).Delete(&model.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", articleID).Delete(&model.ArticleTranslation{}).Error; err != nil {
			return err
		}

		// An approved article leaving the platform also leaves the
		// reporter's approved count.
		if article.Status == model.ArticleStatusApproved {
			if err := incrementArticlesCountTx(tx, article.AuthorID, -1); err != nil {
				return err
			}
		}

		return tx.Delete(&article).Error
	})
}

// UpdateStatus applies a moderation decision. The row lock serializes
// concurrent decisions so the reporter counter moves exactly once per
// boundary crossing.
func (d *articleDAO) UpdateStatus(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error) {
	var change *model.ArticleStatusChange
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", articleID).
			First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("article %d not found", articleID)
			}
			return err
		}

		oldStatus := article.Status
		delta := model.StatusDelta(oldStatus, newStatus)

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == model.ArticleStatusApproved && article.PublishedAt == nil {
			now := time.Now()
			updates["published_at"] = &now
		}
		if err := tx.Model(&article).Updates(updates).Error; err != nil {
			return err
		}

		if delta != 0 {
			if err := incrementArticlesCountTx(tx, article.AuthorID, delta); err != nil {
				return err
			}
		}

		change = &model.ArticleStatusChange{
			ArticleID:   articleID,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			AuthorDelta: delta,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// IncrementViewCount bumps the denormalized view counter.
func (d *articleDAO) IncrementViewCount(ctx context.Context, articleID int64) error {
	return d.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", articleID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// ToggleBookmark flips the user's bookmark row and their bookmark
// count in one transaction.
func (d *articleDAO) ToggleBookmark(ctx context.Context, userID, articleID int64) (bool, error) {
	var bookmarked bool
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := tx.Select("id").Where("id = ?", articleID).First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("article %d not found", articleID)
			}
			return err
		}

		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&model.Bookmark{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			bookmarked = false
			return tx.Model(&model.User{}).
				Where("id = ?", userID).
				UpdateColumn("bookmarks_count", gorm.Expr("GREATEST(bookmarks_count - ?, 0)", 1)).Error
		}

		bookmarked = true
		if err := tx.Create(&model.Bookmark{UserID: userID, ArticleID: articleID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			UpdateColumn("bookmarks_count", gorm.Expr("bookmarks_count + ?", 1)).Error
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// ListBookmarked pages through the user's saved articles.
func (d *articleDAO) ListBookmarked(ctx context.Context, userID int64, page, pageSize int) ([]*model.Article, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	base := d.db.WithContext(ctx).Model(&model.Bookmark{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []*model.Article
	err := d.db.WithContext(ctx).Model(&model.Article{}).
		Joins("JOIN bookmarks ON bookmarks.article_id = articles.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// UpsertTranslation inserts or replaces one localized rendering.
func (d *articleDAO) UpsertTranslation(ctx context.Context, tr *model.ArticleTranslation) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "article_id"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "summary", "updated_at"}),
	}).Create(tr).Error
}

// GetTranslation loads one localized rendering.
func (d *articleDAO) GetTranslation(ctx context.Context, articleID int64, language string) (*model.ArticleTranslation, error) {
	var tr model.ArticleTranslation
	err := d.db.WithContext(ctx).
		Where("article_id = ? AND language = ?", articleID, language).
		First(&tr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound("translation %s for article %d not found", language, articleID)
		}
		return nil, err
	}
	return &tr, nil
}

func incrementArticlesCountTx(tx *gorm.DB, userID int64, delta int) error {
	if delta >= 0 {
		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			UpdateColumn("articles_count", gorm.Expr("articles_count + ?", delta)).Error
	}
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("articles_count", gorm.Expr("GREATEST(articles_count - ?, 0)", -delta)).Error
}
