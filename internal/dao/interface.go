package dao

import (
	"context"
	"time"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
)

// CommentDAO is the comment forest data access interface.
type CommentDAO interface {
	// CreateComment inserts the comment and bumps both the article
	// counter and the author's comment statistic in one transaction.
	// RootID is resolved from the parent.
	CreateComment(ctx context.Context, comment *model.Comment) error

	GetComment(ctx context.Context, commentID int64) (*model.Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]*model.Comment, error)

	// DeleteComment removes the comment and its whole reply subtree,
	// their like rows included, and decrements the article counter by
	// the number of removed nodes. It returns that number.
	DeleteComment(ctx context.Context, commentID int64) (int64, error)

	// ToggleLike flips the caller's like on a comment and returns the
	// resulting state and count.
	ToggleLike(ctx context.Context, commentID, userID int64) (bool, int64, error)

	// GetLikedSet returns which of the given comments userID has liked.
	GetLikedSet(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
}

// ArticleDAO is the article data access interface.
type ArticleDAO interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, articleID int64) (*model.Article, error)
	ListArticles(ctx context.Context, params *ListArticlesParams) ([]*model.Article, int64, error)
	UpdateArticle(ctx context.Context, article *model.Article) error

	// DeleteArticle removes the article and every dependent row.
	DeleteArticle(ctx context.Context, articleID int64) error

	// UpdateStatus applies a moderation decision under a row lock and
	// adjusts the reporter's approved-article count when the approved
	// boundary is crossed.
	UpdateStatus(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error)

	IncrementViewCount(ctx context.Context, articleID int64) error

	// ToggleBookmark flips the user's bookmark and maintains the
	// user's bookmark count. Returns the resulting state.
	ToggleBookmark(ctx context.Context, userID, articleID int64) (bool, error)
	ListBookmarked(ctx context.Context, userID int64, page, pageSize int) ([]*model.Article, int64, error)

	UpsertTranslation(ctx context.Context, tr *model.ArticleTranslation) error
	GetTranslation(ctx context.Context, articleID int64, language string) (*model.ArticleTranslation, error)
}

// ListArticlesParams filters article listings.
type ListArticlesParams struct {
	Status   string
	Category string
	Region   string
	Language string
	AuthorID int64
	Page     int
	PageSize int
}

// UserDAO is the account data access interface.
type UserDAO interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	GetUserByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []int64) (map[int64]*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdatePushSettings stores the device token and opt-in flag.
	UpdatePushSettings(ctx context.Context, userID int64, enabled bool, fcmToken string) error

	// ListPushTargets returns every user eligible for push delivery.
	ListPushTargets(ctx context.Context) ([]*model.User, error)

	// CreateReporterRequest files a role upgrade application. A pending
	// or approved request conflicts; a rejected one reopens.
	CreateReporterRequest(ctx context.Context, req *model.ReporterRequest) error
	ListReporterRequests(ctx context.Context, status string) ([]*model.ReporterRequest, error)

	// ResolveReporterRequest closes a pending request and, on approval,
	// promotes the user to reporter in the same transaction.
	ResolveReporterRequest(ctx context.Context, requestID int64, approve bool) (*model.ReporterRequest, error)
}

// AnalyticsDAO records and aggregates engagement events in MongoDB.
type AnalyticsDAO interface {
	RecordView(ctx context.Context, event *ArticleViewEvent) error
	TopArticles(ctx context.Context, since time.Time, limit int) ([]ArticleViewCount, error)
	CategoryBreakdown(ctx context.Context, since time.Time) ([]CategoryViewCount, error)
}

// ArticleViewEvent is one recorded article view.
type ArticleViewEvent struct {
	ArticleID int64     `bson:"article_id"`
	UserID    int64     `bson:"user_id,omitempty"`
	Category  string    `bson:"category,omitempty"`
	Region    string    `bson:"region,omitempty"`
	ViewedAt  time.Time `bson:"viewed_at"`
}

// ArticleViewCount is an aggregated per-article view total.
type ArticleViewCount struct {
	ArticleID int64 `bson:"_id" json:"articleId"`
	Views     int64 `bson:"views" json:"views"`
}

// CategoryViewCount is an aggregated per-category view total.
type CategoryViewCount struct {
	Category string `bson:"_id" json:"category"`
	Views    int64  `bson:"views" json:"views"`
}

// SearchDAO maintains the article search index.
type SearchDAO interface {
	IndexArticle(ctx context.Context, article *model.Article) error
	RemoveArticle(ctx context.Context, articleID int64) error
	SearchArticles(ctx context.Context, query string, region, language string, from, size int) ([]int64, int64, error)
}
