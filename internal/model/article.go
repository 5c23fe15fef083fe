package model

import "time"

// Article is a news item submitted by a reporter.
type Article struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID int64  `json:"authorId" gorm:"not null;index"`
	Title    string `json:"title" gorm:"size:512;not null"`
	Content  string `json:"content" gorm:"type:text;not null"`
	Summary  string `json:"summary" gorm:"type:text"`
	Category string `json:"category" gorm:"size:64;index"`
	Region   string `json:"region" gorm:"size:64;index"`
	Language string `json:"language" gorm:"size:8;default:en;index"`
	ImageURL string `json:"imageUrl" gorm:"size:512"`

	Status string `json:"status" gorm:"size:16;not null;default:pending;index"`

	// CommentCount tracks every node in the comment forest, replies at
	// any depth included.
	CommentCount int64 `json:"comments" gorm:"not null;default:0"`
	ViewCount    int64 `json:"views" gorm:"not null;default:0"`
	LikeCount    int64 `json:"likes" gorm:"not null;default:0"`

	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Translations []ArticleTranslation `json:"translations,omitempty" gorm:"foreignKey:ArticleID"`
}

// TableName sets the table name
func (Article) TableName() string {
	return "articles"
}

// IsApproved reports whether the article is publicly visible.
func (a *Article) IsApproved() bool {
	return a.Status == ArticleStatusApproved
}

// ArticleTranslation is a localized rendering of an article.
type ArticleTranslation struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ArticleID int64     `json:"articleId" gorm:"not null;uniqueIndex:idx_article_lang"`
	Language  string    `json:"language" gorm:"size:8;not null;uniqueIndex:idx_article_lang"`
	Title     string    `json:"title" gorm:"size:512;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name
func (ArticleTranslation) TableName() string {
	return "article_translations"
}

// Bookmark is a user's saved article.
type Bookmark struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"userId" gorm:"not null;uniqueIndex:idx_user_article"`
	ArticleID int64     `json:"articleId" gorm:"not null;uniqueIndex:idx_user_article;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name
func (Bookmark) TableName() string {
	return "bookmarks"
}

// ArticleStatusChange records the outcome of a moderation decision.
type ArticleStatusChange struct {
	ArticleID int64  `json:"articleId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	// AuthorDelta is the change applied to the reporter's approved
	// article count, -1, 0 or +1.
	AuthorDelta int `json:"authorDelta"`
}

// ValidStatus reports whether s is an accepted moderation status.
func ValidStatus(s string) bool {
	switch s {
	case ArticleStatusPending, ArticleStatusApproved, ArticleStatusRejected:
		return true
	}
	return false
}

// StatusDelta computes the reporter counter adjustment for a
// moderation transition. Only crossing the approved boundary moves
// the counter.
func StatusDelta(oldStatus, newStatus string) int {
	wasApproved := oldStatus == ArticleStatusApproved
	isApproved := newStatus == ArticleStatusApproved
	switch {
	case !wasApproved && isApproved:
		return 1
	case wasApproved && !isApproved:
		return -1
	default:
		return 0
	}
}
