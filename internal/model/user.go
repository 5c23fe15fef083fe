package model

import "time"

// User is a platform account, reporters and admins included.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:16;not null;default:user;index"`
	Name         string    `json:"name" gorm:"size:128"`
	Avatar       string    `json:"avatar" gorm:"size:512"`
	Region       string    `json:"region" gorm:"size:64;index"`
	Language     string    `json:"language" gorm:"size:8;default:en"`

	// ArticlesCount tracks approved articles and is maintained by the
	// moderation flow; CommentsCount by the comment flow.
	ArticlesCount  int64 `json:"articlesCount" gorm:"not null;default:0"`
	CommentsCount  int64 `json:"commentsCount" gorm:"not null;default:0"`
	BookmarksCount int64 `json:"bookmarksCount" gorm:"not null;default:0"`

	// Push notification state.
	PushEnabled bool   `json:"pushEnabled" gorm:"not null;default:true"`
	FCMToken    string `json:"-" gorm:"size:512"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}

// DisplayName returns the user-facing name with username fallback.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// CanPublish reports whether the account may submit articles.
func (u *User) CanPublish() bool {
	return u.Role == RoleReporter || u.Role == RoleAdmin
}

// ReporterRequest is a user's application to publish news. Each user
// keeps at most one row; a rejected request reopens on re-apply.
type ReporterRequest struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int64  `json:"userId" gorm:"not null;uniqueIndex"`
	Reason string `json:"reason" gorm:"size:512"`
	Status string `json:"status" gorm:"size:16;not null;default:pending;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name
func (ReporterRequest) TableName() string {
	return "reporter_requests"
}
