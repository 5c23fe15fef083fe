package model

// Article moderation status
const (
	ArticleStatusPending  = "pending"
	ArticleStatusApproved = "approved"
	ArticleStatusRejected = "rejected"
)

// User roles
const (
	RoleUser     = "user"
	RoleReporter = "reporter"
	RoleAdmin    = "admin"
)

// Reporter request states
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Author snapshot fallbacks used when the account no longer resolves
const (
	UnknownUserName    = "Unknown User"
	UnknownUserAvatar  = ""
	UnknownUserInitial = "U"
)

// Kafka event topics
const (
	TopicArticleEvents = "article_events"
	TopicCommentEvents = "comment_events"
	TopicPushJobs      = "push_notifications"
)

// Event types
const (
	EventArticleApproved = "article.approved"
	EventArticleRejected = "article.rejected"
	EventCommentCreated  = "comment.created"
	EventCommentDeleted  = "comment.deleted"
)

// Comment tree limits
const (
	// MaxCommentDepth bounds tree reconstruction against reply cycles
	// caused by corrupted parent links.
	MaxCommentDepth = 64

	// MaxCommentLength bounds a single comment body.
	MaxCommentLength = 2000

	// SummaryPreviewLength is the notification body length cut from
	// article content when no summary exists.
	SummaryPreviewLength = 100
)
