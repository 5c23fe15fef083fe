package model

import "time"

// Comment is a node in an article's comment forest. ParentID is zero
// for top-level comments; RootID anchors every reply to its top-level
// ancestor so a whole subtree loads with one query.
type Comment struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	ArticleID int64 `json:"articleId" gorm:"not null;index:idx_article_root"`
	ParentID  int64 `json:"parentId" gorm:"not null;default:0;index"`
	RootID    int64 `json:"rootId" gorm:"not null;default:0;index:idx_article_root"`

	// Author snapshot taken at creation time. Display falls back to
	// these values when the account is later deleted.
	AuthorID     int64  `json:"authorId" gorm:"not null;index"`
	AuthorName   string `json:"authorName" gorm:"size:128;not null"`
	AuthorAvatar string `json:"authorAvatar" gorm:"size:512"`

	Content   string `json:"content" gorm:"type:text;not null"`
	LikeCount int64  `json:"likes" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name
func (Comment) TableName() string {
	return "comments"
}

// IsTopLevel reports whether the comment starts a thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == 0
}

// CommentLike is the strict one-row-per-user like marker.
type CommentLike struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CommentID int64     `json:"commentId" gorm:"not null;uniqueIndex:idx_comment_user"`
	UserID    int64     `json:"userId" gorm:"not null;uniqueIndex:idx_comment_user"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name
func (CommentLike) TableName() string {
	return "comment_likes"
}

// CommentNode is a comment with its reply subtree resolved.
type CommentNode struct {
	*Comment
	IsLiked bool           `json:"isLiked"`
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentForest arranges flat rows into trees ordered by creation
// time. Rows whose parent is missing or nested beyond MaxCommentDepth
// are dropped rather than breaking the whole listing.
func BuildCommentForest(rows []*Comment) []*CommentNode {
	nodes := make(map[int64]*CommentNode, len(rows))
	for _, row := range rows {
		nodes[row.ID] = &CommentNode{Comment: row, Replies: make([]*CommentNode, 0)}
	}

	roots := make([]*CommentNode, 0)
	for _, row := range rows {
		node := nodes[row.ID]
		if row.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[row.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}

	pruneDeepReplies(roots, 1)
	return roots
}

func pruneDeepReplies(nodes []*CommentNode, depth int) {
	for _, node := range nodes {
		if depth >= MaxCommentDepth {
			node.Replies = node.Replies[:0]
			continue
		}
		pruneDeepReplies(node.Replies, depth+1)
	}
}

// CountNodes returns the total number of comments in the forest.
func CountNodes(nodes []*CommentNode) int64 {
	var total int64
	for _, node := range nodes {
		total += 1 + CountNodes(node.Replies)
	}
	return total
}

// SubtreeIDs collects the ids of every comment whose removal follows
// from deleting the rows in the given set, walking parent links over
// the flat row list. The seed ids are included in the result.
func SubtreeIDs(rows []*Comment, seedIDs ...int64) []int64 {
	children := make(map[int64][]int64, len(rows))
	for _, row := range rows {
		if row.ParentID != 0 {
			children[row.ParentID] = append(children[row.ParentID], row.ID)
		}
	}

	ids := make([]int64, 0, len(seedIDs))
	queue := append([]int64(nil), seedIDs...)
	seen := make(map[int64]bool, len(rows))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		queue = append(queue, children[id]...)
	}
	return ids
}

// AuthorSnapshot is the display identity resolved for a comment.
type AuthorSnapshot struct {
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	Initial string `json:"initial"`
}

// ResolveAuthor prefers the live account and falls back to the
// snapshot stored on the comment, then to placeholders.
func ResolveAuthor(c *Comment, live *User) AuthorSnapshot {
	if live != nil {
		name := live.DisplayName()
		return AuthorSnapshot{
			Name:    name,
			Avatar:  live.Avatar,
			Initial: initialOf(name),
		}
	}
	if c.AuthorName != "" {
		return AuthorSnapshot{
			Name:    c.AuthorName,
			Avatar:  c.AuthorAvatar,
			Initial: initialOf(c.AuthorName),
		}
	}
	return AuthorSnapshot{
		Name:    UnknownUserName,
		Avatar:  UnknownUserAvatar,
		Initial: UnknownUserInitial,
	}
}

func initialOf(name string) string {
	for _, r := range name {
		return string(r)
	}
	return UnknownUserInitial
}
