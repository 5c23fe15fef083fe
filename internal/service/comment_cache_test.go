package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/redis"
)

func newTestRedis(t *testing.T) *redis.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewRedisClient(mr.Addr(), "", 0)
}

// A cached article must never hide a comment counter that already
// moved: reading the article right after a successful comment write
// has to show the true tree size.
func TestCommentWriteRefreshesCachedArticle(t *testing.T) {
	redisClient := newTestRedis(t)

	var commentCount int64
	articleDAO := &mockArticleDAO{
		getArticleFn: func(ctx context.Context, articleID int64) (*model.Article, error) {
			return &model.Article{
				ID:           articleID,
				Status:       model.ArticleStatusApproved,
				CommentCount: commentCount,
			}, nil
		},
	}
	commentDAO := &mockCommentDAO{
		createCommentFn: func(ctx context.Context, comment *model.Comment) error {
			comment.ID = 1
			commentCount++
			return nil
		},
		getCommentFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, ArticleID: 10, AuthorID: 7}, nil
		},
		deleteCommentFn: func(ctx context.Context, commentID int64) (int64, error) {
			commentCount--
			return 1, nil
		},
	}
	userDAO := &mockUserDAO{
		getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return &model.User{ID: userID, Username: "ravi"}, nil
		},
	}

	articleSvc := NewArticleService(articleDAO, userDAO, nil, nil, redisClient, logger.GetLogger())
	commentSvc := NewCommentService(commentDAO, userDAO, redisClient, nil, logger.GetLogger())

	ctx := context.Background()

	// Warm the article cache with a zero counter.
	article, err := articleSvc.GetArticle(ctx, 10, 0, false)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if article.CommentCount != 0 {
		t.Fatalf("initial comment count = %d, want 0", article.CommentCount)
	}

	if _, err := commentSvc.CreateComment(ctx, &CreateCommentParams{
		ArticleID: 10, AuthorID: 7, Content: "first",
	}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	article, err = articleSvc.GetArticle(ctx, 10, 0, false)
	if err != nil {
		t.Fatalf("GetArticle after comment write: %v", err)
	}
	if article.CommentCount != 1 {
		t.Errorf("comment count after write = %d, want 1", article.CommentCount)
	}

	// The delete path invalidates the same way.
	if _, err := commentSvc.DeleteComment(ctx, 1, 7, false); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	article, err = articleSvc.GetArticle(ctx, 10, 0, false)
	if err != nil {
		t.Fatalf("GetArticle after delete: %v", err)
	}
	if article.CommentCount != 0 {
		t.Errorf("comment count after delete = %d, want 0", article.CommentCount)
	}
}

func TestGetArticleCommentsReadThrough(t *testing.T) {
	redisClient := newTestRedis(t)

	dbCalls := 0
	commentDAO := &mockCommentDAO{
		listByArticleFn: func(ctx context.Context, articleID int64) ([]*model.Comment, error) {
			dbCalls++
			return []*model.Comment{
				{ID: 1, ArticleID: articleID, AuthorID: 7, AuthorName: "Ravi"},
				{ID: 2, ArticleID: articleID, ParentID: 1, RootID: 1, AuthorID: 8, AuthorName: "Asha"},
			}, nil
		},
		getLikedSetFn: func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{2: true}, nil
		},
	}
	userDAO := &mockUserDAO{
		getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return &model.User{ID: userID, Username: "ravi"}, nil
		},
	}
	svc := NewCommentService(commentDAO, userDAO, redisClient, nil, logger.GetLogger())

	ctx := context.Background()

	forest, err := svc.GetArticleComments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("GetArticleComments: %v", err)
	}
	if dbCalls != 1 {
		t.Fatalf("first listing should hit the database once, got %d calls", dbCalls)
	}
	if len(forest) != 1 || len(forest[0].Replies) != 1 {
		t.Fatalf("unexpected forest shape: %d roots", len(forest))
	}

	// Second read is served from the cache with the same shape.
	forest, err = svc.GetArticleComments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("GetArticleComments on cache hit: %v", err)
	}
	if dbCalls != 1 {
		t.Errorf("cached listing should not hit the database, got %d calls", dbCalls)
	}
	if len(forest) != 1 || len(forest[0].Replies) != 1 {
		t.Fatalf("cached forest shape wrong: %d roots", len(forest))
	}

	// Like marks stay per-viewer even on a cache hit.
	forest, err = svc.GetArticleComments(ctx, 10, 9)
	if err != nil {
		t.Fatalf("GetArticleComments for viewer: %v", err)
	}
	if dbCalls != 1 {
		t.Errorf("viewer listing should still come from the cache, got %d calls", dbCalls)
	}
	if forest[0].IsLiked || !forest[0].Replies[0].IsLiked {
		t.Errorf("viewer like marks wrong: root=%v reply=%v", forest[0].IsLiked, forest[0].Replies[0].IsLiked)
	}

	// A comment write drops the cached forest.
	if _, err := svc.CreateComment(ctx, &CreateCommentParams{
		ArticleID: 10, AuthorID: 7, Content: "newer",
	}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if _, err := svc.GetArticleComments(ctx, 10, 0); err != nil {
		t.Fatalf("GetArticleComments after write: %v", err)
	}
	if dbCalls != 2 {
		t.Errorf("listing after a comment write should requery, got %d calls", dbCalls)
	}
}
