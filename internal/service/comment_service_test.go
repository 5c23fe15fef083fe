package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

type mockCommentDAO struct {
	createCommentFn func(ctx context.Context, comment *model.Comment) error
	getCommentFn    func(ctx context.Context, commentID int64) (*model.Comment, error)
	listByArticleFn func(ctx context.Context, articleID int64) ([]*model.Comment, error)
	deleteCommentFn func(ctx context.Context, commentID int64) (int64, error)
	toggleLikeFn    func(ctx context.Context, commentID, userID int64) (bool, int64, error)
	getLikedSetFn   func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
}

func (m *mockCommentDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	if m.createCommentFn != nil {
		return m.createCommentFn(ctx, comment)
	}
	return nil
}
func (m *mockCommentDAO) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getCommentFn != nil {
		return m.getCommentFn(ctx, commentID)
	}
	return nil, model.NotFound("comment %d not found", commentID)
}
func (m *mockCommentDAO) ListByArticle(ctx context.Context, articleID int64) ([]*model.Comment, error) {
	if m.listByArticleFn != nil {
		return m.listByArticleFn(ctx, articleID)
	}
	return nil, nil
}
func (m *mockCommentDAO) DeleteComment(ctx context.Context, commentID int64) (int64, error) {
	if m.deleteCommentFn != nil {
		return m.deleteCommentFn(ctx, commentID)
	}
	return 0, nil
}
func (m *mockCommentDAO) ToggleLike(ctx context.Context, commentID, userID int64) (bool, int64, error) {
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, commentID, userID)
	}
	return false, 0, nil
}
func (m *mockCommentDAO) GetLikedSet(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	if m.getLikedSetFn != nil {
		return m.getLikedSetFn(ctx, userID, commentIDs)
	}
	return map[int64]bool{}, nil
}
type mockUserDAO struct {
	getUserFn                func(ctx context.Context, userID int64) (*model.User, error)
	getUsersByIDsFn          func(ctx context.Context, userIDs []int64) (map[int64]*model.User, error)
	listPushTargetsFn        func(ctx context.Context) ([]*model.User, error)
	createReporterRequestFn  func(ctx context.Context, req *model.ReporterRequest) error
	resolveReporterRequestFn func(ctx context.Context, requestID int64, approve bool) (*model.ReporterRequest, error)
}

func (m *mockUserDAO) CreateUser(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserDAO) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return nil, model.NotFound("user %d not found", userID)
}
func (m *mockUserDAO) GetUserByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	return nil, model.NotFound("user not found")
}
func (m *mockUserDAO) GetUsersByIDs(ctx context.Context, userIDs []int64) (map[int64]*model.User, error) {
	if m.getUsersByIDsFn != nil {
		return m.getUsersByIDsFn(ctx, userIDs)
	}
	return map[int64]*model.User{}, nil
}
func (m *mockUserDAO) UpdateProfile(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserDAO) UpdatePushSettings(ctx context.Context, userID int64, enabled bool, fcmToken string) error {
	return nil
}
func (m *mockUserDAO) ListPushTargets(ctx context.Context) ([]*model.User, error) {
	if m.listPushTargetsFn != nil {
		return m.listPushTargetsFn(ctx)
	}
	return nil, nil
}
func (m *mockUserDAO) CreateReporterRequest(ctx context.Context, req *model.ReporterRequest) error {
	if m.createReporterRequestFn != nil {
		return m.createReporterRequestFn(ctx, req)
	}
	return nil
}
func (m *mockUserDAO) ListReporterRequests(ctx context.Context, status string) ([]*model.ReporterRequest, error) {
	return nil, nil
}
func (m *mockUserDAO) ResolveReporterRequest(ctx context.Context, requestID int64, approve bool) (*model.ReporterRequest, error) {
	if m.resolveReporterRequestFn != nil {
		return m.resolveReporterRequestFn(ctx, requestID, approve)
	}
	return nil, model.NotFound("reporter request %d not found", requestID)
}

func newTestCommentService(commentDAO *mockCommentDAO, userDAO *mockUserDAO) *CommentService {
	return NewCommentService(commentDAO, userDAO, nil, nil, logger.GetLogger())
}

func TestCreateCommentSnapshotsAuthor(t *testing.T) {
	var created *model.Comment
	commentDAO := &mockCommentDAO{
		createCommentFn: func(ctx context.Context, comment *model.Comment) error {
			comment.ID = 42
			created = comment
			return nil
		},
	}
	userDAO := &mockUserDAO{
		getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return &model.User{ID: userID, Username: "ravi", Name: "Ravi K", Avatar: "ravi.png"}, nil
		},
	}
	svc := newTestCommentService(commentDAO, userDAO)

	comment, err := svc.CreateComment(context.Background(), &CreateCommentParams{
		ArticleID: 10,
		AuthorID:  7,
		Content:   "  good reporting  ",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if comment.ID != 42 {
		t.Errorf("comment id = %d, want 42", comment.ID)
	}
	if created.AuthorName != "Ravi K" || created.AuthorAvatar != "ravi.png" {
		t.Errorf("author snapshot not taken: %q, %q", created.AuthorName, created.AuthorAvatar)
	}
	if created.Content != "good reporting" {
		t.Errorf("content not trimmed: %q", created.Content)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	svc := newTestCommentService(&mockCommentDAO{}, &mockUserDAO{})

	tests := []struct {
		name   string
		params CreateCommentParams
	}{
		{"missing article", CreateCommentParams{AuthorID: 1, Content: "hi"}},
		{"missing author", CreateCommentParams{ArticleID: 1, Content: "hi"}},
		{"empty content", CreateCommentParams{ArticleID: 1, AuthorID: 1, Content: "   "}},
		{"oversized content", CreateCommentParams{
			ArticleID: 1, AuthorID: 1,
			Content: strings.Repeat("x", model.MaxCommentLength+1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(context.Background(), &tt.params)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected invalid-input error, got %v", err)
			}
		})
	}
}

func TestCreateCommentUnknownAuthor(t *testing.T) {
	svc := newTestCommentService(&mockCommentDAO{}, &mockUserDAO{})

	_, err := svc.CreateComment(context.Background(), &CreateCommentParams{
		ArticleID: 1, AuthorID: 99, Content: "hi",
	})
	if !model.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestToggleLikePassesThroughState(t *testing.T) {
	liked := false
	var count int64
	commentDAO := &mockCommentDAO{
		toggleLikeFn: func(ctx context.Context, commentID, userID int64) (bool, int64, error) {
			liked = !liked
			if liked {
				count++
			} else {
				count--
			}
			return liked, count, nil
		},
		getCommentFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, ArticleID: 10}, nil
		},
	}
	svc := newTestCommentService(commentDAO, &mockUserDAO{})

	// Repeated toggles by the same user alternate between one like
	// and none.
	for i := 0; i < 4; i++ {
		gotLiked, gotCount, err := svc.ToggleLike(context.Background(), 5, 7)
		if err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
		wantLiked := i%2 == 0
		var wantCount int64
		if wantLiked {
			wantCount = 1
		}
		if gotLiked != wantLiked || gotCount != wantCount {
			t.Errorf("toggle %d: got (%v, %d), want (%v, %d)", i, gotLiked, gotCount, wantLiked, wantCount)
		}
	}
}

func TestToggleLikeValidation(t *testing.T) {
	svc := newTestCommentService(&mockCommentDAO{}, &mockUserDAO{})

	if _, _, err := svc.ToggleLike(context.Background(), 0, 7); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid-input for missing comment id, got %v", err)
	}
	if _, _, err := svc.ToggleLike(context.Background(), 5, 0); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid-input for missing user id, got %v", err)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	commentDAO := &mockCommentDAO{
		getCommentFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, ArticleID: 10, AuthorID: 7}, nil
		},
		deleteCommentFn: func(ctx context.Context, commentID int64) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestCommentService(commentDAO, &mockUserDAO{})

	// A stranger cannot delete.
	if _, err := svc.DeleteComment(context.Background(), 5, 8, false); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected rejection for non-author, got %v", err)
	}

	// The author can, and the whole subtree goes with it.
	removed, err := svc.DeleteComment(context.Background(), 5, 7, false)
	if err != nil {
		t.Fatalf("DeleteComment as author: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	// So can an admin who is not the author.
	if _, err := svc.DeleteComment(context.Background(), 5, 8, true); err != nil {
		t.Errorf("DeleteComment as admin: %v", err)
	}
}

func TestGetArticleCommentsBuildsForest(t *testing.T) {
	now := time.Now()
	commentDAO := &mockCommentDAO{
		listByArticleFn: func(ctx context.Context, articleID int64) ([]*model.Comment, error) {
			return []*model.Comment{
				{ID: 1, ArticleID: articleID, AuthorID: 7, AuthorName: "Old Name", CreatedAt: now},
				{ID: 2, ArticleID: articleID, ParentID: 1, RootID: 1, AuthorID: 8, AuthorName: "Gone User", CreatedAt: now},
			}, nil
		},
		getLikedSetFn: func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{2: true}, nil
		},
	}
	userDAO := &mockUserDAO{
		getUsersByIDsFn: func(ctx context.Context, userIDs []int64) (map[int64]*model.User, error) {
			// Author 8 deleted their account; only 7 is live.
			return map[int64]*model.User{
				7: {ID: 7, Username: "ravi", Name: "Ravi K"},
			}, nil
		},
	}
	svc := newTestCommentService(commentDAO, userDAO)

	forest, err := svc.GetArticleComments(context.Background(), 10, 9)
	if err != nil {
		t.Fatalf("GetArticleComments: %v", err)
	}

	if len(forest) != 1 || len(forest[0].Replies) != 1 {
		t.Fatalf("unexpected forest shape: %d roots", len(forest))
	}
	if forest[0].AuthorName != "Ravi K" {
		t.Errorf("live author not refreshed: %q", forest[0].AuthorName)
	}
	if forest[0].Replies[0].AuthorName != "Gone User" {
		t.Errorf("deleted author should keep snapshot: %q", forest[0].Replies[0].AuthorName)
	}
	if forest[0].IsLiked || !forest[0].Replies[0].IsLiked {
		t.Errorf("viewer like marks wrong: root=%v reply=%v", forest[0].IsLiked, forest[0].Replies[0].IsLiked)
	}
}

func TestGetArticleCommentsAnonymousSkipsLikes(t *testing.T) {
	likedSetCalled := false
	commentDAO := &mockCommentDAO{
		listByArticleFn: func(ctx context.Context, articleID int64) ([]*model.Comment, error) {
			return []*model.Comment{{ID: 1, ArticleID: articleID, AuthorID: 7, AuthorName: "Ravi"}}, nil
		},
		getLikedSetFn: func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
			likedSetCalled = true
			return nil, nil
		},
	}
	svc := newTestCommentService(commentDAO, &mockUserDAO{})

	forest, err := svc.GetArticleComments(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("GetArticleComments: %v", err)
	}
	if likedSetCalled {
		t.Error("anonymous reader should not trigger a liked-set lookup")
	}
	if forest[0].IsLiked {
		t.Error("anonymous reader should see no like marks")
	}
}
