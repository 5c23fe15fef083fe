package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/notify"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

type mockArticleDAO struct {
	getArticleFn   func(ctx context.Context, articleID int64) (*model.Article, error)
	updateStatusFn func(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error)
}

func (m *mockArticleDAO) CreateArticle(ctx context.Context, article *model.Article) error {
	return nil
}
func (m *mockArticleDAO) GetArticle(ctx context.Context, articleID int64) (*model.Article, error) {
	if m.getArticleFn != nil {
		return m.getArticleFn(ctx, articleID)
	}
	return nil, model.NotFound("article %d not found", articleID)
}
func (m *mockArticleDAO) ListArticles(ctx context.Context, params *dao.ListArticlesParams) ([]*model.Article, int64, error) {
	return nil, 0, nil
}
func (m *mockArticleDAO) UpdateArticle(ctx context.Context, article *model.Article) error {
	return nil
}
func (m *mockArticleDAO) DeleteArticle(ctx context.Context, articleID int64) error { return nil }
func (m *mockArticleDAO) UpdateStatus(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, articleID, newStatus)
	}
	return nil, model.NotFound("article %d not found", articleID)
}
func (m *mockArticleDAO) IncrementViewCount(ctx context.Context, articleID int64) error { return nil }
func (m *mockArticleDAO) ToggleBookmark(ctx context.Context, userID, articleID int64) (bool, error) {
	return false, nil
}
func (m *mockArticleDAO) ListBookmarked(ctx context.Context, userID int64, page, pageSize int) ([]*model.Article, int64, error) {
	return nil, 0, nil
}
func (m *mockArticleDAO) UpsertTranslation(ctx context.Context, tr *model.ArticleTranslation) error {
	return nil
}
func (m *mockArticleDAO) GetTranslation(ctx context.Context, articleID int64, language string) (*model.ArticleTranslation, error) {
	return nil, model.NotFound("translation not found")
}

type mockSearchDAO struct {
	indexed chan int64
	removed chan int64
}

func (m *mockSearchDAO) IndexArticle(ctx context.Context, article *model.Article) error {
	if m.indexed != nil {
		m.indexed <- article.ID
	}
	return nil
}
func (m *mockSearchDAO) RemoveArticle(ctx context.Context, articleID int64) error {
	if m.removed != nil {
		m.removed <- articleID
	}
	return nil
}
func (m *mockSearchDAO) SearchArticles(ctx context.Context, query string, region, language string, from, size int) ([]int64, int64, error) {
	return nil, 0, nil
}

type mockDispatcher struct {
	dispatched chan *notify.PushNotification
}

func (m *mockDispatcher) DispatchPush(n *notify.PushNotification) error {
	m.dispatched <- n
	return nil
}

func approvedChange(articleID int64, oldStatus, newStatus string) *model.ArticleStatusChange {
	return &model.ArticleStatusChange{
		ArticleID:   articleID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		AuthorDelta: model.StatusDelta(oldStatus, newStatus),
	}
}

func TestSetArticleStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewModerationService(&mockArticleDAO{}, &mockUserDAO{}, nil, nil, nil, nil, "", "", logger.GetLogger())

	_, err := svc.SetArticleStatus(context.Background(), 10, "published")
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid-input error, got %v", err)
	}
}

func TestSetArticleStatusApprovalFansOut(t *testing.T) {
	article := &model.Article{ID: 10, AuthorID: 7, Title: "Flood alert", Summary: "River rising", Status: model.ArticleStatusApproved}

	articleDAO := &mockArticleDAO{
		updateStatusFn: func(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error) {
			return approvedChange(articleID, model.ArticleStatusPending, newStatus), nil
		},
		getArticleFn: func(ctx context.Context, articleID int64) (*model.Article, error) {
			return article, nil
		},
	}
	userDAO := &mockUserDAO{
		listPushTargetsFn: func(ctx context.Context) ([]*model.User, error) {
			// The reporter opted in too and gets the notification like
			// everyone else.
			return []*model.User{
				{ID: 7, FCMToken: "tok-7"},
				{ID: 8, FCMToken: "tok-8"},
				{ID: 9, FCMToken: "tok-9"},
			}, nil
		},
	}
	searchDAO := &mockSearchDAO{indexed: make(chan int64, 1)}
	dispatcher := &mockDispatcher{dispatched: make(chan *notify.PushNotification, 1)}

	svc := NewModerationService(articleDAO, userDAO, searchDAO, nil, nil,
		dispatcher, "https://newshub.example", "/icon.png", logger.GetLogger())

	got, err := svc.SetArticleStatus(context.Background(), 10, model.ArticleStatusApproved)
	if err != nil {
		t.Fatalf("SetArticleStatus: %v", err)
	}
	if got.ID != 10 {
		t.Errorf("returned article id = %d, want 10", got.ID)
	}

	select {
	case n := <-dispatcher.dispatched:
		if len(n.Tokens) != 3 {
			t.Errorf("expected 3 push tokens, got %d", len(n.Tokens))
		}
		authorIncluded := false
		for _, token := range n.Tokens {
			if token == "tok-7" {
				authorIncluded = true
			}
		}
		if !authorIncluded {
			t.Error("the reporter's own device should be among the targets")
		}
		if n.Title != "Flood alert" || n.Body != "River rising" {
			t.Errorf("notification content wrong: %q / %q", n.Title, n.Body)
		}
		if n.Link != "https://newshub.example/news/10" {
			t.Errorf("notification link wrong: %q", n.Link)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push notification was never dispatched")
	}

	select {
	case id := <-searchDAO.indexed:
		if id != 10 {
			t.Errorf("indexed article id = %d, want 10", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("approved article was never indexed")
	}
}

func TestSetArticleStatusRejectionSkipsFanOut(t *testing.T) {
	article := &model.Article{ID: 11, AuthorID: 7, Status: model.ArticleStatusRejected}

	articleDAO := &mockArticleDAO{
		updateStatusFn: func(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error) {
			return approvedChange(articleID, model.ArticleStatusPending, newStatus), nil
		},
		getArticleFn: func(ctx context.Context, articleID int64) (*model.Article, error) {
			return article, nil
		},
	}
	pushTargetsCalled := make(chan struct{}, 1)
	userDAO := &mockUserDAO{
		listPushTargetsFn: func(ctx context.Context) ([]*model.User, error) {
			pushTargetsCalled <- struct{}{}
			return nil, nil
		},
	}
	dispatcher := &mockDispatcher{dispatched: make(chan *notify.PushNotification, 1)}

	svc := NewModerationService(articleDAO, userDAO, nil, nil, nil,
		dispatcher, "", "", logger.GetLogger())

	if _, err := svc.SetArticleStatus(context.Background(), 11, model.ArticleStatusRejected); err != nil {
		t.Fatalf("SetArticleStatus: %v", err)
	}

	select {
	case <-pushTargetsCalled:
		t.Error("rejection must not trigger push fan-out")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSetArticleStatusUnapprovalRemovesFromIndex(t *testing.T) {
	article := &model.Article{ID: 12, AuthorID: 7, Status: model.ArticleStatusRejected}

	articleDAO := &mockArticleDAO{
		updateStatusFn: func(ctx context.Context, articleID int64, newStatus string) (*model.ArticleStatusChange, error) {
			return approvedChange(articleID, model.ArticleStatusApproved, newStatus), nil
		},
		getArticleFn: func(ctx context.Context, articleID int64) (*model.Article, error) {
			return article, nil
		},
	}
	searchDAO := &mockSearchDAO{removed: make(chan int64, 1)}

	svc := NewModerationService(articleDAO, &mockUserDAO{}, searchDAO, nil, nil,
		nil, "", "", logger.GetLogger())

	if _, err := svc.SetArticleStatus(context.Background(), 12, model.ArticleStatusRejected); err != nil {
		t.Fatalf("SetArticleStatus: %v", err)
	}

	select {
	case id := <-searchDAO.removed:
		if id != 12 {
			t.Errorf("removed article id = %d, want 12", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("unapproved article was never removed from the index")
	}
}
