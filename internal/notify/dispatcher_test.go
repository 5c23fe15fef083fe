package notify

import (
	"strings"
	"testing"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
)

func TestBuildArticleNotificationPrefersSummary(t *testing.T) {
	article := &model.Article{
		ID:      42,
		Title:   "Bridge reopens",
		Summary: "Traffic resumes after repairs",
		Content: "A very long body that should not be used when a summary exists.",
	}

	n := BuildArticleNotification(article, "https://newshub.example", "/icon.png", []string{"tok-1"})

	if n.Title != "Bridge reopens" {
		t.Errorf("title = %q", n.Title)
	}
	if n.Body != "Traffic resumes after repairs" {
		t.Errorf("body should come from the summary, got %q", n.Body)
	}
	if n.Link != "https://newshub.example/news/42" {
		t.Errorf("link = %q", n.Link)
	}
	if n.Icon != "/icon.png" || len(n.Tokens) != 1 {
		t.Errorf("icon/tokens wrong: %+v", n)
	}
}

func TestBuildArticleNotificationFallsBackToPreview(t *testing.T) {
	long := strings.Repeat("న", model.SummaryPreviewLength+50)
	article := &model.Article{ID: 1, Title: "t", Content: long}

	n := BuildArticleNotification(article, "", "", nil)

	runes := []rune(n.Body)
	if len(runes) != model.SummaryPreviewLength+3 {
		t.Errorf("preview length = %d runes, want %d plus ellipsis", len(runes), model.SummaryPreviewLength)
	}
	if !strings.HasSuffix(n.Body, "...") {
		t.Errorf("preview should end with ellipsis: %q", n.Body)
	}

	short := &model.Article{ID: 2, Title: "t", Content: "brief"}
	if got := BuildArticleNotification(short, "", "", nil); got.Body != "brief" {
		t.Errorf("short content should pass through, got %q", got.Body)
	}
}
