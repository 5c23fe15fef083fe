package notify

import (
	"strconv"
	"unicode/utf8"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
)

// PushNotification is one rendered push message fanned out to a batch
// of device tokens.
type PushNotification struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Icon   string   `json:"icon,omitempty"`
	Link   string   `json:"link,omitempty"`
	Tokens []string `json:"tokens"`
}

// Dispatcher delivers push notifications. Delivery is best effort and
// never blocks the calling flow.
type Dispatcher interface {
	DispatchPush(notification *PushNotification) error
}

// BuildArticleNotification renders the push payload announcing an
// approved article. The body prefers the summary and falls back to a
// content preview.
func BuildArticleNotification(article *model.Article, frontendURL, icon string, tokens []string) *PushNotification {
	body := article.Summary
	if body == "" {
		body = previewOf(article.Content, model.SummaryPreviewLength)
	}

	return &PushNotification{
		Title:  article.Title,
		Body:   body,
		Icon:   icon,
		Link:   frontendURL + "/news/" + strconv.FormatInt(article.ID, 10),
		Tokens: tokens,
	}
}

func previewOf(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + "..."
}
