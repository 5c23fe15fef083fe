package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

const fcmSendEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMSender delivers push batches to Firebase Cloud Messaging over
// its legacy HTTP API. The server key comes from FCM_SERVER_KEY.
type FCMSender struct {
	client    *http.Client
	endpoint  string
	serverKey string
	logger    logger.Logger
}

// NewFCMSender creates the FCM sender.
func NewFCMSender(log logger.Logger) *FCMSender {
	return &FCMSender{
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  fcmSendEndpoint,
		serverKey: os.Getenv("FCM_SERVER_KEY"),
		logger:    log,
	}
}

type fcmPayload struct {
	RegistrationIDs []string        `json:"registration_ids"`
	Notification    fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Icon        string `json:"icon,omitempty"`
	ClickAction string `json:"click_action,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// SendBatch delivers one notification batch. Token-level failures are
// reported by FCM in the response body, not as transport errors.
func (s *FCMSender) SendBatch(ctx context.Context, n *PushNotification) error {
	if s.serverKey == "" {
		return fmt.Errorf("FCM_SERVER_KEY is not set")
	}
	if len(n.Tokens) == 0 {
		return nil
	}

	payload := fcmPayload{
		RegistrationIDs: n.Tokens,
		Notification: fcmNotification{
			Title:       n.Title,
			Body:        n.Body,
			Icon:        n.Icon,
			ClickAction: n.Link,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal fcm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send fcm batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm responded with status %d", resp.StatusCode)
	}

	var result fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode fcm response: %w", err)
	}

	s.logger.Info(ctx, "Push batch delivered",
		logger.F("tokens", len(n.Tokens)),
		logger.F("success", result.Success),
		logger.F("failure", result.Failure))
	return nil
}
