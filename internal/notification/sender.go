package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/config"
)

// Sender 单个出站渠道的投递器
type Sender interface {
	Channel() model.NotificationChannel
	Send(n *model.Notification) error
}

// WebhookSender 通过 Webhook 投递的通道，邮件和短信网关都是一次 JSON POST
// 超时由配置限定，避免慢网关拖住整个投递批次
type WebhookSender struct {
	channel    model.NotificationChannel
	webhookURL string
	client     *http.Client
}

func NewEmailSender(cfg *config.NotificationConfig) *WebhookSender {
	return newWebhookSender(model.ChannelEmail, cfg.EmailWebhookURL, cfg.SendTimeout)
}

func NewSMSSender(cfg *config.NotificationConfig) *WebhookSender {
	return newWebhookSender(model.ChannelSMS, cfg.SMSWebhookURL, cfg.SendTimeout)
}

func newWebhookSender(channel model.NotificationChannel, webhookURL string, timeoutSeconds int) *WebhookSender {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	return &WebhookSender{
		channel:    channel,
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (s *WebhookSender) Channel() model.NotificationChannel {
	return s.channel
}

// Send 投递一条通知，未配置网关地址视为投递失败
func (s *WebhookSender) Send(n *model.Notification) error {
	if s.webhookURL == "" {
		return fmt.Errorf("%s webhook URL is not configured", s.channel)
	}

	payload := map[string]interface{}{
		"notificationId": n.ID,
		"userId":         n.UserID,
		"title":          n.Title,
		"message":        n.Message,
		"category":       n.Category,
		"priority":       n.Priority,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to send %s notification: %w", s.channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s gateway returned status %d: %s", s.channel, resp.StatusCode, string(body))
	}
	return nil
}
