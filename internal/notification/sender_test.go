package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/config"
)

func TestWebhookSenderSend(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := newWebhookSender(model.ChannelEmail, server.URL, 5)
	err := sender.Send(&model.Notification{
		ID:       "n-1",
		UserID:   "u-1",
		Title:    "申请已批准",
		Message:  "您的请假申请已批准",
		Category: "leave-application",
		Priority: model.PriorityHigh,
	})

	require.NoError(t, err)
	assert.Equal(t, "n-1", received["notificationId"])
	assert.Equal(t, "u-1", received["userId"])
	assert.Equal(t, "leave-application", received["category"])
	assert.Equal(t, "high", received["priority"])
}

func TestWebhookSenderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	sender := newWebhookSender(model.ChannelSMS, server.URL, 5)
	err := sender.Send(&model.Notification{ID: "n-2", UserID: "u-2"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestWebhookSenderMissingURL(t *testing.T) {
	sender := NewEmailSender(&config.NotificationConfig{SendTimeout: 5})
	err := sender.Send(&model.Notification{ID: "n-3"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
