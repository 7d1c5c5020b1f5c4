package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/config"
)

func TestBackoffSequence(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 60 * time.Second},
		{2, 120 * time.Second},
		{3, 240 * time.Second},
		{4, 480 * time.Second},
		{5, 960 * time.Second},
		{6, 1920 * time.Second},
		{7, time.Hour},
		{8, time.Hour},
		{20, time.Hour},
	}

	for _, tt := range tests {
		if got := Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffInvalidAttempt(t *testing.T) {
	if got := Backoff(0); got != 60*time.Second {
		t.Errorf("Backoff(0) = %s, want 60s", got)
	}
	if got := Backoff(-3); got != 60*time.Second {
		t.Errorf("Backoff(-3) = %s, want 60s", got)
	}
}

type fakeSender struct {
	channel model.NotificationChannel
	err     error
	sent    []*model.Notification
}

func (s *fakeSender) Channel() model.NotificationChannel { return s.channel }

func (s *fakeSender) Send(n *model.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

type fakeAttemptStore struct {
	due     []model.NotificationDeliveryAttempt
	updated []model.NotificationDeliveryAttempt
}

func (s *fakeAttemptStore) DuePending(now time.Time, limit int) ([]model.NotificationDeliveryAttempt, error) {
	return s.due, nil
}

func (s *fakeAttemptStore) UpdateState(a *model.NotificationDeliveryAttempt) error {
	s.updated = append(s.updated, *a)
	return nil
}

func (s *fakeAttemptStore) CountPending() (int64, error) {
	return int64(len(s.due)), nil
}

type fakeNotificationStore struct {
	notifications map[string]*model.Notification
	stamped       []string
}

func (s *fakeNotificationStore) FindByID(id string) (*model.Notification, error) {
	return s.notifications[id], nil
}

func (s *fakeNotificationStore) StampDeliveredAt(id string, t time.Time) error {
	s.stamped = append(s.stamped, id)
	return nil
}

type workerFixture struct {
	worker   *DeliveryWorker
	attempts *fakeAttemptStore
	store    *fakeNotificationStore
	sender   *fakeSender
	now      time.Time
}

func newWorkerFixture(sendErr error) *workerFixture {
	attempts := &fakeAttemptStore{}
	store := &fakeNotificationStore{notifications: map[string]*model.Notification{
		"n-1": {ID: "n-1", UserID: "user-1", Title: "请假申请已批准"},
	}}
	sender := &fakeSender{channel: model.ChannelEmail, err: sendErr}

	w := NewDeliveryWorker(&config.NotificationConfig{WorkerInterval: 1, WorkerBatchSize: 10}, attempts, store, sender)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }
	return &workerFixture{worker: w, attempts: attempts, store: store, sender: sender, now: now}
}

func TestProcessAttemptSuccess(t *testing.T) {
	fx := newWorkerFixture(nil)
	attempt := &model.NotificationDeliveryAttempt{
		ID:             1,
		NotificationID: "n-1",
		Channel:        model.ChannelEmail,
		Status:         model.DeliveryStatusPending,
		Attempt:        0,
	}

	fx.worker.processAttempt(attempt)

	require.Len(t, fx.attempts.updated, 1)
	saved := fx.attempts.updated[0]
	assert.Equal(t, model.DeliveryStatusSent, saved.Status)
	assert.Equal(t, 1, saved.Attempt)
	assert.Empty(t, saved.ErrorMessage)

	// 送达后回写通知的 deliveredAt
	assert.Equal(t, []string{"n-1"}, fx.store.stamped)
	require.Len(t, fx.sender.sent, 1)
	assert.Equal(t, "n-1", fx.sender.sent[0].ID)
}

func TestProcessAttemptFailureReschedulesWithBackoff(t *testing.T) {
	fx := newWorkerFixture(errors.New("gateway timeout"))
	attempt := &model.NotificationDeliveryAttempt{
		ID:             1,
		NotificationID: "n-1",
		Channel:        model.ChannelEmail,
		Status:         model.DeliveryStatusPending,
		Attempt:        2,
	}

	fx.worker.processAttempt(attempt)

	require.Len(t, fx.attempts.updated, 1)
	saved := fx.attempts.updated[0]
	assert.Equal(t, model.DeliveryStatusPending, saved.Status, "failed attempt stays pending until retries exhaust")
	assert.Equal(t, 3, saved.Attempt)
	assert.Contains(t, saved.ErrorMessage, "gateway timeout")
	assert.Equal(t, fx.now.Add(Backoff(3)), saved.NextAttemptAt)
	assert.Empty(t, fx.store.stamped)
}

func TestProcessAttemptExhaustsAfterMaxRetries(t *testing.T) {
	fx := newWorkerFixture(nil)
	attempt := &model.NotificationDeliveryAttempt{
		ID:             1,
		NotificationID: "n-1",
		Channel:        model.ChannelEmail,
		Status:         model.DeliveryStatusPending,
		Attempt:        model.MaxDeliveryAttempts,
	}

	fx.worker.processAttempt(attempt)

	require.Len(t, fx.attempts.updated, 1)
	saved := fx.attempts.updated[0]
	assert.Equal(t, model.DeliveryStatusFailed, saved.Status)
	assert.Equal(t, "max retries exceeded", saved.ErrorMessage)

	// 超限后不再尝试投递
	assert.Empty(t, fx.sender.sent)
	assert.Empty(t, fx.store.stamped)
}

func TestProcessAttemptUnknownChannelFails(t *testing.T) {
	fx := newWorkerFixture(nil)
	attempt := &model.NotificationDeliveryAttempt{
		ID:             1,
		NotificationID: "n-1",
		Channel:        model.ChannelSMS,
		Status:         model.DeliveryStatusPending,
		Attempt:        0,
	}

	fx.worker.processAttempt(attempt)

	require.Len(t, fx.attempts.updated, 1)
	saved := fx.attempts.updated[0]
	assert.Equal(t, model.DeliveryStatusPending, saved.Status)
	assert.Contains(t, saved.ErrorMessage, "no sender registered")
}

func TestTickProcessesDueBatch(t *testing.T) {
	fx := newWorkerFixture(nil)
	fx.attempts.due = []model.NotificationDeliveryAttempt{
		{ID: 1, NotificationID: "n-1", Channel: model.ChannelEmail, Status: model.DeliveryStatusPending, Attempt: 0},
	}

	// Redis 未启用时 tick 租约降级为单机直通
	fx.worker.tick()

	require.Len(t, fx.attempts.updated, 1)
	assert.Equal(t, model.DeliveryStatusSent, fx.attempts.updated[0].Status)
}
