package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisker/zhr-backend/internal/model"
)

type fakeNotificationStore struct {
	created  []*model.Notification
	attempts [][]model.NotificationDeliveryAttempt
}

func (s *fakeNotificationStore) CreateWithAttempts(n *model.Notification, attempts []model.NotificationDeliveryAttempt) error {
	s.created = append(s.created, n)
	s.attempts = append(s.attempts, attempts)
	return nil
}

func (s *fakeNotificationStore) MarkRelatedAsRead(userID, entityType, entityID string) error {
	return nil
}

type fakeGateway struct {
	emitted []string
}

func (g *fakeGateway) EmitToUser(userID string, payload interface{}) {
	g.emitted = append(g.emitted, userID)
}

func newCreatorFixture(prefs map[string]map[string]string) (*Creator, *fakeNotificationStore, *fakeGateway) {
	store := &fakeNotificationStore{}
	gateway := &fakeGateway{}
	creator := NewCreator(store, NewPreferenceResolver(&fakePreferenceStore{data: prefs}), gateway)
	return creator, store, gateway
}

func TestCreateDisabledCategoryDropsSilently(t *testing.T) {
	creator, store, gateway := newCreatorFixture(map[string]map[string]string{
		"user-1": {model.PrefKeyCategoryPrefix + "loan-request": "false"},
	})

	n, err := creator.Create(context.Background(), CreateInput{
		UserID:   "user-1",
		Title:    "借款申请待审批",
		Category: "loan-request",
		Priority: model.PriorityUrgent,
	})

	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, store.created, "filtered notification must not be persisted")
	assert.Empty(t, store.attempts, "filtered notification must not enqueue deliveries")
	assert.Empty(t, gateway.emitted, "filtered notification must not be pushed")
}

func TestCreateBelowMinPriorityDropsSilently(t *testing.T) {
	creator, store, _ := newCreatorFixture(map[string]map[string]string{
		"user-1": {model.PrefKeyMinPriority: "high"},
	})

	n, err := creator.Create(context.Background(), CreateInput{
		UserID:   "user-1",
		Title:    "请假申请已提交",
		Category: "leave-application",
		Priority: model.PriorityNormal,
	})

	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, store.created)
}

func TestCreateEnqueuesOutboundAttempts(t *testing.T) {
	creator, store, gateway := newCreatorFixture(map[string]map[string]string{
		"user-1": {model.PrefKeyEmailEnabled: "true"},
	})
	before := time.Now()

	n, err := creator.Create(context.Background(), CreateInput{
		UserID:     "user-1",
		Title:      "请假申请已批准",
		Message:    "您的请假申请已批准",
		Category:   "leave-application",
		Priority:   model.PriorityHigh,
		EntityType: "leave-request",
		EntityID:   "req-1",
		Channels:   []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail, model.ChannelSMS},
	})

	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, model.NotificationStatusUnread, n.Status)
	// 短信未启用，渠道快照只含站内和邮件
	assert.Equal(t, model.StringArray{"in-app", "email"}, n.DeliveryChannels)

	require.Len(t, store.created, 1)
	require.Len(t, store.attempts, 1)

	// 站内同步投递，只有邮件渠道登记投递任务
	attempts := store.attempts[0]
	require.Len(t, attempts, 1)
	assert.Equal(t, model.ChannelEmail, attempts[0].Channel)
	assert.Equal(t, model.DeliveryStatusPending, attempts[0].Status)
	assert.Equal(t, 0, attempts[0].Attempt)
	assert.WithinDuration(t, before, attempts[0].NextAttemptAt, 5*time.Second)

	assert.Equal(t, []string{"user-1"}, gateway.emitted)
}

func TestCreateDefaultsToInAppOnly(t *testing.T) {
	creator, store, _ := newCreatorFixture(map[string]map[string]string{})

	n, err := creator.Create(context.Background(), CreateInput{
		UserID:   "user-1",
		Title:    "加班申请已提交",
		Category: "overtime-request",
	})

	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, model.PriorityNormal, n.Priority)
	assert.Equal(t, model.StringArray{"in-app"}, n.DeliveryChannels)
	require.Len(t, store.attempts, 1)
	assert.Empty(t, store.attempts[0], "in-app only notification has no delivery attempts")
}
