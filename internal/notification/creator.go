package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/logger"
	"github.com/fisker/zhr-backend/pkg/metrics"
)

// Store 通知及投递任务的持久化，由 repository.NotificationRepository 实现
type Store interface {
	// CreateWithAttempts 通知与其投递任务在同一事务内落库
	CreateWithAttempts(n *model.Notification, attempts []model.NotificationDeliveryAttempt) error

	// MarkRelatedAsRead 将指向某业务实体的未读通知置为已读
	MarkRelatedAsRead(userID, entityType, entityID string) error
}

// Gateway 在线会话实时推送
// 尽力而为，推送失败不影响通知本身，客户端总能通过列表接口拉取
type Gateway interface {
	EmitToUser(userID string, payload interface{})
}

// CreateInput 创建通知的输入
type CreateInput struct {
	UserID        string
	Title         string
	Message       string
	Category      string
	Priority      model.NotificationPriority
	ActionType    string
	ActionPayload map[string]interface{}
	EntityType    string
	EntityID      string
	// Channels 期望的投递渠道，为空默认仅站内
	Channels []model.NotificationChannel
}

// Creator 通知创建器
// 按用户偏好过滤后落库，同步推送在线会话，并为出站渠道登记投递任务
type Creator struct {
	notifications Store
	prefs         *PreferenceResolver
	gateway       Gateway
}

func NewCreator(notifications Store, prefs *PreferenceResolver, gateway Gateway) *Creator {
	return &Creator{
		notifications: notifications,
		prefs:         prefs,
		gateway:       gateway,
	}
}

// Create 创建一条通知
// 被偏好过滤掉时返回 (nil, nil)：静默丢弃，不入队也不报错
func (c *Creator) Create(ctx context.Context, input CreateInput) (*model.Notification, error) {
	prefs, err := c.prefs.Resolve(input.UserID)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	if !ShouldDeliver(prefs, input.Category, priority) {
		reason := "category"
		if !prefs.DisabledCategories[input.Category] {
			reason = "priority"
		}
		metrics.NotificationsFilteredTotal.WithLabelValues(input.Category, reason).Inc()
		logger.Debugf("Notification filtered by preference: user=%s category=%s priority=%s",
			input.UserID, input.Category, priority)
		return nil, nil
	}

	requested := input.Channels
	if len(requested) == 0 {
		requested = []model.NotificationChannel{model.ChannelInApp}
	}
	channels := ResolveChannels(prefs, requested)

	var payload datatypes.JSON
	if input.ActionPayload != nil {
		raw, err := json.Marshal(input.ActionPayload)
		if err != nil {
			return nil, err
		}
		payload = datatypes.JSON(raw)
	}

	n := &model.Notification{
		ID:               uuid.New().String(),
		UserID:           input.UserID,
		Title:            input.Title,
		Message:          input.Message,
		Category:         input.Category,
		Priority:         priority,
		Status:           model.NotificationStatusUnread,
		ActionType:       input.ActionType,
		ActionPayload:    payload,
		EntityType:       input.EntityType,
		EntityID:         input.EntityID,
		DeliveryChannels: channelStrings(channels),
	}

	now := time.Now()
	var attempts []model.NotificationDeliveryAttempt
	for _, ch := range channels {
		if ch == model.ChannelInApp {
			continue
		}
		attempts = append(attempts, model.NotificationDeliveryAttempt{
			Channel:       ch,
			Status:        model.DeliveryStatusPending,
			Attempt:       0,
			NextAttemptAt: now,
		})
	}

	if err := c.notifications.CreateWithAttempts(n, attempts); err != nil {
		return nil, err
	}
	metrics.NotificationsCreatedTotal.WithLabelValues(input.Category, string(priority)).Inc()

	if c.gateway != nil {
		c.gateway.EmitToUser(input.UserID, n)
	}
	return n, nil
}

// MarkRelatedAsRead 清理指向某业务实体的未读通知
func (c *Creator) MarkRelatedAsRead(userID, entityType, entityID string) {
	if err := c.notifications.MarkRelatedAsRead(userID, entityType, entityID); err != nil {
		logger.Warnf("Failed to mark related notifications as read: user=%s entity=%s/%s err=%v",
			userID, entityType, entityID, err)
	}
}

func channelStrings(channels []model.NotificationChannel) model.StringArray {
	out := make(model.StringArray, 0, len(channels))
	for _, ch := range channels {
		out = append(out, string(ch))
	}
	return out
}
