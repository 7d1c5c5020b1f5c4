package service

import (
	"strings"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/notification"
	"github.com/fisker/zhr-backend/internal/repository"
	"github.com/fisker/zhr-backend/internal/workflow"
)

// NotificationService 通知查询与偏好管理
type NotificationService struct {
	notifications *repository.NotificationRepository
	preferences   *repository.PreferenceRepository
	resolver      *notification.PreferenceResolver
}

func NewNotificationService(
	notifications *repository.NotificationRepository,
	preferences *repository.PreferenceRepository,
	resolver *notification.PreferenceResolver,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		preferences:   preferences,
		resolver:      resolver,
	}
}

// List 查询用户的通知
func (s *NotificationService) List(userID string, status model.NotificationStatus, limit, offset int) (int64, []model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notifications.List(userID, status, limit, offset)
}

func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	return s.notifications.UnreadCount(userID)
}

// MarkRead 将单条通知置为已读
func (s *NotificationService) MarkRead(userID, id string) error {
	updated, err := s.notifications.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if !updated {
		return workflow.NewValidationError("通知不存在")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID string) error {
	return s.notifications.MarkAllRead(userID)
}

// GetPreferences 用户的有效通知偏好
func (s *NotificationService) GetPreferences(userID string) (*notification.Preferences, error) {
	return s.resolver.Resolve(userID)
}

// SetPreference 写入单个偏好键，仅允许通知命名空间下的键
func (s *NotificationService) SetPreference(userID, key, value string) error {
	if !strings.HasPrefix(key, "notifications.") {
		return workflow.NewValidationError("不支持的偏好键: %s", key)
	}
	return s.preferences.Set(userID, key, value)
}
