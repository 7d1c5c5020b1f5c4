package repository

import (
	"errors"
	"time"

	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// NotificationRepository 通知仓库
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateWithAttempts 持久化通知及其出站投递任务，同一事务
func (r *NotificationRepository) CreateWithAttempts(n *model.Notification, attempts []model.NotificationDeliveryAttempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		for i := range attempts {
			attempts[i].NotificationID = n.ID
			if err := tx.Create(&attempts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *NotificationRepository) FindByID(id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// List 查询用户的通知，可按阅读状态过滤
func (r *NotificationRepository) List(userID string, status model.NotificationStatus, limit, offset int) (total int64, notifications []model.Notification, err error) {
	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err = query.Count(&total).Error; err != nil {
		return
	}
	if total == 0 {
		return 0, []model.Notification{}, nil
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err = query.Order("created_at DESC").Find(&notifications).Error
	return
}

func (r *NotificationRepository) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND status = ?", userID, model.NotificationStatusUnread).
		Count(&count).Error
	return count, err
}

// MarkRead 将单条通知置为已读，只能操作属于自己的通知
func (r *NotificationRepository) MarkRead(userID, id string) (bool, error) {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", model.NotificationStatusRead)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND status = ?", userID, model.NotificationStatusUnread).
		Update("status", model.NotificationStatusRead).Error
}

// MarkRelatedAsRead 将指向某业务实体的未读通知批量置为已读
// 审批动作处理完一个请求后，相关的"待处理"通知随之消失
func (r *NotificationRepository) MarkRelatedAsRead(userID, entityType, entityID string) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND entity_type = ? AND entity_id = ? AND status = ?",
			userID, entityType, entityID, model.NotificationStatusUnread).
		Update("status", model.NotificationStatusRead).Error
}

// StampDeliveredAt 首次投递成功时间，已有值时不覆盖
func (r *NotificationRepository) StampDeliveredAt(notificationID string, t time.Time) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ? AND delivered_at IS NULL", notificationID).
		Update("delivered_at", t).Error
}

// DeliveryAttemptRepository 投递任务仓库，只有投递Worker写入状态
type DeliveryAttemptRepository struct {
	db *gorm.DB
}

func NewDeliveryAttemptRepository(db *gorm.DB) *DeliveryAttemptRepository {
	return &DeliveryAttemptRepository{db: db}
}

// DuePending 取到期的待投递任务，最早到期的在前，批量上限限制单次处理时长
func (r *DeliveryAttemptRepository) DuePending(now time.Time, limit int) ([]model.NotificationDeliveryAttempt, error) {
	var attempts []model.NotificationDeliveryAttempt
	err := r.db.Preload("Notification").
		Where("status = ? AND next_attempt_at <= ?", model.DeliveryStatusPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// UpdateState 写回一次处理结果
func (r *DeliveryAttemptRepository) UpdateState(a *model.NotificationDeliveryAttempt) error {
	return r.db.Model(a).
		Select("status", "attempt", "next_attempt_at", "error_message").
		Updates(map[string]interface{}{
			"status":          a.Status,
			"attempt":         a.Attempt,
			"next_attempt_at": a.NextAttemptAt,
			"error_message":   a.ErrorMessage,
		}).Error
}

// CountPending 待投递任务总数，供指标上报
func (r *DeliveryAttemptRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.NotificationDeliveryAttempt{}).
		Where("status = ?", model.DeliveryStatusPending).
		Count(&count).Error
	return count, err
}
