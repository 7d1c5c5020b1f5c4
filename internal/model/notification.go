package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationChannel 通知渠道
type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in-app" // 站内通知，同步落库
	ChannelEmail NotificationChannel = "email"  // 邮件，经投递Worker异步发送
	ChannelSMS   NotificationChannel = "sms"    // 短信，经投递Worker异步发送
)

// NotificationPriority 通知优先级
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// PriorityRank 优先级排序值，固定顺序 low < normal < high < urgent
func PriorityRank(p NotificationPriority) int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityNormal:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return 1 // 未知优先级按 normal 处理
}

// NotificationStatus 通知阅读状态
type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// Notification 站内通知
type Notification struct {
	ID       string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID   string               `json:"userId" gorm:"type:varchar(36);not null;index"`
	Title    string               `json:"title" gorm:"type:varchar(200);not null"`
	Message  string               `json:"message" gorm:"type:text"`
	Category string               `json:"category" gorm:"type:varchar(50);index"` // leave-application, loan-request, ...
	Priority NotificationPriority `json:"priority" gorm:"type:varchar(20);default:'normal'"`
	Status   NotificationStatus   `json:"status" gorm:"type:varchar(10);default:'unread';index"`

	// 点击跳转信息
	ActionType    string         `json:"actionType" gorm:"type:varchar(50)"`
	ActionPayload datatypes.JSON `json:"actionPayload" gorm:"type:json"`

	// 回链到触发通知的业务实体
	EntityType string `json:"entityType" gorm:"type:varchar(50);index:idx_notifications_entity"`
	EntityID   string `json:"entityId" gorm:"type:varchar(36);index:idx_notifications_entity"`

	// DeliveryChannels 创建时解析出的渠道集合（快照，偏好后续变化不影响已创建的通知）
	DeliveryChannels StringArray `json:"deliveryChannels" gorm:"type:text"`
	DeliveredAt      *time.Time  `json:"deliveredAt" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// DeliveryStatus 投递任务状态
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// MaxDeliveryAttempts 单个投递任务的最大尝试次数
const MaxDeliveryAttempts = 5

// NotificationDeliveryAttempt 出站渠道（email/sms）的投递任务
// 站内通知同步投递，不产生此记录；只有投递Worker会修改状态
type NotificationDeliveryAttempt struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	NotificationID string              `json:"notificationId" gorm:"type:varchar(36);not null;index"`
	Channel        NotificationChannel `json:"channel" gorm:"type:varchar(10);not null"`
	Status         DeliveryStatus      `json:"status" gorm:"type:varchar(10);default:'pending';index"`
	Attempt        int                 `json:"attempt" gorm:"default:0"`
	NextAttemptAt  time.Time           `json:"nextAttemptAt" gorm:"type:timestamp;index"`
	ErrorMessage   string              `json:"errorMessage" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Notification *Notification `json:"notification,omitempty" gorm:"foreignKey:NotificationID"`
}

func (NotificationDeliveryAttempt) TableName() string {
	return "notification_delivery_attempts"
}
