package model

import (
	"time"
)

// 通知偏好键，均在 notifications.* 命名空间下
// 不存在的键按默认值处理（懒创建：用户第一次修改时才落库）
const (
	PrefKeyInAppEnabled = "notifications.in-app.enabled" // 默认 true
	PrefKeyEmailEnabled = "notifications.email.enabled"  // 默认 false
	PrefKeySMSEnabled   = "notifications.sms.enabled"    // 默认 false
	PrefKeyMinPriority  = "notifications.min-priority"   // 默认 normal

	// PrefKeyCategoryPrefix + category = 某类别是否接收，默认 true
	PrefKeyCategoryPrefix = "notifications.category."
)

// UserPreference 用户偏好键值对
type UserPreference struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_user_pref_key"`
	Key    string `json:"key" gorm:"column:pref_key;type:varchar(100);not null;uniqueIndex:idx_user_pref_key"`
	Value  string `json:"value" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}
