package notification

import (
	"strings"

	"github.com/fisker/zhr-backend/internal/model"
)

// Preferences 用户的有效通知偏好
// 由存储的键值对叠加默认值得到：站内默认开，邮件/短信默认关，优先级下限默认 normal
type Preferences struct {
	InAppEnabled       bool
	EmailEnabled       bool
	SMSEnabled         bool
	DisabledCategories map[string]bool
	MinPriority        model.NotificationPriority
}

// PreferenceStore 偏好键值读取
type PreferenceStore interface {
	GetAll(userID string) (map[string]string, error)
}

// PreferenceResolver 通知偏好解析器
type PreferenceResolver struct {
	store PreferenceStore
}

func NewPreferenceResolver(store PreferenceStore) *PreferenceResolver {
	return &PreferenceResolver{store: store}
}

// Resolve 解析某用户的有效偏好
func (r *PreferenceResolver) Resolve(userID string) (*Preferences, error) {
	raw, err := r.store.GetAll(userID)
	if err != nil {
		return nil, err
	}

	prefs := &Preferences{
		InAppEnabled:       boolValue(raw, model.PrefKeyInAppEnabled, true),
		EmailEnabled:       boolValue(raw, model.PrefKeyEmailEnabled, false),
		SMSEnabled:         boolValue(raw, model.PrefKeySMSEnabled, false),
		DisabledCategories: make(map[string]bool),
		MinPriority:        model.PriorityNormal,
	}

	if v, ok := raw[model.PrefKeyMinPriority]; ok {
		switch model.NotificationPriority(v) {
		case model.PriorityLow, model.PriorityNormal, model.PriorityHigh, model.PriorityUrgent:
			prefs.MinPriority = model.NotificationPriority(v)
		}
	}

	for key, value := range raw {
		if strings.HasPrefix(key, model.PrefKeyCategoryPrefix) && value == "false" {
			category := strings.TrimPrefix(key, model.PrefKeyCategoryPrefix)
			prefs.DisabledCategories[category] = true
		}
	}
	return prefs, nil
}

// ResolveChannels 求请求渠道与用户已启用渠道的交集
// 交集为空时回落到站内渠道，站内通知不能被渠道偏好完全关闭
func ResolveChannels(prefs *Preferences, requested []model.NotificationChannel) []model.NotificationChannel {
	enabled := map[model.NotificationChannel]bool{
		model.ChannelInApp: prefs.InAppEnabled,
		model.ChannelEmail: prefs.EmailEnabled,
		model.ChannelSMS:   prefs.SMSEnabled,
	}

	var resolved []model.NotificationChannel
	for _, ch := range requested {
		if enabled[ch] {
			resolved = append(resolved, ch)
		}
	}
	if len(resolved) == 0 {
		resolved = []model.NotificationChannel{model.ChannelInApp}
	}
	return resolved
}

// ShouldDeliver 类别与优先级过滤
func ShouldDeliver(prefs *Preferences, category string, priority model.NotificationPriority) bool {
	if prefs.DisabledCategories[category] {
		return false
	}
	if model.PriorityRank(priority) < model.PriorityRank(prefs.MinPriority) {
		return false
	}
	return true
}

func boolValue(raw map[string]string, key string, fallback bool) bool {
	v, ok := raw[key]
	if !ok {
		return fallback
	}
	return v == "true"
}
