package notification

import (
	"reflect"
	"testing"

	"github.com/fisker/zhr-backend/internal/model"
)

type fakePreferenceStore struct {
	data map[string]map[string]string
}

func (s *fakePreferenceStore) GetAll(userID string) (map[string]string, error) {
	return s.data[userID], nil
}

func TestPreferenceResolverDefaults(t *testing.T) {
	resolver := NewPreferenceResolver(&fakePreferenceStore{data: map[string]map[string]string{}})

	prefs, err := resolver.Resolve("user-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !prefs.InAppEnabled {
		t.Error("in-app must default to enabled")
	}
	if prefs.EmailEnabled || prefs.SMSEnabled {
		t.Error("email and sms must default to disabled")
	}
	if prefs.MinPriority != model.PriorityNormal {
		t.Errorf("minPriority = %q, want normal", prefs.MinPriority)
	}
	if len(prefs.DisabledCategories) != 0 {
		t.Errorf("unexpected disabled categories: %v", prefs.DisabledCategories)
	}
}

func TestPreferenceResolverStoredValues(t *testing.T) {
	store := &fakePreferenceStore{data: map[string]map[string]string{
		"user-1": {
			model.PrefKeyInAppEnabled: "false",
			model.PrefKeyEmailEnabled: "true",
			model.PrefKeyMinPriority:  "high",
			model.PrefKeyCategoryPrefix + "leave-application": "false",
			model.PrefKeyCategoryPrefix + "loan-request":      "true",
		},
		"user-2": {
			model.PrefKeyMinPriority: "bogus",
		},
	}}
	resolver := NewPreferenceResolver(store)

	prefs, err := resolver.Resolve("user-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if prefs.InAppEnabled {
		t.Error("in-app should be disabled by stored value")
	}
	if !prefs.EmailEnabled {
		t.Error("email should be enabled by stored value")
	}
	if prefs.MinPriority != model.PriorityHigh {
		t.Errorf("minPriority = %q, want high", prefs.MinPriority)
	}
	if !prefs.DisabledCategories["leave-application"] {
		t.Error("leave-application should be disabled")
	}
	if prefs.DisabledCategories["loan-request"] {
		t.Error("loan-request is explicitly enabled")
	}

	// 非法的优先级值按默认处理
	prefs2, err := resolver.Resolve("user-2")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if prefs2.MinPriority != model.PriorityNormal {
		t.Errorf("invalid stored minPriority should fall back to normal, got %q", prefs2.MinPriority)
	}
}

func TestResolveChannels(t *testing.T) {
	tests := []struct {
		name      string
		prefs     Preferences
		requested []model.NotificationChannel
		want      []model.NotificationChannel
	}{
		{
			name:      "全部启用取交集",
			prefs:     Preferences{InAppEnabled: true, EmailEnabled: true, SMSEnabled: true},
			requested: []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail},
			want:      []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail},
		},
		{
			name:      "邮件未启用被剔除",
			prefs:     Preferences{InAppEnabled: true},
			requested: []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail},
			want:      []model.NotificationChannel{model.ChannelInApp},
		},
		{
			name:      "交集为空回落到站内",
			prefs:     Preferences{InAppEnabled: false},
			requested: []model.NotificationChannel{model.ChannelEmail, model.ChannelSMS},
			want:      []model.NotificationChannel{model.ChannelInApp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveChannels(&tt.prefs, tt.requested)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveChannels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldDeliver(t *testing.T) {
	prefs := &Preferences{
		InAppEnabled:       true,
		DisabledCategories: map[string]bool{"loan-request": true},
		MinPriority:        model.PriorityHigh,
	}

	tests := []struct {
		name     string
		category string
		priority model.NotificationPriority
		want     bool
	}{
		{"类别被禁用", "loan-request", model.PriorityUrgent, false},
		{"优先级低于下限", "leave-application", model.PriorityNormal, false},
		{"低优先级被过滤", "leave-application", model.PriorityLow, false},
		{"达到下限放行", "leave-application", model.PriorityHigh, true},
		{"高于下限放行", "leave-application", model.PriorityUrgent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldDeliver(prefs, tt.category, tt.priority); got != tt.want {
				t.Errorf("ShouldDeliver(%s, %s) = %v, want %v", tt.category, tt.priority, got, tt.want)
			}
		})
	}
}
