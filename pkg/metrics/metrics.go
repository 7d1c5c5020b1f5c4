package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Server Metrics

	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Approval Workflow Metrics

	// ApprovalRequestsTotal 提交的审批请求总数（按请求类型）
	ApprovalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_requests_total",
			Help: "Total number of submitted approval requests",
		},
		[]string{"request_type", "flow"},
	)

	// ApprovalActionsTotal 审批动作总数（approve/reject，按级别和结果）
	ApprovalActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_actions_total",
			Help: "Total number of approval actions performed",
		},
		[]string{"request_type", "action", "level"},
	)

	// ApprovalResolutionFailures 审批人解析失败总数（按级别）
	ApprovalResolutionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_resolution_failures_total",
			Help: "Total number of approver resolution failures",
		},
		[]string{"request_type", "level"},
	)

	// Notification Metrics

	// NotificationsCreatedTotal 已落库的通知总数（按类别）
	NotificationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications persisted",
		},
		[]string{"category", "priority"},
	)

	// NotificationsFilteredTotal 被用户偏好过滤掉的通知总数
	NotificationsFilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_filtered_total",
			Help: "Total number of notifications dropped by user preference",
		},
		[]string{"category", "reason"},
	)

	// DeliveryAttemptsTotal 出站投递尝试总数（按渠道和结果）
	DeliveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivery_attempts_total",
			Help: "Total number of out-of-band delivery attempts processed",
		},
		[]string{"channel", "result"},
	)

	// PendingDeliveries 当前待投递任务数
	PendingDeliveries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_pending_deliveries",
			Help: "Number of delivery attempts currently pending",
		},
	)

	// LivePushSessions 当前在线的WebSocket会话数
	LivePushSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_push_sessions",
			Help: "Number of connected live-push websocket sessions",
		},
	)
)
