package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fisker/zhr-backend/internal/api/middleware"
	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/push"
	"github.com/fisker/zhr-backend/internal/service"
	"github.com/fisker/zhr-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHandler 通知接口
type NotificationHandler struct {
	service *service.NotificationService
	gateway *push.Gateway
}

func NewNotificationHandler(notificationService *service.NotificationService, gateway *push.Gateway) *NotificationHandler {
	return &NotificationHandler{
		service: notificationService,
		gateway: gateway,
	}
}

// List 查询当前用户的通知
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	status := model.NotificationStatus(c.Query("status"))
	limit, offset := limitOffset(c)

	total, notifications, err := h.service.List(userID, status, limit, offset)
	if err != nil {
		model.HandleError(c, 500, err, "查询通知失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(gin.H{
		"total": total,
		"items": notifications,
	}))
}

// UnreadCount 未读数
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(middleware.CurrentUserID(c))
	if err != nil {
		model.HandleError(c, 500, err, "查询未读数失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(gin.H{"count": count}))
}

// MarkRead 单条置为已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// MarkAllRead 全部置为已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(middleware.CurrentUserID(c)); err != nil {
		model.HandleError(c, 500, err, "操作失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// GetPreferences 当前用户的有效通知偏好
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.service.GetPreferences(middleware.CurrentUserID(c))
	if err != nil {
		model.HandleError(c, 500, err, "查询通知偏好失败")
		return
	}

	disabled := make([]string, 0, len(prefs.DisabledCategories))
	for category := range prefs.DisabledCategories {
		disabled = append(disabled, category)
	}
	c.JSON(http.StatusOK, model.Success(gin.H{
		"inAppEnabled":       prefs.InAppEnabled,
		"emailEnabled":       prefs.EmailEnabled,
		"smsEnabled":         prefs.SMSEnabled,
		"minPriority":        prefs.MinPriority,
		"disabledCategories": disabled,
	}))
}

// UpdatePreferences 批量写入偏好键值
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	userID := middleware.CurrentUserID(c)
	for key, value := range body {
		if err := h.service.SetPreference(userID, key, value); err != nil {
			respondWorkflowError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// HandleWebSocket 通知实时推送连接
// 连接期间只推不收，客户端消息直接丢弃，读循环用于感知断开
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("WebSocket upgrade failed for user %s: %v", userID, err)
		return
	}

	h.gateway.AddConnection(userID, conn)
	defer func() {
		h.gateway.RemoveConnection(userID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// limitOffset 通知列表用 limit/offset 分页
func limitOffset(c *gin.Context) (limit, offset int) {
	limit = intQuery(c, "limit", 20)
	offset = intQuery(c, "offset", 0)
	return limit, offset
}
