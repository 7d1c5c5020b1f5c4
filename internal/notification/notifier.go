package notification

import (
	"context"
	"fmt"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/logger"
)

// ApprovalNotifier 把审批事件翻译成具体通知
// 实现审批引擎的通知出口，创建失败只记日志，不影响审批事务
type ApprovalNotifier struct {
	creator *Creator
}

func NewApprovalNotifier(creator *Creator) *ApprovalNotifier {
	return &ApprovalNotifier{creator: creator}
}

// CategoryOf 请求类型对应的通知类别
func CategoryOf(rt model.RequestType) string {
	switch rt {
	case model.RequestTypeLeave:
		return "leave-application"
	case model.RequestTypeLoan:
		return "loan-request"
	case model.RequestTypeAdvanceSalary:
		return "advance-salary-request"
	case model.RequestTypeOvertime:
		return "overtime-request"
	case model.RequestTypeAttendanceExemption:
		return "attendance-exemption"
	case model.RequestTypeAttendanceCorrection:
		return "attendance-correction"
	}
	return string(rt)
}

// RequestSubmitted 提交回执，发给提交人
func (n *ApprovalNotifier) RequestSubmitted(ctx context.Context, req model.Approvable, autoApproved bool) {
	message := fmt.Sprintf("您的%s已提交，等待审批", req.RequestTitle())
	if autoApproved {
		message = fmt.Sprintf("您的%s已自动通过", req.RequestTitle())
	}
	n.create(ctx, CreateInput{
		UserID:     req.GetApproval().CreatedByID,
		Title:      "申请已提交",
		Message:    message,
		Category:   CategoryOf(req.GetRequestType()),
		Priority:   model.PriorityNormal,
		ActionType: "view-request",
		EntityType: string(req.GetRequestType()),
		EntityID:   req.GetID(),
	})
}

// ApprovalRequested 待办通知，发给某级审批人，站内加邮件
func (n *ApprovalNotifier) ApprovalRequested(ctx context.Context, req model.Approvable, approverUserID string, level int) {
	n.create(ctx, CreateInput{
		UserID:     approverUserID,
		Title:      "有新的审批待处理",
		Message:    fmt.Sprintf("%s 等待您的审批（第%d级）", req.RequestTitle(), level),
		Category:   CategoryOf(req.GetRequestType()),
		Priority:   model.PriorityHigh,
		ActionType: "approve-request",
		ActionPayload: map[string]interface{}{
			"requestType": req.GetRequestType(),
			"requestId":   req.GetID(),
			"level":       level,
		},
		EntityType: string(req.GetRequestType()),
		EntityID:   req.GetID(),
		Channels:   []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail},
	})
}

// RequestApproved 批准进度通知，发给提交人；审批人自己的待办随之清理
func (n *ApprovalNotifier) RequestApproved(ctx context.Context, req model.Approvable, actorUserID string, level int, final bool) {
	n.creator.MarkRelatedAsRead(actorUserID, string(req.GetRequestType()), req.GetID())

	title := "审批进度更新"
	message := fmt.Sprintf("您的%s已通过第%d级审批，等待下一级处理", req.RequestTitle(), level)
	priority := model.PriorityNormal
	if final {
		title = "申请已批准"
		message = fmt.Sprintf("您的%s已批准", req.RequestTitle())
		priority = model.PriorityHigh
	}
	n.create(ctx, CreateInput{
		UserID:     req.GetApproval().CreatedByID,
		Title:      title,
		Message:    message,
		Category:   CategoryOf(req.GetRequestType()),
		Priority:   priority,
		ActionType: "view-request",
		EntityType: string(req.GetRequestType()),
		EntityID:   req.GetID(),
		Channels:   []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail},
	})
}

// RequestRejected 拒绝通知，发给提交人
func (n *ApprovalNotifier) RequestRejected(ctx context.Context, req model.Approvable, actorUserID string, level int, reason string) {
	n.creator.MarkRelatedAsRead(actorUserID, string(req.GetRequestType()), req.GetID())

	message := fmt.Sprintf("您的%s已被拒绝", req.RequestTitle())
	if reason != "" {
		message = fmt.Sprintf("%s，原因：%s", message, reason)
	}
	n.create(ctx, CreateInput{
		UserID:     req.GetApproval().CreatedByID,
		Title:      "申请已拒绝",
		Message:    message,
		Category:   CategoryOf(req.GetRequestType()),
		Priority:   model.PriorityHigh,
		ActionType: "view-request",
		EntityType: string(req.GetRequestType()),
		EntityID:   req.GetID(),
		Channels:   []model.NotificationChannel{model.ChannelInApp, model.ChannelEmail},
	})
}

func (n *ApprovalNotifier) create(ctx context.Context, input CreateInput) {
	if _, err := n.creator.Create(ctx, input); err != nil {
		logger.Errorf("Failed to create approval notification: user=%s category=%s err=%v",
			input.UserID, input.Category, err)
	}
}
