package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/logger"
	"github.com/fisker/zhr-backend/pkg/metrics"
)

// ConfigProvider 提供各请求类型当前生效的流转配置
type ConfigProvider interface {
	// ActiveConfig 返回该类型的激活配置，未配置时返回 (nil, nil)
	ActiveConfig(requestType model.RequestType) (*model.ForwardingConfiguration, error)
}

// Store 单个请求类型的持久化适配器，由各类型的仓储实现
type Store interface {
	// Create 持久化新请求（含已解析的审批字段），与解析在同一事务语义内
	Create(req model.Approvable) error

	// ApplyDecision 条件写回审批决定
	// 仅当 level 级的状态仍等于 expected 时生效，返回是否命中
	// 未命中说明并发操作已抢先修改，调用方不得重试写入
	ApplyDecision(req model.Approvable, level int, expected model.LevelStatus, fields map[string]interface{}) (bool, error)
}

// Notifier 审批事件出口，实现方负责通知创建与已读清理
// 通知层的任何失败都不影响审批事务本身
type Notifier interface {
	// RequestSubmitted 请求已提交（autoApproved 表示走了自动通过流程）
	RequestSubmitted(ctx context.Context, req model.Approvable, autoApproved bool)

	// ApprovalRequested 某一级审批人需要处理该请求
	ApprovalRequested(ctx context.Context, req model.Approvable, approverUserID string, level int)

	// RequestApproved 某一级批准通过（final 表示整体已批准）
	RequestApproved(ctx context.Context, req model.Approvable, actorUserID string, level int, final bool)

	// RequestRejected 请求被拒绝
	RequestRejected(ctx context.Context, req model.Approvable, actorUserID string, level int, reason string)
}

// Engine 通用审批状态机
// 六类请求共用同一套解析与流转逻辑，按请求类型注册各自的持久化适配器
type Engine struct {
	configs  ConfigProvider
	resolver *Resolver
	dir      Directory
	notifier Notifier
	stores   map[model.RequestType]Store
	now      func() time.Time
}

// NewEngine 创建审批引擎
func NewEngine(configs ConfigProvider, resolver *Resolver, dir Directory, notifier Notifier) *Engine {
	return &Engine{
		configs:  configs,
		resolver: resolver,
		dir:      dir,
		notifier: notifier,
		stores:   make(map[model.RequestType]Store),
		now:      time.Now,
	}
}

// Register 注册某请求类型的持久化适配器
func (e *Engine) Register(rt model.RequestType, store Store) {
	e.stores[rt] = store
}

func (e *Engine) storeFor(req model.Approvable) (Store, error) {
	store, ok := e.stores[req.GetRequestType()]
	if !ok {
		return nil, NewValidationError("request type %s is not registered", req.GetRequestType())
	}
	return store, nil
}

// Submit 提交新请求：解析全部审批级、初始化审批字段并持久化
// 任一级解析失败则整体失败，不会留下半初始化的请求
// 没有激活配置的类型按自动通过处理
func (e *Engine) Submit(ctx context.Context, req model.Approvable, actorUserID string) error {
	store, err := e.storeFor(req)
	if err != nil {
		return err
	}

	cfg, err := e.configs.ActiveConfig(req.GetRequestType())
	if err != nil {
		return err
	}

	fields := req.GetApproval()
	fields.CreatedByID = actorUserID
	now := e.now()

	if cfg == nil || cfg.ApprovalFlow == model.ApprovalFlowAuto {
		fields.Approval1Status = model.LevelStatusAutoApproved
		fields.Approval1Date = &now
		fields.ApprovalStatus = model.RequestStatusApproved
		fields.ApprovedAt = &now

		if err := store.Create(req); err != nil {
			return err
		}
		metrics.ApprovalRequestsTotal.WithLabelValues(string(req.GetRequestType()), string(model.ApprovalFlowAuto)).Inc()
		e.notifier.RequestSubmitted(ctx, req, true)
		return nil
	}

	employee, err := e.dir.EmployeeByID(req.GetEmployeeID())
	if err != nil {
		return err
	}
	if employee == nil {
		return NewValidationError("employee %s not found", req.GetEmployeeID())
	}
	org := employee.Org()

	levels := make([]model.ApprovalLevel, len(cfg.Levels))
	copy(levels, cfg.Levels)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })

	for i := range levels {
		userID, err := e.resolver.Resolve(&levels[i], org)
		if err != nil {
			metrics.ApprovalResolutionFailures.WithLabelValues(string(req.GetRequestType()), levelLabel(levels[i].Level)).Inc()
			return err
		}
		uid := userID
		switch levels[i].Level {
		case 1:
			fields.Approval1 = &uid
			fields.Approval1Status = model.LevelStatusPending
		case 2:
			fields.Approval2 = &uid
			fields.Approval2Status = model.LevelStatusPending
		}
	}
	fields.ApprovalStatus = model.RequestStatusPending

	if err := store.Create(req); err != nil {
		return err
	}
	metrics.ApprovalRequestsTotal.WithLabelValues(string(req.GetRequestType()), string(model.ApprovalFlowMultiLevel)).Inc()

	e.notifier.RequestSubmitted(ctx, req, false)
	if fields.Approval1 != nil {
		e.notifier.ApprovalRequested(ctx, req, *fields.Approval1, 1)
	}
	return nil
}

// Approve 批准某一级
// level 为 0 时取当前待审批级；override 表示管理员显式越权（代替当前待审批级的审批人操作，
// 不允许跳过尚未满足的级别）
func (e *Engine) Approve(ctx context.Context, req model.Approvable, level int, actorUserID string, override bool) error {
	store, err := e.storeFor(req)
	if err != nil {
		return err
	}

	effective, err := e.actionableLevel(req, level, actorUserID, override)
	if err != nil {
		return err
	}

	fields := req.GetApproval()
	now := e.now()
	final := e.isFinalLevel(fields, effective)

	patch := map[string]interface{}{}
	switch effective {
	case 1:
		patch["approval1_status"] = model.LevelStatusApproved
		patch["approval1_date"] = now
	case 2:
		patch["approval2_status"] = model.LevelStatusApproved
		patch["approval2_date"] = now
	}
	if final {
		patch["approval_status"] = model.RequestStatusApproved
		patch["approved_by"] = actorUserID
		patch["approved_at"] = now
	}

	ok, err := store.ApplyDecision(req, effective, model.LevelStatusPending, patch)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warnf("Concurrent approval detected: type=%s id=%s level=%d actor=%s",
			req.GetRequestType(), req.GetID(), effective, actorUserID)
		return ErrDecisionConflict
	}

	e.applyApprove(fields, effective, actorUserID, now, final)
	metrics.ApprovalActionsTotal.WithLabelValues(string(req.GetRequestType()), "approve", levelLabel(effective)).Inc()
	logger.Infof("Request approved: type=%s id=%s level=%d actor=%s final=%v",
		req.GetRequestType(), req.GetID(), effective, actorUserID, final)

	e.notifier.RequestApproved(ctx, req, actorUserID, effective, final)
	if !final && fields.Approval2 != nil {
		e.notifier.ApprovalRequested(ctx, req, *fields.Approval2, 2)
	}
	return nil
}

// Reject 拒绝某一级，整体立即进入终态
func (e *Engine) Reject(ctx context.Context, req model.Approvable, level int, actorUserID string, reason string, override bool) error {
	store, err := e.storeFor(req)
	if err != nil {
		return err
	}

	effective, err := e.actionableLevel(req, level, actorUserID, override)
	if err != nil {
		return err
	}

	fields := req.GetApproval()
	now := e.now()

	patch := map[string]interface{}{
		"approval_status":  model.RequestStatusRejected,
		"rejection_reason": reason,
		"approved_by":      actorUserID,
	}
	switch effective {
	case 1:
		patch["approval1_status"] = model.LevelStatusRejected
		patch["approval1_date"] = now
	case 2:
		patch["approval2_status"] = model.LevelStatusRejected
		patch["approval2_date"] = now
	}

	ok, err := store.ApplyDecision(req, effective, model.LevelStatusPending, patch)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warnf("Concurrent rejection detected: type=%s id=%s level=%d actor=%s",
			req.GetRequestType(), req.GetID(), effective, actorUserID)
		return ErrDecisionConflict
	}

	e.applyReject(fields, effective, actorUserID, now, reason)
	metrics.ApprovalActionsTotal.WithLabelValues(string(req.GetRequestType()), "reject", levelLabel(effective)).Inc()
	logger.Infof("Request rejected: type=%s id=%s level=%d actor=%s",
		req.GetRequestType(), req.GetID(), effective, actorUserID)

	e.notifier.RequestRejected(ctx, req, actorUserID, effective, reason)
	return nil
}

// actionableLevel 校验请求状态、级别与操作人，返回本次操作的级别
func (e *Engine) actionableLevel(req model.Approvable, level int, actorUserID string, override bool) (int, error) {
	fields := req.GetApproval()

	switch fields.ApprovalStatus {
	case model.RequestStatusRejected:
		return 0, ErrRequestRejected
	case model.RequestStatusApproved:
		return 0, ErrRequestApproved
	}

	pending := fields.PendingLevel()
	if pending == 0 {
		return 0, ErrNoPendingApproval
	}

	effective := level
	if effective == 0 {
		effective = pending
	}
	if effective < 1 || effective > model.MaxApprovalLevels {
		return 0, NewValidationError("invalid approval level %d", effective)
	}
	// 越权只放宽操作人校验，级别顺序不可跳过：
	// 整体 approved 必须意味着每个已配置级别都已满足
	if effective != pending {
		return 0, ErrLevelNotActive
	}

	approver := fields.ApproverAt(effective)
	if approver == nil {
		return 0, ErrNoApproverConfigured
	}
	if *approver != actorUserID && !override {
		return 0, ErrForbidden
	}
	return effective, nil
}

// isFinalLevel 本级批准后整体是否进入 approved
func (e *Engine) isFinalLevel(fields *model.ApprovalFields, level int) bool {
	if level == 2 {
		return true
	}
	return fields.Approval2 == nil
}

func (e *Engine) applyApprove(fields *model.ApprovalFields, level int, actorUserID string, now time.Time, final bool) {
	switch level {
	case 1:
		fields.Approval1Status = model.LevelStatusApproved
		fields.Approval1Date = &now
	case 2:
		fields.Approval2Status = model.LevelStatusApproved
		fields.Approval2Date = &now
	}
	if final {
		fields.ApprovalStatus = model.RequestStatusApproved
		actor := actorUserID
		fields.ApprovedBy = &actor
		fields.ApprovedAt = &now
	}
}

func (e *Engine) applyReject(fields *model.ApprovalFields, level int, actorUserID string, now time.Time, reason string) {
	switch level {
	case 1:
		fields.Approval1Status = model.LevelStatusRejected
		fields.Approval1Date = &now
	case 2:
		fields.Approval2Status = model.LevelStatusRejected
		fields.Approval2Date = &now
	}
	fields.ApprovalStatus = model.RequestStatusRejected
	fields.RejectionReason = reason
	actor := actorUserID
	fields.ApprovedBy = &actor
}

func levelLabel(level int) string {
	switch level {
	case 1:
		return "1"
	case 2:
		return "2"
	}
	return "0"
}
