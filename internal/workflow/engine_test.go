package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fisker/zhr-backend/internal/model"
)

type fakeConfigs struct {
	cfgs map[model.RequestType]*model.ForwardingConfiguration
}

func (f *fakeConfigs) ActiveConfig(rt model.RequestType) (*model.ForwardingConfiguration, error) {
	return f.cfgs[rt], nil
}

type fakeStore struct {
	created       []model.Approvable
	applied       []map[string]interface{}
	forceConflict bool
}

func (s *fakeStore) Create(req model.Approvable) error {
	s.created = append(s.created, req)
	return nil
}

func (s *fakeStore) ApplyDecision(req model.Approvable, level int, expected model.LevelStatus, fields map[string]interface{}) (bool, error) {
	if s.forceConflict {
		return false, nil
	}
	var current model.LevelStatus
	if level == 1 {
		current = req.GetApproval().Approval1Status
	} else {
		current = req.GetApproval().Approval2Status
	}
	if current != expected {
		return false, nil
	}
	s.applied = append(s.applied, fields)
	return true, nil
}

type notifierEvent struct {
	kind  string
	user  string
	level int
	final bool
}

type fakeNotifier struct {
	events []notifierEvent
}

func (n *fakeNotifier) RequestSubmitted(_ context.Context, _ model.Approvable, autoApproved bool) {
	n.events = append(n.events, notifierEvent{kind: "submitted", final: autoApproved})
}

func (n *fakeNotifier) ApprovalRequested(_ context.Context, _ model.Approvable, approverUserID string, level int) {
	n.events = append(n.events, notifierEvent{kind: "requested", user: approverUserID, level: level})
}

func (n *fakeNotifier) RequestApproved(_ context.Context, _ model.Approvable, actorUserID string, level int, final bool) {
	n.events = append(n.events, notifierEvent{kind: "approved", user: actorUserID, level: level, final: final})
}

func (n *fakeNotifier) RequestRejected(_ context.Context, _ model.Approvable, actorUserID string, level int, _ string) {
	n.events = append(n.events, notifierEvent{kind: "rejected", user: actorUserID, level: level})
}

func (n *fakeNotifier) kinds() []string {
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.kind)
	}
	return out
}

type engineFixture struct {
	engine   *Engine
	store    *fakeStore
	notifier *fakeNotifier
}

func newEngineFixture(cfg *model.ForwardingConfiguration) *engineFixture {
	dir := &fakeDirectory{
		employees: map[string]*model.Employee{
			"emp-alice": {
				ID:                 "emp-alice",
				UserID:             strPtr("user-alice"),
				DepartmentID:       strPtr("dept-1"),
				ReportingManagerID: strPtr("emp-manager"),
			},
			"emp-manager": employeeWithUser("emp-manager", "user-manager"),
			"emp-orphan": {
				ID:                 "emp-orphan",
				ReportingManagerID: strPtr("emp-no-user"),
			},
			"emp-no-user": {ID: "emp-no-user"},
		},
		deptHeads: map[string]*model.Employee{
			"dept-1": employeeWithUser("emp-head", "user-head"),
		},
	}
	configs := &fakeConfigs{cfgs: map[model.RequestType]*model.ForwardingConfiguration{}}
	if cfg != nil {
		configs.cfgs[cfg.RequestType] = cfg
	}
	store := &fakeStore{}
	notifier := &fakeNotifier{}

	engine := NewEngine(configs, NewResolver(dir), dir, notifier)
	engine.Register(model.RequestTypeLeave, store)
	engine.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return &engineFixture{engine: engine, store: store, notifier: notifier}
}

func newLeaveRequest(employeeID string) *model.LeaveRequest {
	return &model.LeaveRequest{
		ID:         "req-1",
		EmployeeID: employeeID,
		LeaveType:  "annual",
	}
}

func multiLevelConfig(levels ...model.ApprovalLevel) *model.ForwardingConfiguration {
	return &model.ForwardingConfiguration{
		RequestType:  model.RequestTypeLeave,
		ApprovalFlow: model.ApprovalFlowMultiLevel,
		Status:       "active",
		Levels:       levels,
	}
}

func TestSubmitAutoApprovedFlow(t *testing.T) {
	fx := newEngineFixture(&model.ForwardingConfiguration{
		RequestType:  model.RequestTypeLeave,
		ApprovalFlow: model.ApprovalFlowAuto,
		Status:       "active",
	})
	req := newLeaveRequest("emp-alice")

	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	f := req.GetApproval()
	if f.Approval1Status != model.LevelStatusAutoApproved {
		t.Errorf("approval1Status = %q, want auto-approved", f.Approval1Status)
	}
	if f.ApprovalStatus != model.RequestStatusApproved {
		t.Errorf("approvalStatus = %q, want approved", f.ApprovalStatus)
	}
	if f.Approval1 != nil {
		t.Errorf("auto flow must not resolve an approver, got %v", *f.Approval1)
	}
	if len(fx.store.created) != 1 {
		t.Fatalf("expected 1 created request, got %d", len(fx.store.created))
	}
	// 自动通过只通知提交人，不产生待审批通知
	if len(fx.notifier.events) != 1 || fx.notifier.events[0].kind != "submitted" {
		t.Errorf("unexpected events: %v", fx.notifier.kinds())
	}
}

func TestSubmitWithoutConfigAutoApproves(t *testing.T) {
	fx := newEngineFixture(nil)
	req := newLeaveRequest("emp-alice")

	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if req.GetApproval().ApprovalStatus != model.RequestStatusApproved {
		t.Errorf("approvalStatus = %q, want approved", req.GetApproval().ApprovalStatus)
	}
}

func TestSubmitMultiLevelResolvesApprovers(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
		model.ApprovalLevel{Level: 2, ApproverType: model.ApproverTypeDepartmentHead, DepartmentHeadMode: model.HeadModeAuto},
	))
	req := newLeaveRequest("emp-alice")

	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	f := req.GetApproval()
	if f.Approval1 == nil || *f.Approval1 != "user-manager" {
		t.Errorf("approval1 = %v, want user-manager", f.Approval1)
	}
	if f.Approval2 == nil || *f.Approval2 != "user-head" {
		t.Errorf("approval2 = %v, want user-head", f.Approval2)
	}
	if f.Approval1Status != model.LevelStatusPending || f.Approval2Status != model.LevelStatusPending {
		t.Errorf("level statuses = %q/%q, want pending/pending", f.Approval1Status, f.Approval2Status)
	}
	if f.ApprovalStatus != model.RequestStatusPending {
		t.Errorf("approvalStatus = %q, want pending", f.ApprovalStatus)
	}
	if f.PendingLevel() != 1 {
		t.Errorf("pendingLevel = %d, want 1", f.PendingLevel())
	}

	// 提交通知 + 一级审批人待办通知
	kinds := fx.notifier.kinds()
	if len(kinds) != 2 || kinds[0] != "submitted" || kinds[1] != "requested" {
		t.Errorf("unexpected events: %v", kinds)
	}
	if fx.notifier.events[1].user != "user-manager" || fx.notifier.events[1].level != 1 {
		t.Errorf("pending notification went to %s level %d", fx.notifier.events[1].user, fx.notifier.events[1].level)
	}
}

func TestSubmitResolutionFailureAborts(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
	))
	req := newLeaveRequest("emp-orphan")

	err := fx.engine.Submit(context.Background(), req, "user-orphan")
	if err == nil {
		t.Fatal("expected resolution error")
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T: %v", err, err)
	}
	if resErr.Level != 1 {
		t.Errorf("error level = %d, want 1", resErr.Level)
	}
	if len(fx.store.created) != 0 {
		t.Errorf("request must not be persisted on resolution failure")
	}
	if len(fx.notifier.events) != 0 {
		t.Errorf("no notifications expected, got %v", fx.notifier.kinds())
	}
}

func TestApproveSingleLevelFinalizes(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := fx.engine.Approve(context.Background(), req, 0, "user-manager", false); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	f := req.GetApproval()
	if f.ApprovalStatus != model.RequestStatusApproved {
		t.Errorf("approvalStatus = %q, want approved", f.ApprovalStatus)
	}
	if f.Approval1Status != model.LevelStatusApproved {
		t.Errorf("approval1Status = %q, want approved", f.Approval1Status)
	}
	if f.ApprovedBy == nil || *f.ApprovedBy != "user-manager" {
		t.Errorf("approvedBy = %v, want user-manager", f.ApprovedBy)
	}
}

func TestApproveLevelOneOfTwoStaysPending(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
		model.ApprovalLevel{Level: 2, ApproverType: model.ApproverTypeDepartmentHead, DepartmentHeadMode: model.HeadModeAuto},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := fx.engine.Approve(context.Background(), req, 0, "user-manager", false); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	f := req.GetApproval()
	if f.ApprovalStatus != model.RequestStatusPending {
		t.Errorf("approvalStatus = %q, want pending while level 2 outstanding", f.ApprovalStatus)
	}
	if f.PendingLevel() != 2 {
		t.Errorf("pendingLevel = %d, want 2", f.PendingLevel())
	}

	// 二级审批人收到待办通知
	last := fx.notifier.events[len(fx.notifier.events)-1]
	if last.kind != "requested" || last.user != "user-head" || last.level != 2 {
		t.Errorf("unexpected last event: %+v", last)
	}

	// 二级批准后整体通过
	if err := fx.engine.Approve(context.Background(), req, 0, "user-head", false); err != nil {
		t.Fatalf("level 2 approve failed: %v", err)
	}
	if f.ApprovalStatus != model.RequestStatusApproved {
		t.Errorf("approvalStatus = %q, want approved", f.ApprovalStatus)
	}
}

func TestApproveForbiddenForWrongActor(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	err := fx.engine.Approve(context.Background(), req, 0, "user-impostor", false)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if req.GetApproval().ApprovalStatus != model.RequestStatusPending {
		t.Errorf("forbidden action must not change state")
	}

	// 管理员显式越权可以代批
	if err := fx.engine.Approve(context.Background(), req, 0, "user-admin", true); err != nil {
		t.Fatalf("admin override approve failed: %v", err)
	}
}

func TestApproveOutOfOrderLevelRejected(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
		model.ApprovalLevel{Level: 2, ApproverType: model.ApproverTypeDepartmentHead, DepartmentHeadMode: model.HeadModeAuto},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	err := fx.engine.Approve(context.Background(), req, 2, "user-head", false)
	if !errors.Is(err, ErrLevelNotActive) {
		t.Fatalf("expected ErrLevelNotActive, got %v", err)
	}

	// 越权也不能跳过一级直接批二级，否则整体 approved 会留下 pending 的一级
	err = fx.engine.Approve(context.Background(), req, 2, "user-admin", true)
	if !errors.Is(err, ErrLevelNotActive) {
		t.Fatalf("expected ErrLevelNotActive for override on inactive level, got %v", err)
	}

	f := req.GetApproval()
	if f.Approval1Status != model.LevelStatusPending || f.Approval2Status != model.LevelStatusPending {
		t.Errorf("level statuses = %q/%q, want pending/pending", f.Approval1Status, f.Approval2Status)
	}
	if f.ApprovalStatus != model.RequestStatusPending {
		t.Errorf("approvalStatus = %q, want pending", f.ApprovalStatus)
	}

	// 越权代批当前待审批级仍然有效
	if err := fx.engine.Approve(context.Background(), req, 1, "user-admin", true); err != nil {
		t.Fatalf("override approve on pending level failed: %v", err)
	}
	if f.Approval1Status != model.LevelStatusApproved {
		t.Errorf("approval1Status = %q, want approved", f.Approval1Status)
	}
	if f.PendingLevel() != 2 {
		t.Errorf("pendingLevel = %d, want 2", f.PendingLevel())
	}
}

func TestRejectIsTerminal(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
		model.ApprovalLevel{Level: 2, ApproverType: model.ApproverTypeDepartmentHead, DepartmentHeadMode: model.HeadModeAuto},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := fx.engine.Reject(context.Background(), req, 0, "user-manager", "余额不足", false); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	f := req.GetApproval()
	if f.ApprovalStatus != model.RequestStatusRejected {
		t.Errorf("approvalStatus = %q, want rejected", f.ApprovalStatus)
	}
	if f.RejectionReason != "余额不足" {
		t.Errorf("rejectionReason = %q", f.RejectionReason)
	}
	if f.PendingLevel() != 0 {
		t.Errorf("pendingLevel = %d, want 0 after rejection", f.PendingLevel())
	}

	// 终态后任何操作都被拒绝
	if err := fx.engine.Approve(context.Background(), req, 0, "user-head", false); !errors.Is(err, ErrRequestRejected) {
		t.Errorf("expected ErrRequestRejected, got %v", err)
	}
	if err := fx.engine.Reject(context.Background(), req, 0, "user-head", "again", false); !errors.Is(err, ErrRequestRejected) {
		t.Errorf("expected ErrRequestRejected, got %v", err)
	}
}

func TestApproveConcurrentConflict(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	fx.store.forceConflict = true
	eventsBefore := len(fx.notifier.events)

	err := fx.engine.Approve(context.Background(), req, 0, "user-manager", false)
	if !errors.Is(err, ErrDecisionConflict) {
		t.Fatalf("expected ErrDecisionConflict, got %v", err)
	}
	if req.GetApproval().Approval1Status != model.LevelStatusPending {
		t.Errorf("lost conditional update must not mutate in-memory state")
	}
	if len(fx.notifier.events) != eventsBefore {
		t.Errorf("lost conditional update must not emit notifications")
	}
}

func TestApproveAlreadyApproved(t *testing.T) {
	fx := newEngineFixture(multiLevelConfig(
		model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
	))
	req := newLeaveRequest("emp-alice")
	if err := fx.engine.Submit(context.Background(), req, "user-alice"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := fx.engine.Approve(context.Background(), req, 0, "user-manager", false); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if err := fx.engine.Approve(context.Background(), req, 0, "user-manager", false); !errors.Is(err, ErrRequestApproved) {
		t.Errorf("expected ErrRequestApproved, got %v", err)
	}
}
