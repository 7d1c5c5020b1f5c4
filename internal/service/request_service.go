package service

import (
	"context"
	"errors"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/repository"
	"github.com/fisker/zhr-backend/internal/workflow"
)

// ErrRequestNotFound 请求不存在
var ErrRequestNotFound = errors.New("请求不存在")

// RequestService 六类审批请求共用的领域服务
// 各类型的领域字段校验在 handler 完成，这里只负责审批生命周期
type RequestService[PT model.Approvable] struct {
	repo      *repository.RequestRepository[PT]
	employees *repository.EmployeeRepository
	engine    *workflow.Engine
}

func NewRequestService[PT model.Approvable](
	repo *repository.RequestRepository[PT],
	employees *repository.EmployeeRepository,
	engine *workflow.Engine,
) *RequestService[PT] {
	return &RequestService[PT]{
		repo:      repo,
		employees: employees,
		engine:    engine,
	}
}

// Submit 提交请求，审批人解析与落库由引擎完成
func (s *RequestService[PT]) Submit(ctx context.Context, req PT, actorUserID string) error {
	return s.engine.Submit(ctx, req, actorUserID)
}

// Approve 批准请求的某一级，level 为 0 时取当前待审批级
func (s *RequestService[PT]) Approve(ctx context.Context, id string, level int, actorUserID string, override bool) (PT, error) {
	req, err := s.load(id)
	if err != nil {
		var zero PT
		return zero, err
	}
	if err := s.engine.Approve(ctx, req, level, actorUserID, override); err != nil {
		var zero PT
		return zero, err
	}
	return req, nil
}

// Reject 拒绝请求的某一级，请求进入终态
func (s *RequestService[PT]) Reject(ctx context.Context, id string, level int, actorUserID, reason string, override bool) (PT, error) {
	req, err := s.load(id)
	if err != nil {
		var zero PT
		return zero, err
	}
	if err := s.engine.Reject(ctx, req, level, actorUserID, reason, override); err != nil {
		var zero PT
		return zero, err
	}
	return req, nil
}

func (s *RequestService[PT]) Get(id string) (PT, error) {
	return s.load(id)
}

// ListByEmployee 某员工的请求列表
func (s *RequestService[PT]) ListByEmployee(employeeID string, status model.RequestStatus, page, pageSize int) (int64, []PT, error) {
	return s.repo.ListByEmployee(employeeID, status, page, pageSize)
}

// List 全部请求列表
func (s *RequestService[PT]) List(status model.RequestStatus, page, pageSize int) (int64, []PT, error) {
	return s.repo.List(status, page, pageSize)
}

// PendingForApprover 某用户的审批收件箱
func (s *RequestService[PT]) PendingForApprover(userID string) ([]PT, error) {
	return s.repo.PendingForApprover(userID)
}

// EmployeeForUser 某用户对应的员工档案，没有档案时返回 (nil, nil)
func (s *RequestService[PT]) EmployeeForUser(userID string) (*model.Employee, error) {
	return s.employees.FindByUserID(userID)
}

func (s *RequestService[PT]) load(id string) (PT, error) {
	req, err := s.repo.FindByID(id)
	if err != nil {
		var zero PT
		return zero, err
	}
	if isZero(req) {
		var zero PT
		return zero, ErrRequestNotFound
	}
	return req, nil
}

// isZero 泛型指针的nil判断
func isZero[PT model.Approvable](v PT) bool {
	var zero PT
	return any(v) == any(zero)
}
