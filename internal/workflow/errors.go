package workflow

import (
	"errors"
	"fmt"

	"github.com/fisker/zhr-backend/internal/model"
)

var (
	// ErrNoPendingApproval 请求没有待处理的审批级
	ErrNoPendingApproval = errors.New("no pending approval")

	// ErrRequestRejected 请求已被拒绝，终态不可再操作
	ErrRequestRejected = errors.New("request already rejected")

	// ErrRequestApproved 请求已全部批准
	ErrRequestApproved = errors.New("request already approved")

	// ErrForbidden 操作人不是该级配置的审批人
	ErrForbidden = errors.New("actor is not the approver for this level")

	// ErrLevelNotActive 操作的级别不是当前待审批级
	ErrLevelNotActive = errors.New("level is not the current pending level")

	// ErrNoApproverConfigured 该级没有解析出审批人
	ErrNoApproverConfigured = errors.New("no approver configured for this level")

	// ErrDecisionConflict 条件更新未命中，说明有并发操作抢先修改了该级状态
	ErrDecisionConflict = errors.New("approval state changed concurrently")
)

// ResolutionError 审批人解析失败，必须指明失败的级别供管理员修正配置
type ResolutionError struct {
	Level        int
	ApproverType model.ApproverType
	Reason       string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve approver for level %d (%s): %s", e.Level, e.ApproverType, e.Reason)
}

// ValidationError 配置或参数校验失败
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 创建校验错误
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
