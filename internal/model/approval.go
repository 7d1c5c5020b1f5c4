package model

import (
	"time"
)

// LevelStatus 单级审批状态
type LevelStatus string

const (
	LevelStatusNone         LevelStatus = ""              // 该级未配置或未激活
	LevelStatusPending      LevelStatus = "pending"       // 待审批
	LevelStatusApproved     LevelStatus = "approved"      // 已批准
	LevelStatusRejected     LevelStatus = "rejected"      // 已拒绝
	LevelStatusAutoApproved LevelStatus = "auto-approved" // 配置为自动通过
)

// Satisfied 单级状态是否已满足（批准或自动通过）
func (s LevelStatus) Satisfied() bool {
	return s == LevelStatusApproved || s == LevelStatusAutoApproved
}

// RequestStatus 请求整体审批状态
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// ApprovalFields 六类审批请求共享的审批字段，嵌入到各请求实体中
// 只能通过审批状态机修改，各请求的领域服务不得直接写这些字段
type ApprovalFields struct {
	Approval1       *string     `json:"approval1" gorm:"type:varchar(36);index"` // 一级审批人（用户ID）
	Approval1Status LevelStatus `json:"approval1Status" gorm:"type:varchar(20)"`
	Approval1Date   *time.Time  `json:"approval1Date" gorm:"type:timestamp"`

	Approval2       *string     `json:"approval2" gorm:"type:varchar(36);index"` // 二级审批人，非空即表示配置了第二级
	Approval2Status LevelStatus `json:"approval2Status" gorm:"type:varchar(20)"`
	Approval2Date   *time.Time  `json:"approval2Date" gorm:"type:timestamp"`

	ApprovalStatus  RequestStatus `json:"approvalStatus" gorm:"type:varchar(20);default:'pending';index"`
	RejectionReason string        `json:"rejectionReason" gorm:"type:text"`
	ApprovedBy      *string       `json:"approvedBy" gorm:"type:varchar(36)"`
	ApprovedAt      *time.Time    `json:"approvedAt" gorm:"type:timestamp"`

	CreatedByID string `json:"createdById" gorm:"type:varchar(36);not null;index"` // 提交人（用户ID）
}

// PendingLevel 当前待审批的级别
// 终态（approved/rejected）返回0；一级未满足返回1；二级已配置且未批准返回2；否则返回0
func (f *ApprovalFields) PendingLevel() int {
	if f.ApprovalStatus == RequestStatusApproved || f.ApprovalStatus == RequestStatusRejected {
		return 0
	}
	if !f.Approval1Status.Satisfied() {
		return 1
	}
	if f.Approval2 != nil && f.Approval2Status != LevelStatusApproved {
		return 2
	}
	return 0
}

// ApproverAt 指定级别配置的审批人
func (f *ApprovalFields) ApproverAt(level int) *string {
	switch level {
	case 1:
		return f.Approval1
	case 2:
		return f.Approval2
	}
	return nil
}

// Approvable 六类审批请求实体共同实现的约定，供通用审批引擎使用
type Approvable interface {
	GetID() string
	GetEmployeeID() string
	GetApproval() *ApprovalFields
	GetRequestType() RequestType
	// RequestTitle 用于通知文案的简短标题
	RequestTitle() string
}
