package model

import (
	"time"
)

// RequestType 审批请求类型
type RequestType string

const (
	RequestTypeLeave                RequestType = "leave"                 // 请假
	RequestTypeLoan                 RequestType = "loan"                  // 借款
	RequestTypeAdvanceSalary        RequestType = "advance-salary"        // 预支工资
	RequestTypeOvertime             RequestType = "overtime"              // 加班
	RequestTypeAttendanceExemption  RequestType = "attendance-exemption"  // 考勤豁免
	RequestTypeAttendanceCorrection RequestType = "attendance-correction" // 考勤补卡
)

// KnownRequestTypes 全部已知的请求类型
var KnownRequestTypes = []RequestType{
	RequestTypeLeave,
	RequestTypeLoan,
	RequestTypeAdvanceSalary,
	RequestTypeOvertime,
	RequestTypeAttendanceExemption,
	RequestTypeAttendanceCorrection,
}

// IsKnownRequestType 判断请求类型是否已知
func IsKnownRequestType(rt RequestType) bool {
	for _, t := range KnownRequestTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ApprovalFlow 审批流转模式
type ApprovalFlow string

const (
	ApprovalFlowAuto       ApprovalFlow = "auto-approved" // 自动通过，不解析审批人
	ApprovalFlowMultiLevel ApprovalFlow = "multi-level"   // 多级审批（最多两级）
)

// ApproverType 审批人策略
type ApproverType string

const (
	ApproverTypeReportingManager  ApproverType = "reporting-manager"   // 直属上级
	ApproverTypeSpecificEmployee  ApproverType = "specific-employee"   // 指定员工
	ApproverTypeDepartmentHead    ApproverType = "department-head"     // 部门负责人
	ApproverTypeSubDepartmentHead ApproverType = "sub-department-head" // 子部门负责人
)

// DepartmentHeadMode 部门负责人策略的部门选择方式
type DepartmentHeadMode string

const (
	HeadModeAuto     DepartmentHeadMode = "auto"     // 使用申请人所在部门
	HeadModeSpecific DepartmentHeadMode = "specific" // 使用配置中指定的部门
)

// MaxApprovalLevels 审批级数上限
const MaxApprovalLevels = 2

// ForwardingConfiguration 审批流转配置，每个请求类型一条
type ForwardingConfiguration struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	RequestType  RequestType  `json:"requestType" gorm:"type:varchar(30);uniqueIndex;not null"`
	ApprovalFlow ApprovalFlow `json:"approvalFlow" gorm:"type:varchar(20);not null"`
	Status       string       `json:"status" gorm:"type:varchar(20);default:'active';index"` // active, inactive

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联（有序，level升序）
	Levels []ApprovalLevel `json:"levels" gorm:"foreignKey:ConfigurationID;constraint:OnDelete:CASCADE"`
}

func (ForwardingConfiguration) TableName() string {
	return "forwarding_configurations"
}

// ApprovalLevel 一级审批配置，属于一条流转配置
type ApprovalLevel struct {
	ID              uint `json:"id" gorm:"primaryKey"`
	ConfigurationID uint `json:"configurationId" gorm:"not null;index"`
	Level           int  `json:"level" gorm:"not null"` // 1 或 2

	ApproverType       ApproverType       `json:"approverType" gorm:"type:varchar(30);not null"`
	DepartmentHeadMode DepartmentHeadMode `json:"departmentHeadMode" gorm:"type:varchar(20)"` // 仅对负责人类策略有意义

	SpecificEmployeeID *string `json:"specificEmployeeId" gorm:"type:varchar(36)"`
	DepartmentID       *string `json:"departmentId" gorm:"type:varchar(36)"`
	SubDepartmentID    *string `json:"subDepartmentId" gorm:"type:varchar(36)"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (ApprovalLevel) TableName() string {
	return "approval_levels"
}
