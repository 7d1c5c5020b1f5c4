package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceSalaryRequest 预支工资申请
type AdvanceSalaryRequest struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID string          `json:"employeeId" gorm:"type:varchar(36);not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	MonthYear  string          `json:"monthYear" gorm:"type:varchar(7);not null"` // 预支月份，格式 2006-01
	Reason     string          `json:"reason" gorm:"type:text"`

	ApprovalFields

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (AdvanceSalaryRequest) TableName() string {
	return "advance_salary_requests"
}

func (r *AdvanceSalaryRequest) GetID() string                { return r.ID }
func (r *AdvanceSalaryRequest) GetEmployeeID() string        { return r.EmployeeID }
func (r *AdvanceSalaryRequest) GetApproval() *ApprovalFields { return &r.ApprovalFields }
func (r *AdvanceSalaryRequest) GetRequestType() RequestType  { return RequestTypeAdvanceSalary }

func (r *AdvanceSalaryRequest) RequestTitle() string {
	return fmt.Sprintf("预支工资申请（%s，金额 %s）", r.MonthYear, r.Amount.StringFixed(2))
}
