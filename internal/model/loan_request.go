package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanRequest 借款申请
type LoanRequest struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID       string          `json:"employeeId" gorm:"type:varchar(36);not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Installments     int             `json:"installments" gorm:"not null"` // 分期月数
	MonthlyDeduction decimal.Decimal `json:"monthlyDeduction" gorm:"type:decimal(12,2)"`
	Reason           string          `json:"reason" gorm:"type:text"`

	ApprovalFields

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (LoanRequest) TableName() string {
	return "loan_requests"
}

func (r *LoanRequest) GetID() string                { return r.ID }
func (r *LoanRequest) GetEmployeeID() string        { return r.EmployeeID }
func (r *LoanRequest) GetApproval() *ApprovalFields { return &r.ApprovalFields }
func (r *LoanRequest) GetRequestType() RequestType  { return RequestTypeLoan }

func (r *LoanRequest) RequestTitle() string {
	return fmt.Sprintf("借款申请（金额 %s，分 %d 期）", r.Amount.StringFixed(2), r.Installments)
}
