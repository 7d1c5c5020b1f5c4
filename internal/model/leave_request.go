package model

import (
	"fmt"
	"time"
)

// LeaveRequest 请假申请
type LeaveRequest struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID string    `json:"employeeId" gorm:"type:varchar(36);not null;index"`
	LeaveType  string    `json:"leaveType" gorm:"type:varchar(30);not null"` // annual, sick, casual, unpaid
	StartDate  time.Time `json:"startDate" gorm:"type:date;not null"`
	EndDate    time.Time `json:"endDate" gorm:"type:date;not null"`
	TotalDays  float64   `json:"totalDays" gorm:"type:decimal(5,1)"`
	Reason     string    `json:"reason" gorm:"type:text"`

	ApprovalFields

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r *LeaveRequest) GetID() string                { return r.ID }
func (r *LeaveRequest) GetEmployeeID() string        { return r.EmployeeID }
func (r *LeaveRequest) GetApproval() *ApprovalFields { return &r.ApprovalFields }
func (r *LeaveRequest) GetRequestType() RequestType  { return RequestTypeLeave }

func (r *LeaveRequest) RequestTitle() string {
	return fmt.Sprintf("请假申请（%s，%s 至 %s）", r.LeaveType,
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))
}
