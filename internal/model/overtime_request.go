package model

import (
	"fmt"
	"time"
)

// OvertimeRequest 加班申请
type OvertimeRequest struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID string    `json:"employeeId" gorm:"type:varchar(36);not null;index"`
	Date       time.Time `json:"date" gorm:"type:date;not null"`
	StartTime  string    `json:"startTime" gorm:"type:varchar(5);not null"` // HH:mm
	EndTime    string    `json:"endTime" gorm:"type:varchar(5);not null"`   // HH:mm
	Hours      float64   `json:"hours" gorm:"type:decimal(4,1)"`
	Reason     string    `json:"reason" gorm:"type:text"`

	ApprovalFields

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}

func (r *OvertimeRequest) GetID() string                { return r.ID }
func (r *OvertimeRequest) GetEmployeeID() string        { return r.EmployeeID }
func (r *OvertimeRequest) GetApproval() *ApprovalFields { return &r.ApprovalFields }
func (r *OvertimeRequest) GetRequestType() RequestType  { return RequestTypeOvertime }

func (r *OvertimeRequest) RequestTitle() string {
	return fmt.Sprintf("加班申请（%s %s-%s）", r.Date.Format("2006-01-02"), r.StartTime, r.EndTime)
}
