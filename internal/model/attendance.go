package model

import (
	"fmt"
	"time"
)

// AttendanceExemption 考勤豁免申请（指定时段内免打卡/免考核）
type AttendanceExemption struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID    string    `json:"employeeId" gorm:"type:varchar(36);not null;index"`
	ExemptionType string    `json:"exemptionType" gorm:"type:varchar(30);not null"` // late-arrival, early-departure, full-day
	StartDate     time.Time `json:"startDate" gorm:"type:date;not null"`
	EndDate       time.Time `json:"endDate" gorm:"type:date;not null"`
	Reason        string    `json:"reason" gorm:"type:text"`

	ApprovalFields

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (AttendanceExemption) TableName() string {
	return "attendance_exemptions"
}

func (r *AttendanceExemption) GetID() string                { return r.ID }
func (r *AttendanceExemption) GetEmployeeID() string        { return r.EmployeeID }
func (r *AttendanceExemption) GetApproval() *ApprovalFields { return &r.ApprovalFields }
func (r *AttendanceExemption) GetRequestType() RequestType  { return RequestTypeAttendanceExemption }

func (r *AttendanceExemption) RequestTitle() string {
	return fmt.Sprintf("考勤豁免申请（%s，%s 至 %s）", r.ExemptionType,
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))
}

// AttendanceCorrectionRequest 考勤补卡申请
type AttendanceCorrectionRequest struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID   string    `json:"employeeId" gorm:"type:varchar(36);not null;index"`
	Date         time.Time `json:"date" gorm:"type:date;not null"`
	CheckInTime  *string   `json:"checkInTime" gorm:"type:varchar(5)"`  // HH:mm，为空表示不修正上班卡
	CheckOutTime *string   `json:"checkOutTime" gorm:"type:varchar(5)"` // HH:mm，为空表示不修正下班卡
	Reason       string    `json:"reason" gorm:"type:text"`

	ApprovalFields

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (AttendanceCorrectionRequest) TableName() string {
	return "attendance_correction_requests"
}

func (r *AttendanceCorrectionRequest) GetID() string                { return r.ID }
func (r *AttendanceCorrectionRequest) GetEmployeeID() string        { return r.EmployeeID }
func (r *AttendanceCorrectionRequest) GetApproval() *ApprovalFields { return &r.ApprovalFields }
func (r *AttendanceCorrectionRequest) GetRequestType() RequestType {
	return RequestTypeAttendanceCorrection
}

func (r *AttendanceCorrectionRequest) RequestTitle() string {
	return fmt.Sprintf("考勤补卡申请（%s）", r.Date.Format("2006-01-02"))
}
