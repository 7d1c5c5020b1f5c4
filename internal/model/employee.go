package model

import (
	"time"
)

// Employee 员工档案
// UserID 关联平台账号，为空表示该员工没有登录账号（审批人解析时视为不可达）
type Employee struct {
	ID                 string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeNumber     string  `json:"employeeNumber" gorm:"type:varchar(50);uniqueIndex"`
	UserID             *string `json:"userId" gorm:"type:varchar(36);index"`
	FullName           string  `json:"fullName" gorm:"type:varchar(100);not null"`
	Email              string  `json:"email" gorm:"type:varchar(100)"`
	Phone              string  `json:"phone" gorm:"type:varchar(30)"`
	Position           string  `json:"position" gorm:"type:varchar(100)"`
	DepartmentID       *string `json:"departmentId" gorm:"type:varchar(36);index"`
	SubDepartmentID    *string `json:"subDepartmentId" gorm:"type:varchar(36);index"`
	ReportingManagerID *string `json:"reportingManagerId" gorm:"type:varchar(36);index"` // 直属上级（员工ID）
	Status             string  `json:"status" gorm:"type:varchar(20);default:'active';index"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Employee) TableName() string {
	return "employees"
}

// OrgAttributes 员工的组织属性快照，审批人解析的输入
type OrgAttributes struct {
	EmployeeID         string
	DepartmentID       *string
	SubDepartmentID    *string
	ReportingManagerID *string
}

// Org 提取员工的组织属性
func (e *Employee) Org() OrgAttributes {
	return OrgAttributes{
		EmployeeID:         e.ID,
		DepartmentID:       e.DepartmentID,
		SubDepartmentID:    e.SubDepartmentID,
		ReportingManagerID: e.ReportingManagerID,
	}
}
