package model

import (
	"time"
)

// Department 部门
type Department struct {
	ID             string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string  `json:"name" gorm:"type:varchar(100);not null"`
	Code           string  `json:"code" gorm:"type:varchar(50);uniqueIndex"`
	HeadEmployeeID *string `json:"headEmployeeId" gorm:"type:varchar(36);index"` // 部门负责人（员工ID）
	Status         string  `json:"status" gorm:"type:varchar(20);default:'active';index"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// 关联
	SubDepartments []SubDepartment `json:"subDepartments,omitempty" gorm:"foreignKey:DepartmentID"`
}

func (Department) TableName() string {
	return "departments"
}

// SubDepartment 子部门
type SubDepartment struct {
	ID             string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DepartmentID   string  `json:"departmentId" gorm:"type:varchar(36);not null;index"`
	Name           string  `json:"name" gorm:"type:varchar(100);not null"`
	HeadEmployeeID *string `json:"headEmployeeId" gorm:"type:varchar(36);index"` // 子部门负责人（员工ID）
	Status         string  `json:"status" gorm:"type:varchar(20);default:'active';index"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (SubDepartment) TableName() string {
	return "sub_departments"
}
