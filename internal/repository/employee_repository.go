package repository

import (
	"errors"

	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// EmployeeRepository 员工仓库，同时充当审批人解析所需的组织目录
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(emp *model.Employee) error {
	return r.db.Create(emp).Error
}

func (r *EmployeeRepository) Update(emp *model.Employee) error {
	return r.db.Model(emp).
		Select("employee_number", "user_id", "full_name", "email", "phone", "position",
			"department_id", "sub_department_id", "reporting_manager_id", "status").
		Updates(map[string]interface{}{
			"employee_number":      emp.EmployeeNumber,
			"user_id":              emp.UserID,
			"full_name":            emp.FullName,
			"email":                emp.Email,
			"phone":                emp.Phone,
			"position":             emp.Position,
			"department_id":        emp.DepartmentID,
			"sub_department_id":    emp.SubDepartmentID,
			"reporting_manager_id": emp.ReportingManagerID,
			"status":               emp.Status,
		}).Error
}

func (r *EmployeeRepository) Delete(id string) error {
	return r.db.Delete(&model.Employee{}, "id = ?", id).Error
}

// EmployeeByID 按ID查询员工，未找到时返回 (nil, nil)
func (r *EmployeeRepository) EmployeeByID(id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// FindByUserID 按关联的用户账号查询员工
func (r *EmployeeRepository) FindByUserID(userID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.Where("user_id = ?", userID).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// DepartmentHead 查询部门负责人，部门不存在或未设置负责人时返回 (nil, nil)
func (r *EmployeeRepository) DepartmentHead(departmentID string) (*model.Employee, error) {
	var dept model.Department
	err := r.db.Select("head_employee_id").Where("id = ?", departmentID).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if dept.HeadEmployeeID == nil || *dept.HeadEmployeeID == "" {
		return nil, nil
	}
	return r.EmployeeByID(*dept.HeadEmployeeID)
}

// SubDepartmentHead 查询子部门负责人
func (r *EmployeeRepository) SubDepartmentHead(subDepartmentID string) (*model.Employee, error) {
	var sub model.SubDepartment
	err := r.db.Select("head_employee_id").Where("id = ?", subDepartmentID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if sub.HeadEmployeeID == nil || *sub.HeadEmployeeID == "" {
		return nil, nil
	}
	return r.EmployeeByID(*sub.HeadEmployeeID)
}

func (r *EmployeeRepository) List(departmentID *string, page, pageSize int) (total int64, employees []model.Employee, err error) {
	query := r.db.Model(&model.Employee{})
	if departmentID != nil && *departmentID != "" {
		query = query.Where("department_id = ?", *departmentID)
	}

	if err = query.Count(&total).Error; err != nil {
		return
	}
	if total == 0 {
		return 0, []model.Employee{}, nil
	}

	if pageSize > 0 && page > 0 {
		offset := (page - 1) * pageSize
		query = query.Offset(offset).Limit(pageSize)
	}
	err = query.Preload("User").Order("employee_number ASC").Find(&employees).Error
	return
}
