package repository

import (
	"errors"

	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// DepartmentRepository 部门仓库
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(dept *model.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) Update(dept *model.Department) error {
	return r.db.Model(dept).
		Select("name", "code", "head_employee_id", "status").
		Updates(map[string]interface{}{
			"name":             dept.Name,
			"code":             dept.Code,
			"head_employee_id": dept.HeadEmployeeID,
			"status":           dept.Status,
		}).Error
}

func (r *DepartmentRepository) Delete(id string) error {
	return r.db.Delete(&model.Department{}, "id = ?", id).Error
}

func (r *DepartmentRepository) FindByID(id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.Preload("SubDepartments").Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) List() ([]model.Department, error) {
	var depts []model.Department
	err := r.db.Preload("SubDepartments").Order("name ASC").Find(&depts).Error
	return depts, err
}

// SubDepartmentRepository 子部门仓库
type SubDepartmentRepository struct {
	db *gorm.DB
}

func NewSubDepartmentRepository(db *gorm.DB) *SubDepartmentRepository {
	return &SubDepartmentRepository{db: db}
}

func (r *SubDepartmentRepository) Create(sub *model.SubDepartment) error {
	return r.db.Create(sub).Error
}

func (r *SubDepartmentRepository) Update(sub *model.SubDepartment) error {
	return r.db.Model(sub).
		Select("name", "head_employee_id", "status").
		Updates(map[string]interface{}{
			"name":             sub.Name,
			"head_employee_id": sub.HeadEmployeeID,
			"status":           sub.Status,
		}).Error
}

func (r *SubDepartmentRepository) Delete(id string) error {
	return r.db.Delete(&model.SubDepartment{}, "id = ?", id).Error
}

func (r *SubDepartmentRepository) FindByID(id string) (*model.SubDepartment, error) {
	var sub model.SubDepartment
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubDepartmentRepository) ListByDepartment(departmentID string) ([]model.SubDepartment, error) {
	var subs []model.SubDepartment
	err := r.db.Where("department_id = ?", departmentID).Order("name ASC").Find(&subs).Error
	return subs, err
}
