package repository

import (
	"errors"

	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// RequestRepository 六类审批请求共用的查询仓库
// 审批字段结构完全一致，按类型实例化一份即可
type RequestRepository[PT model.Approvable] struct {
	db    *gorm.DB
	newFn func() PT
}

func NewRequestRepository[PT model.Approvable](db *gorm.DB, newFn func() PT) *RequestRepository[PT] {
	return &RequestRepository[PT]{db: db, newFn: newFn}
}

// FindByID 按ID查询，未找到时返回 (zero, nil)
func (r *RequestRepository[PT]) FindByID(id string) (PT, error) {
	row := r.newFn()
	err := r.db.Preload("Employee").Where("id = ?", id).First(row).Error
	if err != nil {
		var zero PT
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, nil
		}
		return zero, err
	}
	return row, nil
}

// ListByEmployee 查询某员工的请求，可按整体状态过滤
func (r *RequestRepository[PT]) ListByEmployee(employeeID string, status model.RequestStatus, page, pageSize int) (total int64, rows []PT, err error) {
	query := r.db.Model(r.newFn()).Where("employee_id = ?", employeeID)
	if status != "" {
		query = query.Where("approval_status = ?", status)
	}

	if err = query.Count(&total).Error; err != nil {
		return
	}
	if total == 0 {
		return 0, []PT{}, nil
	}

	if pageSize > 0 && page > 0 {
		offset := (page - 1) * pageSize
		query = query.Offset(offset).Limit(pageSize)
	}
	err = query.Preload("Employee").Order("created_at DESC").Find(&rows).Error
	return
}

// List 查询全部请求，可按整体状态过滤
func (r *RequestRepository[PT]) List(status model.RequestStatus, page, pageSize int) (total int64, rows []PT, err error) {
	query := r.db.Model(r.newFn())
	if status != "" {
		query = query.Where("approval_status = ?", status)
	}

	if err = query.Count(&total).Error; err != nil {
		return
	}
	if total == 0 {
		return 0, []PT{}, nil
	}

	if pageSize > 0 && page > 0 {
		offset := (page - 1) * pageSize
		query = query.Offset(offset).Limit(pageSize)
	}
	err = query.Preload("Employee").Order("created_at DESC").Find(&rows).Error
	return
}

// PendingForApprover 查询某用户当前待处理的请求（审批收件箱）
// 一级：该用户是一级审批人且一级待审
// 二级：该用户是二级审批人且一级已满足、二级待审
func (r *RequestRepository[PT]) PendingForApprover(userID string) ([]PT, error) {
	var rows []PT
	err := r.db.Model(r.newFn()).
		Where("approval_status = ?", model.RequestStatusPending).
		Where(
			r.db.Where("approval1 = ? AND approval1_status = ?", userID, model.LevelStatusPending).
				Or("approval2 = ? AND approval1_status IN ? AND approval2_status = ?",
					userID,
					[]model.LevelStatus{model.LevelStatusApproved, model.LevelStatusAutoApproved},
					model.LevelStatusPending),
		).
		Preload("Employee").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *RequestRepository[PT]) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(r.newFn()).Error
}
