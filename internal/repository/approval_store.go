package repository

import (
	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// ApprovalStore 审批引擎的持久化适配器，六类请求共用一个实例
// 条件更新是并发安全的关键：两个并发的同级操作只有一个能命中 WHERE 条件
type ApprovalStore struct {
	db *gorm.DB
}

func NewApprovalStore(db *gorm.DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

// Create 持久化新请求
func (s *ApprovalStore) Create(req model.Approvable) error {
	return s.db.Create(req).Error
}

// ApplyDecision 条件写回审批决定
// 仅当 level 级状态仍为 expected 时更新，返回是否命中（RowsAffected > 0）
func (s *ApprovalStore) ApplyDecision(req model.Approvable, level int, expected model.LevelStatus, fields map[string]interface{}) (bool, error) {
	statusColumn := "approval1_status"
	if level == 2 {
		statusColumn = "approval2_status"
	}

	result := s.db.Model(req).
		Where("id = ?", req.GetID()).
		Where(statusColumn+" = ?", expected).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
