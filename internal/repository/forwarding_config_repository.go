package repository

import (
	"errors"

	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// ForwardingConfigRepository 审批流转配置仓库
type ForwardingConfigRepository struct {
	db *gorm.DB
}

func NewForwardingConfigRepository(db *gorm.DB) *ForwardingConfigRepository {
	return &ForwardingConfigRepository{db: db}
}

// Create 创建配置及其级别，同一事务
func (r *ForwardingConfigRepository) Create(cfg *model.ForwardingConfiguration) error {
	return r.db.Create(cfg).Error
}

// ReplaceLevels 更新配置并全量替换级别列表（先删后建），同一事务
// levels 为 nil 表示保留现有级别不动
func (r *ForwardingConfigRepository) ReplaceLevels(cfg *model.ForwardingConfiguration, levels []model.ApprovalLevel) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(cfg).
			Select("approval_flow", "status").
			Updates(map[string]interface{}{
				"approval_flow": cfg.ApprovalFlow,
				"status":        cfg.Status,
			}).Error; err != nil {
			return err
		}

		if levels == nil {
			return nil
		}

		if err := tx.Where("configuration_id = ?", cfg.ID).Delete(&model.ApprovalLevel{}).Error; err != nil {
			return err
		}
		for i := range levels {
			levels[i].ID = 0
			levels[i].ConfigurationID = cfg.ID
			if err := tx.Create(&levels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除配置，级别随外键级联删除；不影响已创建的请求
func (r *ForwardingConfigRepository) Delete(cfg *model.ForwardingConfiguration) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("configuration_id = ?", cfg.ID).Delete(&model.ApprovalLevel{}).Error; err != nil {
			return err
		}
		return tx.Delete(cfg).Error
	})
}

// FindByRequestType 按请求类型查询配置（含级别，level升序），未找到时返回 (nil, nil)
func (r *ForwardingConfigRepository) FindByRequestType(rt model.RequestType) (*model.ForwardingConfiguration, error) {
	var cfg model.ForwardingConfiguration
	err := r.db.Preload("Levels", func(db *gorm.DB) *gorm.DB {
		return db.Order("level ASC")
	}).Where("request_type = ?", rt).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// ActiveConfig 返回该类型当前激活的配置，实现审批引擎的配置来源
func (r *ForwardingConfigRepository) ActiveConfig(rt model.RequestType) (*model.ForwardingConfiguration, error) {
	cfg, err := r.FindByRequestType(rt)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.Status != "active" {
		return nil, nil
	}
	return cfg, nil
}

func (r *ForwardingConfigRepository) List() ([]model.ForwardingConfiguration, error) {
	var cfgs []model.ForwardingConfiguration
	err := r.db.Preload("Levels", func(db *gorm.DB) *gorm.DB {
		return db.Order("level ASC")
	}).Order("request_type ASC").Find(&cfgs).Error
	return cfgs, err
}
