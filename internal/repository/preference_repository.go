package repository

import (
	"errors"

	"github.com/fisker/zhr-backend/internal/model"
	"gorm.io/gorm"
)

// PreferenceRepository 用户偏好仓库
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetAll 取用户全部偏好键值，不存在的键由上层按默认值处理
func (r *PreferenceRepository) GetAll(userID string) (map[string]string, error) {
	var prefs []model.UserPreference
	if err := r.db.Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

// Set 写入单个偏好键，懒创建
func (r *PreferenceRepository) Set(userID, key, value string) error {
	var existing model.UserPreference
	err := r.db.Where("user_id = ? AND pref_key = ?", userID, key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&model.UserPreference{
			UserID: userID,
			Key:    key,
			Value:  value,
		}).Error
	} else if err != nil {
		return err
	}
	return r.db.Model(&existing).Update("value", value).Error
}
