package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
)

// SettingRepository 应用设置（键值对）数据访问接口
type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.AppSetting, error)
	List(ctx context.Context) ([]model.AppSetting, error)
	// Set 写入设置项，已存在则覆盖
	Set(ctx context.Context, key, value string) error
}

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepo 创建 SettingRepository 实例
func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) List(ctx context.Context) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) Set(ctx context.Context, key, value string) error {
	setting := model.AppSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&setting).Error
}
