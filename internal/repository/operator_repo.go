package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
)

// OperatorRepository 操作员数据访问接口
type OperatorRepository interface {
	Create(ctx context.Context, operator *model.Operator) error
	GetByCallsign(ctx context.Context, callsign string) (*model.Operator, error)
	List(ctx context.Context) ([]model.Operator, error)
	UpdatePassword(ctx context.Context, callsign, passwordHash string) error
	SetAdmin(ctx context.Context, callsign string, isAdmin bool) error
	// DeleteCascade 删除操作员，并在同一事务内释放其全部锁定、
	// 清理其公告已读记录，返回释放的锁定数量
	DeleteCascade(ctx context.Context, callsign string) (int64, error)
}

// operatorRepo OperatorRepository 的 GORM 实现
type operatorRepo struct {
	db *gorm.DB
}

// NewOperatorRepo 创建 OperatorRepository 实例
func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) Create(ctx context.Context, operator *model.Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}

func (r *operatorRepo) GetByCallsign(ctx context.Context, callsign string) (*model.Operator, error) {
	var operator model.Operator
	err := r.db.WithContext(ctx).
		Where("callsign = ?", callsign).
		First(&operator).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) List(ctx context.Context) ([]model.Operator, error) {
	var operators []model.Operator
	err := r.db.WithContext(ctx).
		Order("callsign ASC").
		Find(&operators).Error
	return operators, err
}

func (r *operatorRepo) UpdatePassword(ctx context.Context, callsign, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.Operator{}).
		Where("callsign = ?", callsign).
		Update("password_hash", passwordHash).Error
}

func (r *operatorRepo) SetAdmin(ctx context.Context, callsign string, isAdmin bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Operator{}).
		Where("callsign = ?", callsign).
		Update("is_admin", isAdmin).Error
}

func (r *operatorRepo) DeleteCascade(ctx context.Context, callsign string) (int64, error) {
	var released int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("operator_callsign = ?", callsign).
			Delete(&model.BandModeBlock{})
		if result.Error != nil {
			return result.Error
		}
		released = result.RowsAffected

		if err := tx.Where("operator_callsign = ?", callsign).
			Delete(&model.AnnouncementRead{}).Error; err != nil {
			return err
		}
		return tx.Where("callsign = ?", callsign).
			Delete(&model.Operator{}).Error
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

