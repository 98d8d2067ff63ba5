package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
)

// QSOFilter QSO 列表查询条件
type QSOFilter struct {
	AwardID  uint
	Operator string
	Band     string
	Mode     string
}

// QSOStats 按维度聚合的 QSO 统计
type QSOStats struct {
	Total      int64
	ByBand     map[string]int64
	ByMode     map[string]int64
	ByOperator map[string]int64
}

// QSORepository QSO 日志数据访问接口
type QSORepository interface {
	Create(ctx context.Context, qso *model.QSO) error
	GetByID(ctx context.Context, id uint) (*model.QSO, error)
	List(ctx context.Context, filter QSOFilter, offset, limit int) ([]model.QSO, int64, error)
	// ListAll 返回某奖项全部 QSO，按 qso_date/time_on 正序（导出用）
	ListAll(ctx context.Context, awardID uint) ([]model.QSO, error)
	// BulkCreateSkipDuplicates 批量写入，跳过已存在的
	// (award, callsign, band, mode, qso_date, time_on) 重复记录，
	// 返回 (写入数, 跳过数)
	BulkCreateSkipDuplicates(ctx context.Context, qsos []model.QSO) (int, int, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, awardID uint) (*QSOStats, error)
}

// qsoRepo QSORepository 的 GORM 实现
type qsoRepo struct {
	db *gorm.DB
}

// NewQSORepo 创建 QSORepository 实例
func NewQSORepo(db *gorm.DB) QSORepository {
	return &qsoRepo{db: db}
}

func (r *qsoRepo) Create(ctx context.Context, qso *model.QSO) error {
	return r.db.WithContext(ctx).Create(qso).Error
}

func (r *qsoRepo) GetByID(ctx context.Context, id uint) (*model.QSO, error) {
	var qso model.QSO
	err := r.db.WithContext(ctx).First(&qso, id).Error
	if err != nil {
		return nil, err
	}
	return &qso, nil
}

func (r *qsoRepo) List(ctx context.Context, filter QSOFilter, offset, limit int) ([]model.QSO, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.QSO{}).
		Where("award_id = ?", filter.AwardID)
	if filter.Operator != "" {
		db = db.Where("operator_callsign = ?", filter.Operator)
	}
	if filter.Band != "" {
		db = db.Where("band = ?", filter.Band)
	}
	if filter.Mode != "" {
		db = db.Where("mode = ?", filter.Mode)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var qsos []model.QSO
	if err := db.Order("qso_date DESC, time_on DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&qsos).Error; err != nil {
		return nil, 0, err
	}
	return qsos, total, nil
}

func (r *qsoRepo) ListAll(ctx context.Context, awardID uint) ([]model.QSO, error) {
	var qsos []model.QSO
	err := r.db.WithContext(ctx).
		Where("award_id = ?", awardID).
		Order("qso_date ASC, time_on ASC, id ASC").
		Find(&qsos).Error
	return qsos, err
}

func (r *qsoRepo) BulkCreateSkipDuplicates(ctx context.Context, qsos []model.QSO) (int, int, error) {
	var inserted, skipped int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range qsos {
			qso := &qsos[i]
			var existing model.QSO
			err := tx.Where(
				"award_id = ? AND callsign = ? AND band = ? AND mode = ? AND qso_date = ? AND time_on = ?",
				qso.AwardID, qso.Callsign, qso.Band, qso.Mode, qso.QSODate, qso.TimeOn,
			).Take(&existing).Error
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(qso).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}

func (r *qsoRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.QSO{}, id).Error
}

func (r *qsoRepo) Stats(ctx context.Context, awardID uint) (*QSOStats, error) {
	stats := &QSOStats{
		ByBand:     make(map[string]int64),
		ByMode:     make(map[string]int64),
		ByOperator: make(map[string]int64),
	}

	if err := r.db.WithContext(ctx).Model(&model.QSO{}).
		Where("award_id = ?", awardID).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	groupInto := func(column string, dst map[string]int64) error {
		var rows []bucket
		err := r.db.WithContext(ctx).Model(&model.QSO{}).
			Select(column+" AS key, COUNT(*) AS count").
			Where("award_id = ?", awardID).
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, row := range rows {
			dst[row.Key] = row.Count
		}
		return nil
	}

	if err := groupInto("band", stats.ByBand); err != nil {
		return nil, err
	}
	if err := groupInto("mode", stats.ByMode); err != nil {
		return nil, err
	}
	if err := groupInto("operator_callsign", stats.ByOperator); err != nil {
		return nil, err
	}
	return stats, nil
}

