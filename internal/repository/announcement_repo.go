package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
)

// AnnouncementWithRead 公告及某操作员视角的已读状态
type AnnouncementWithRead struct {
	model.Announcement
	IsRead bool
}

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	GetByID(ctx context.Context, id uint) (*model.Announcement, error)
	// List includeInactive 为 false 时只返回启用中的公告
	List(ctx context.Context, includeInactive bool) ([]model.Announcement, error)
	// ListWithReadStatus 返回启用中的公告，附带 callsign 视角的已读标记
	ListWithReadStatus(ctx context.Context, callsign string) ([]AnnouncementWithRead, error)
	SetActive(ctx context.Context, id uint, active bool) error
	// Delete 删除公告及其全部已读记录
	Delete(ctx context.Context, id uint) error
	MarkRead(ctx context.Context, announcementID uint, callsign string) error
	// MarkAllRead 将所有启用中的公告标记为 callsign 已读，返回新增标记数
	MarkAllRead(ctx context.Context, callsign string) (int64, error)
	UnreadCount(ctx context.Context, callsign string) (int64, error)
}

// announcementRepo AnnouncementRepository 的 GORM 实现
type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id uint) (*model.Announcement, error) {
	var announcement model.Announcement
	err := r.db.WithContext(ctx).First(&announcement, id).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepo) List(ctx context.Context, includeInactive bool) ([]model.Announcement, error) {
	var announcements []model.Announcement
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("created_at DESC").Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepo) ListWithReadStatus(ctx context.Context, callsign string) ([]AnnouncementWithRead, error) {
	announcements, err := r.List(ctx, false)
	if err != nil {
		return nil, err
	}

	var reads []model.AnnouncementRead
	if err := r.db.WithContext(ctx).
		Where("operator_callsign = ?", callsign).
		Find(&reads).Error; err != nil {
		return nil, err
	}
	readSet := make(map[uint]struct{}, len(reads))
	for _, read := range reads {
		readSet[read.AnnouncementID] = struct{}{}
	}

	result := make([]AnnouncementWithRead, 0, len(announcements))
	for _, a := range announcements {
		_, isRead := readSet[a.ID]
		result = append(result, AnnouncementWithRead{Announcement: a, IsRead: isRead})
	}
	return result, nil
}

func (r *announcementRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("announcement_id = ?", id).
			Delete(&model.AnnouncementRead{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Announcement{}, id).Error
	})
}

func (r *announcementRepo) MarkRead(ctx context.Context, announcementID uint, callsign string) error {
	read := model.AnnouncementRead{
		AnnouncementID:   announcementID,
		OperatorCallsign: callsign,
	}
	// 重复标记静默忽略
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&read).Error
}

func (r *announcementRepo) MarkAllRead(ctx context.Context, callsign string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO announcement_reads (announcement_id, operator_callsign)
		SELECT id, ? FROM announcements WHERE is_active = TRUE
		ON CONFLICT (announcement_id, operator_callsign) DO NOTHING`, callsign)
	return result.RowsAffected, result.Error
}

func (r *announcementRepo) UnreadCount(ctx context.Context, callsign string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)",
			r.db.Model(&model.AnnouncementRead{}).
				Select("announcement_id").
				Where("operator_callsign = ?", callsign)).
		Count(&count).Error
	return count, err
}

